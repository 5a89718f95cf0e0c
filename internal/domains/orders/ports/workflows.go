package ports

import (
	"context"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs the create workflow, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error)
}
