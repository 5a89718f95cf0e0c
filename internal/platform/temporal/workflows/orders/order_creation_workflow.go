package orders

import (
	"go.temporal.io/sdk/workflow"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/platform/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput captures the create command plus the caller's trace id.
type OrderCreationWorkflowInput struct {
	Command types.CreateOrderInput
	TraceID string
}

// OrderCreationWorkflow runs the order creation sequence.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*types.CreateOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "ownerId", input.Command.Owner.ID)...)
	result, err := sequences.RunOrderCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "ownerId", input.Command.Owner.ID, "error", err)...)
		return nil, err
	}
	if result != nil && result.Order != nil {
		logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", result.Order.ID)...)
	}
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
