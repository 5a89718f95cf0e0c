package ports

import (
	"context"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error)
	ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error)
	GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error)
	UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error)
}
