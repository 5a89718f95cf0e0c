package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// CreateOrderActivityName runs the whole create workflow: availability, persist, stock, publish.
const CreateOrderActivityName = "orders.activities.CreateOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// CreateOrder runs the create use case once. Failures come back as non-retryable application
// errors whose type is the error code, so callers can restore the original taxonomy.
// The steps are not transactional, so a retry could consume stock twice.
func (a *Activities) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order create activity not initialized", "ownerId", input.Owner.ID)
		return nil, temporal.NewNonRetryableApplicationError("order create activity not initialized", application.CodeInternal, errors.New("nil service"))
	}
	logger.Info("CreateOrder activity started", "ownerId", input.Owner.ID, "lines", len(input.Items))
	result, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		code, detail := application.ClassifyError(err)
		logger.Warn("CreateOrder activity failed", "ownerId", input.Owner.ID, "code", code, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), code, err, detail)
	}
	logger.Info("CreateOrder activity completed", "orderId", result.Order.ID, "failedSteps", len(result.FailedSteps()))
	return result, nil
}
