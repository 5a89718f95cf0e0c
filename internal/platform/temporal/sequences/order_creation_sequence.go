package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/order-orchestrator/internal/platform/temporal/activities/orders"
)

// CreateOrderActivityOptions allows exactly one attempt. The timeout bounds the whole create run,
// post-persistence steps included; callers see a timeout as an unknown outcome.
var CreateOrderActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 2 * time.Minute,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

// RunOrderCreationSequence executes the create activity and returns its result.
func RunOrderCreationSequence(ctx workflow.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order creation sequence started", "ownerId", input.Owner.ID)

	var result types.CreateOrderResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, CreateOrderActivityOptions), orderactivities.CreateOrderActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("order creation sequence failed", "ownerId", input.Owner.ID, "error", err)
		return nil, err
	}
	if result.Order != nil {
		logger.Info("order creation sequence completed", "orderId", result.Order.ID)
	}
	return &result, nil
}
