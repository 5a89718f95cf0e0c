package types

import (
	"time"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

// StepName identifies one side effect of the create workflow.
type StepName string

const (
	StepCheckAvailability StepName = "check_availability"
	StepPersistOrder      StepName = "persist_order"
	StepAdjustStock       StepName = "adjust_stock"
	StepPublishEvent      StepName = "publish_event"
)

// StepStatus is the outcome of a step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
)

// StepResult records one step outcome. Target names the product or event the step acted on.
type StepResult struct {
	Step   StepName
	Target string
	Status StepStatus
	Error  string
	At     time.Time
}

// CreateOrderResult is the persisted order plus what happened around it.
type CreateOrderResult struct {
	Order *domain.Order
	Steps []StepResult
	// Replayed is true when the order came from an earlier request with the same idempotency key.
	Replayed bool
}

// FailedSteps returns the steps that did not succeed.
func (r *CreateOrderResult) FailedSteps() []StepResult {
	if r == nil {
		return nil
	}
	var failed []StepResult
	for _, step := range r.Steps {
		if step.Status == StepFailed {
			failed = append(failed, step)
		}
	}
	return failed
}
