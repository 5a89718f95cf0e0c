package application

import (
	"time"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
)

// stepRun accumulates step results of one create request in execution order.
type stepRun struct {
	now   func() time.Time
	steps []types.StepResult
}

func newStepRun(now func() time.Time) *stepRun {
	return &stepRun{now: now}
}

func (r *stepRun) succeed(step types.StepName, target string) {
	if r == nil {
		return
	}
	r.steps = append(r.steps, types.StepResult{Step: step, Target: target, Status: types.StepSucceeded, At: r.now().UTC()})
}

func (r *stepRun) fail(step types.StepName, target string, err error) {
	if r == nil {
		return
	}
	result := types.StepResult{Step: step, Target: target, Status: types.StepFailed, At: r.now().UTC()}
	if err != nil {
		result.Error = err.Error()
	}
	r.steps = append(r.steps, result)
}

func (r *stepRun) results() []types.StepResult {
	if r == nil {
		return nil
	}
	return append([]types.StepResult(nil), r.steps...)
}
