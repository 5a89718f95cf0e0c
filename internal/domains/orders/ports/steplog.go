package ports

import (
	"context"
	"time"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
)

// StepLogEntry is one appended step result of a create run.
type StepLogEntry struct {
	RunID   string
	OrderID string
	OwnerID string
	types.StepResult
	TraceID string
	SpanID  string
}

// StepLog is an append-only record of create runs.
type StepLog interface {
	Append(ctx context.Context, entries []StepLogEntry) error
	ListByOrder(ctx context.Context, orderID string) ([]StepLogEntry, error)
	// PurgeOlderThan deletes entries recorded before cutoff and reports how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
