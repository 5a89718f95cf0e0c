package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var _ ports.StepLog = (*StepLog)(nil)

// StepLog keeps create-run step results in append order.
type StepLog struct {
	mu      sync.RWMutex
	entries []ports.StepLogEntry
}

func NewStepLog() *StepLog {
	return &StepLog{}
}

func (l *StepLog) Append(_ context.Context, entries []ports.StepLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
	return nil
}

func (l *StepLog) ListByOrder(_ context.Context, orderID string) ([]ports.StepLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []ports.StepLogEntry
	for _, entry := range l.entries {
		if entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (l *StepLog) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	var removed int64
	for _, entry := range l.entries {
		if entry.At.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	l.entries = kept
	return removed, nil
}
