package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload,
// or that the run holding the key has not finished yet.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key to the order it produced. Keys are scoped per owner.
// An empty OrderID marks a reservation whose create run is still in flight.
type IdempotencyRecord struct {
	OwnerID     string
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// Pending reports whether the key is reserved but no order has been recorded yet.
func (r IdempotencyRecord) Pending() bool {
	return r.OrderID == ""
}

// IdempotencyStore persists idempotency keys so retries can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record, or nil when unknown.
	Get(ctx context.Context, ownerID, key string) (*IdempotencyRecord, error)
	// Reserve atomically stores the record unless the key exists. It returns the stored record
	// and true when this call created it, or the existing record and false.
	Reserve(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, bool, error)
	// Complete attaches the created order to a reserved key.
	Complete(ctx context.Context, ownerID, key, orderID string) error
	// Release drops a pending reservation so the key can be reused.
	Release(ctx context.Context, ownerID, key string) error
}
