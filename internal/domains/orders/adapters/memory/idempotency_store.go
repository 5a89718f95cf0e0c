package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore provides an in-memory implementation for development and tests.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[idempotencyKey]ports.IdempotencyRecord
	now     func() time.Time
}

type idempotencyKey struct {
	owner string
	key   string
}

// NewIdempotencyStore constructs an empty in-memory store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records: map[idempotencyKey]ports.IdempotencyRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the stored record for the provided key, or nil when absent.
func (s *IdempotencyStore) Get(_ context.Context, ownerID, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[idempotencyKey{ownerID, key}]
	if !ok {
		return nil, nil
	}
	found := record
	return &found, nil
}

// Reserve stores the record unless the key is already held, in which case the held record is returned.
func (s *IdempotencyStore) Reserve(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{record.OwnerID, record.Key}
	if existing, ok := s.records[k]; ok {
		found := existing
		return &found, false, nil
	}

	record.CreatedAt = s.now().UTC()
	s.records[k] = record
	saved := record
	return &saved, true, nil
}

// Complete records the order produced under a reserved key.
func (s *IdempotencyStore) Complete(_ context.Context, ownerID, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{ownerID, key}
	record, ok := s.records[k]
	if !ok {
		return fmt.Errorf("idempotency key %q is not reserved", key)
	}
	if !record.Pending() && record.OrderID != orderID {
		return ports.ErrIdempotencyConflict
	}
	record.OrderID = orderID
	s.records[k] = record
	return nil
}

// Release forgets a pending reservation. Completed keys are kept.
func (s *IdempotencyStore) Release(_ context.Context, ownerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{ownerID, key}
	if record, ok := s.records[k]; ok && record.Pending() {
		delete(s.records, k)
	}
	return nil
}
