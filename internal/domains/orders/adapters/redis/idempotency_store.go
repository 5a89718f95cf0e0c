package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// DefaultTTL bounds how long a key can be replayed.
const DefaultTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps idempotency records in Redis. The first writer wins via SETNX.
type IdempotencyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

type storedRecord struct {
	OwnerID     string    `json:"ownerId"`
	Key         string    `json:"key"`
	RequestHash string    `json:"requestHash"`
	OrderID     string    `json:"orderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewIdempotencyStore(client goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, prefix: "orders:idempotency", now: time.Now}
}

// Key builds the Redis key for one owner-scoped idempotency key.
func (s *IdempotencyStore) Key(ownerID, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, ownerID, key)
}

func (s *IdempotencyStore) Get(ctx context.Context, ownerID, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.Key(ownerID, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &ports.IdempotencyRecord{
		OwnerID:     stored.OwnerID,
		Key:         stored.Key,
		RequestHash: stored.RequestHash,
		OrderID:     stored.OrderID,
		CreatedAt:   stored.CreatedAt.UTC(),
	}, nil
}

// Reserve claims the key with SETNX. When another run holds it the stored record is returned.
func (s *IdempotencyStore) Reserve(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureClient(); err != nil {
		return nil, false, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	payload, err := encodeRecord(record)
	if err != nil {
		return nil, false, err
	}
	stored, err := s.client.SetNX(ctx, s.Key(record.OwnerID, record.Key), payload, s.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if stored {
		saved := record
		return &saved, true, nil
	}
	existing, err := s.Get(ctx, record.OwnerID, record.Key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("idempotency key %q expired during reserve", record.Key)
	}
	return existing, false, nil
}

// Complete rewrites the reservation with the order id, keeping the original expiry.
func (s *IdempotencyStore) Complete(ctx context.Context, ownerID, key, orderID string) error {
	existing, err := s.Get(ctx, ownerID, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("idempotency key %q is not reserved", key)
	}
	if !existing.Pending() && existing.OrderID != orderID {
		return ports.ErrIdempotencyConflict
	}
	existing.OrderID = orderID
	payload, err := encodeRecord(*existing)
	if err != nil {
		return err
	}
	err = s.client.SetArgs(ctx, s.Key(ownerID, key), payload, goredis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, goredis.Nil) {
		return fmt.Errorf("idempotency key %q expired before completion", key)
	}
	return err
}

// Release deletes the key while it is still pending.
func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key string) error {
	existing, err := s.Get(ctx, ownerID, key)
	if err != nil || existing == nil || !existing.Pending() {
		return err
	}
	return s.client.Del(ctx, s.Key(ownerID, key)).Err()
}

func encodeRecord(record ports.IdempotencyRecord) ([]byte, error) {
	return json.Marshal(storedRecord{
		OwnerID:     record.OwnerID,
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt,
	})
}

func (s *IdempotencyStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	return nil
}
