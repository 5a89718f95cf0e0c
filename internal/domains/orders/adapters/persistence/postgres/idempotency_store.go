package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewIdempotencyStore wires a PostgreSQL-backed idempotency store.
func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db, now: time.Now}
}

// Get loads a record by owner and key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, ownerID, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "owner_id = ? AND key = ?", ownerID, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

// Reserve inserts the record with ON CONFLICT DO NOTHING. When the key is taken the stored row is returned.
func (s *IdempotencyStore) Reserve(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	dbRecord := toIdempotencyRecord(record)
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dbRecord)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return dbRecord.toPort(), true, nil
	}
	existing, err := s.Get(ctx, record.OwnerID, record.Key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("idempotency key %q vanished during reserve", record.Key)
	}
	return existing, false, nil
}

// Complete sets the order id on a pending key. Completing twice with the same order is a no-op.
func (s *IdempotencyStore) Complete(ctx context.Context, ownerID, key, orderID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&idempotencyRecord{}).
		Where("owner_id = ? AND key = ? AND (order_id = '' OR order_id = ?)", ownerID, key, orderID).
		Update("order_id", orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	existing, err := s.Get(ctx, ownerID, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("idempotency key %q is not reserved", key)
	}
	return ports.ErrIdempotencyConflict
}

// Release deletes a pending key. Completed keys are left untouched.
func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("owner_id = ? AND key = ? AND order_id = ''", ownerID, key).
		Delete(&idempotencyRecord{}).Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}
