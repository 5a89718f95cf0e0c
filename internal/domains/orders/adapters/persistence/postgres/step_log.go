package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var _ ports.StepLog = (*StepLog)(nil)

// StepLog appends create-run step results to order_step_log.
type StepLog struct {
	db *gorm.DB
}

func NewStepLog(db *gorm.DB) *StepLog {
	return &StepLog{db: db}
}

func (l *StepLog) Append(ctx context.Context, entries []ports.StepLogEntry) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	records := make([]stepLogRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, toStepLogRecord(entry))
	}
	return l.db.WithContext(ctx).Create(&records).Error
}

func (l *StepLog) ListByOrder(ctx context.Context, orderID string) ([]ports.StepLogEntry, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var records []stepLogRecord
	if err := l.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]ports.StepLogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toPort())
	}
	return entries, nil
}

// PurgeOlderThan deletes entries recorded before cutoff.
func (l *StepLog) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := l.ensureDB(); err != nil {
		return 0, err
	}
	result := l.db.WithContext(ctx).Where("at < ?", cutoff.UTC()).Delete(&stepLogRecord{})
	return result.RowsAffected, result.Error
}

func (l *StepLog) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres step log not configured")
	}
	return nil
}
