package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the order schema. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&stepLogRecord{},
		&idempotencyRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter. Items and address are JSON snapshots.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	OwnerID         string          `gorm:"column:owner_id;size:255;index:idx_orders_owner_created,priority:1"`
	OwnerContact    string          `gorm:"column:owner_contact"`
	Items           []byte          `gorm:"column:items;type:jsonb"`
	ProductIDs      pq.Int64Array   `gorm:"column:product_ids;type:bigint[]"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	ShippingAddress []byte          `gorm:"column:shipping_address;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_owner_created,priority:2,sort:desc"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Step log schema mirrors the orders step log adapter.
type stepLogRecord struct {
	ID      uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	RunID   string    `gorm:"column:run_id;size:64;index"`
	OrderID string    `gorm:"column:order_id;size:64;index"`
	OwnerID string    `gorm:"column:owner_id;size:255"`
	Step    string    `gorm:"column:step;size:64"`
	Target  string    `gorm:"column:target"`
	Status  string    `gorm:"column:status;size:32"`
	Error   string    `gorm:"column:error"`
	At      time.Time `gorm:"column:at;index"`
	TraceID string    `gorm:"column:trace_id;size:32"`
	SpanID  string    `gorm:"column:span_id;size:16"`
}

func (stepLogRecord) TableName() string { return "order_step_log" }

// Idempotency keys are unique per owner.
type idempotencyRecord struct {
	OwnerID     string    `gorm:"primaryKey;column:owner_id;size:255"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
