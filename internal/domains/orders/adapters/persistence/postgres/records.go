package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// orderRecord maps the order aggregate to a relational table. Line items and the address are
// snapshots and are stored as JSON; product ids are duplicated into an array column for lookups.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	OwnerID         string          `gorm:"column:owner_id;size:255;index:idx_orders_owner_created,priority:1"`
	OwnerContact    string          `gorm:"column:owner_contact"`
	Items           []itemRecord    `gorm:"column:items;serializer:json"`
	ProductIDs      pq.Int64Array   `gorm:"column:product_ids;type:bigint[]"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	ShippingAddress addressRecord   `gorm:"column:shipping_address;serializer:json"`
	CreatedAt       time.Time       `gorm:"column:created_at;index:idx_orders_owner_created,priority:2,sort:desc"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type itemRecord struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type addressRecord struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]itemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	addr := order.ShippingAddress
	return orderRecord{
		ID:              order.ID,
		OwnerID:         order.Owner.ID,
		OwnerContact:    order.Owner.Contact,
		Items:           items,
		ProductIDs:      pq.Int64Array(order.ProductIDs()),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		ShippingAddress: addressRecord{Street: addr.Street, City: addr.City, State: addr.State, Zip: addr.Zip, Country: addr.Country},
		CreatedAt:       order.CreatedAt.UTC(),
		UpdatedAt:       order.UpdatedAt.UTC(),
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	addr := r.ShippingAddress
	return &domain.Order{
		ID:              r.ID,
		Owner:           domain.Owner{ID: r.OwnerID, Contact: r.OwnerContact},
		Items:           items,
		TotalAmount:     r.TotalAmount,
		Status:          domain.Status(r.Status),
		ShippingAddress: domain.Address{Street: addr.Street, City: addr.City, State: addr.State, Zip: addr.Zip, Country: addr.Country},
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

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

func toStepLogRecord(entry ports.StepLogEntry) stepLogRecord {
	return stepLogRecord{
		RunID:   entry.RunID,
		OrderID: entry.OrderID,
		OwnerID: entry.OwnerID,
		Step:    string(entry.Step),
		Target:  entry.Target,
		Status:  string(entry.Status),
		Error:   entry.Error,
		At:      entry.At.UTC(),
		TraceID: entry.TraceID,
		SpanID:  entry.SpanID,
	}
}

func (r stepLogRecord) toPort() ports.StepLogEntry {
	return ports.StepLogEntry{
		RunID:   r.RunID,
		OrderID: r.OrderID,
		OwnerID: r.OwnerID,
		StepResult: types.StepResult{
			Step:   types.StepName(r.Step),
			Target: r.Target,
			Status: types.StepStatus(r.Status),
			Error:  r.Error,
			At:     r.At.UTC(),
		},
		TraceID: r.TraceID,
		SpanID:  r.SpanID,
	}
}

type idempotencyRecord struct {
	OwnerID     string    `gorm:"primaryKey;column:owner_id;size:255"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func toIdempotencyRecord(rec ports.IdempotencyRecord) idempotencyRecord {
	return idempotencyRecord{
		OwnerID:     rec.OwnerID,
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
	}
}

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	if r == nil {
		return nil
	}
	return &ports.IdempotencyRecord{
		OwnerID:     r.OwnerID,
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}
