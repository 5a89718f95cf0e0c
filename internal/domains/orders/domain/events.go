package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names the announcements emitted about an order.
type EventType string

const (
	EventOrderCreated       EventType = "ORDER_CREATED"
	EventOrderConfirmation  EventType = "ORDER_CONFIRMATION"
	EventOrderStatusUpdated EventType = "ORDER_STATUS_UPDATED"
)

// Event is an immutable fact about an order. Creation events carry the total,
// status updates carry the new status.
type Event struct {
	Type        EventType
	OrderID     string
	Owner       Owner
	TotalAmount *decimal.Decimal
	NewStatus   Status
	Timestamp   time.Time
}

// NewOrderCreatedEvent announces a newly persisted order on the lifecycle channel.
func NewOrderCreatedEvent(order *Order, at time.Time) Event {
	return newTotalEvent(EventOrderCreated, order, at)
}

// NewOrderConfirmationEvent asks downstream consumers to confirm the order to its owner.
func NewOrderConfirmationEvent(order *Order, at time.Time) Event {
	return newTotalEvent(EventOrderConfirmation, order, at)
}

// NewOrderStatusUpdatedEvent carries the status an order was moved to.
func NewOrderStatusUpdatedEvent(order *Order, at time.Time) Event {
	return Event{
		Type:      EventOrderStatusUpdated,
		OrderID:   order.ID,
		Owner:     order.Owner,
		NewStatus: order.Status,
		Timestamp: at.UTC(),
	}
}

func newTotalEvent(kind EventType, order *Order, at time.Time) Event {
	total := order.TotalAmount
	return Event{
		Type:        kind,
		OrderID:     order.ID,
		Owner:       order.Owner,
		TotalAmount: &total,
		Timestamp:   at.UTC(),
	}
}
