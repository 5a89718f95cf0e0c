package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

var (
	// ErrNotFound covers both unknown orders and orders owned by someone else.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateID is returned when an order id is reused.
	ErrDuplicateID = errors.New("order id already exists")
)

// Repository is the durable order store.
type Repository interface {
	// Create inserts a new order. Ids are never overwritten.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetForOwner(ctx context.Context, ownerID, orderID string) (*domain.Order, error)
	// ListByOwner returns the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	// UpdateStatus atomically sets status and updatedAt when (orderID, ownerID) matches, otherwise ErrNotFound.
	UpdateStatus(ctx context.Context, ownerID, orderID string, status domain.Status, updatedAt time.Time) (*domain.Order, error)
}
