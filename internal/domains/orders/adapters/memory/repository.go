package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, ports.ErrDuplicateID
	}
	r.orders[order.ID] = order.Clone()
	return order.Clone(), nil
}

func (r *Repository) GetForOwner(_ context.Context, ownerID, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok || order.Owner.ID != ownerID {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.Owner.ID == ownerID {
			list = append(list, order.Clone())
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// UpdateStatus applies the change under the write lock so ownership check and update are atomic.
func (r *Repository) UpdateStatus(_ context.Context, ownerID, orderID string, status domain.Status, updatedAt time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.Owner.ID != ownerID {
		return nil, ports.ErrNotFound
	}
	next := order.Clone()
	if err := next.UpdateStatus(status, updatedAt); err != nil {
		return nil, err
	}
	r.orders[orderID] = next
	return next.Clone(), nil
}
