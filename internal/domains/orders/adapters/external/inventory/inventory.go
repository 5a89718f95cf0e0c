package inventory

import (
	"context"
	"errors"

	inventoryclient "github.com/Apurer/order-orchestrator/internal/clients/http/inventory"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// API is the subset of the inventory HTTP client the adapter needs.
type API interface {
	CheckAvailability(ctx context.Context, productIDs []int64) (map[int64]inventoryclient.ProductAvailability, error)
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

// Inventory implements the outbound availability and stock ports over HTTP.
type Inventory struct {
	client API
}

// NewInventory wires an inventory HTTP client into the adapter.
func NewInventory(client API) *Inventory {
	return &Inventory{client: client}
}

// CheckAvailability maps the remote answer onto the port types.
func (i *Inventory) CheckAvailability(ctx context.Context, productIDs []int64) (map[int64]ports.LineAvailability, error) {
	if i == nil || i.client == nil {
		return nil, errors.New("inventory adapter not configured")
	}
	remote, err := i.client.CheckAvailability(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]ports.LineAvailability, len(remote))
	for id, product := range remote {
		result[id] = ToLineAvailability(product)
	}
	return result, nil
}

// AdjustStock forwards the signed delta.
func (i *Inventory) AdjustStock(ctx context.Context, productID int64, delta int) error {
	if i == nil || i.client == nil {
		return errors.New("inventory adapter not configured")
	}
	return i.client.AdjustStock(ctx, productID, delta)
}

var _ ports.Inventory = (*Inventory)(nil)
