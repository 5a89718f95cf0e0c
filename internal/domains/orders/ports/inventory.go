package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineAvailability is the inventory authority's answer for one product.
type LineAvailability struct {
	Available bool
	Stock     int
	UnitName  string
	UnitPrice decimal.Decimal
}

// AvailabilityChecker answers for a batch of products in one call.
// Products missing from the returned map are unavailable.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, productIDs []int64) (map[int64]LineAvailability, error)
}

// StockAdjuster applies a signed stock delta; negative values consume stock.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

// Inventory is the full outbound surface of the inventory authority.
type Inventory interface {
	AvailabilityChecker
	StockAdjuster
}
