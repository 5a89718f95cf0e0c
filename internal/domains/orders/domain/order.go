package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyItems          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidProduct      = errors.New("product id must be positive")
	ErrNegativePrice       = errors.New("unit price must not be negative")
	ErrMissingAddressField = errors.New("shipping address field is required")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrMissingOwner        = errors.New("order owner is required")
	ErrMissingID           = errors.New("order id is required")
	ErrTotalMismatch       = errors.New("order total does not match its line items")
)

// Status enumerates the lifecycle states an order can be in.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var validStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusConfirmed:  {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus accepts one of the lowercase status names.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(raw))
	if _, ok := validStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Owner identifies the authenticated caller an order belongs to.
type Owner struct {
	ID      string
	Contact string
}

// Address is the shipping destination captured at creation time.
type Address struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// Validate requires every field to be non-blank.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingAddressField, f.name)
		}
	}
	return nil
}

// LineItem snapshots product name and price as they were when the order was placed.
type LineItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// NewLineItem rounds the unit price to whole cents and computes the line total from it,
// so line totals and the order total stay exact in two-decimal form.
func NewLineItem(productID int64, name string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	if productID <= 0 {
		return LineItem{}, ErrInvalidProduct
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return LineItem{}, ErrNegativePrice
	}
	unitPrice = unitPrice.Round(2)
	return LineItem{
		ProductID:   productID,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order aggregate. Items, total and address are fixed at creation; only status changes afterwards.
type Order struct {
	ID              string
	Owner           Owner
	Items           []LineItem
	TotalAmount     decimal.Decimal
	Status          Status
	ShippingAddress Address
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder builds a pending order and derives its total from the line items.
func NewOrder(id string, owner Owner, items []LineItem, address Address, now time.Time) (*Order, error) {
	order := &Order{
		ID:              strings.TrimSpace(id),
		Owner:           owner,
		Items:           append([]LineItem(nil), items...),
		TotalAmount:     SumLineTotals(items),
		Status:          StatusPending,
		ShippingAddress: address,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// SumLineTotals adds up the line totals.
func SumLineTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Validate checks the aggregate invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(o.Owner.ID) == "" {
		return ErrMissingOwner
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if !item.LineTotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))) {
			return ErrTotalMismatch
		}
	}
	if !o.TotalAmount.Equal(SumLineTotals(o.Items)) {
		return ErrTotalMismatch
	}
	if _, ok := validStatuses[o.Status]; !ok {
		return ErrInvalidStatus
	}
	return o.ShippingAddress.Validate()
}

// UpdateStatus moves the order to any valid status. Transitions are not restricted.
func (o *Order) UpdateStatus(status Status, now time.Time) error {
	if _, ok := validStatuses[status]; !ok {
		return ErrInvalidStatus
	}
	o.Status = status
	o.UpdatedAt = now.UTC()
	return nil
}

// ProductIDs lists the product of every line in order.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}
