package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"}
}

func TestNewOrder_ComputesTotalsAndStartsPending(t *testing.T) {
	laptop, err := NewLineItem(1, "Laptop", 1, decimal.RequireFromString("999.99"))
	require.NoError(t, err)
	mouse, err := NewLineItem(2, "Mouse", 2, decimal.RequireFromString("299.995"))
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder("o-1", Owner{ID: "u-1", Contact: "u1@example.com"}, []LineItem{laptop, mouse}, validAddress(), now)
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1599.99")))
	require.True(t, mouse.UnitPrice.Equal(decimal.RequireFromString("300.00")))
	require.True(t, mouse.LineTotal.Equal(decimal.RequireFromString("600.00")))
	require.Equal(t, now, order.CreatedAt)
	require.Equal(t, now, order.UpdatedAt)
}

func TestNewOrder_SubCentPricesKeepTotalEqualToLineSum(t *testing.T) {
	first, err := NewLineItem(1, "Sticker", 1, decimal.RequireFromString("0.125"))
	require.NoError(t, err)
	second, err := NewLineItem(2, "Sticker", 1, decimal.RequireFromString("0.125"))
	require.NoError(t, err)

	order, err := NewOrder("o-1", Owner{ID: "u-1"}, []LineItem{first, second}, validAddress(), time.Now())
	require.NoError(t, err)
	require.Equal(t, "0.13", first.UnitPrice.StringFixed(2))
	require.True(t, first.UnitPrice.Equal(first.UnitPrice.Round(2)))
	sum := first.LineTotal.StringFixed(2) + "+" + second.LineTotal.StringFixed(2)
	require.Equal(t, "0.13+0.13", sum)
	require.Equal(t, "0.26", order.TotalAmount.StringFixed(2))
	require.True(t, order.TotalAmount.Equal(first.LineTotal.Add(second.LineTotal)))
}

func TestNewLineItem_RejectsInvalidQuantity(t *testing.T) {
	_, err := NewLineItem(1, "x", 0, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewLineItem(0, "x", 1, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrInvalidProduct)
	_, err = NewLineItem(1, "x", 1, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestNewOrder_RequiresItemsAndAddress(t *testing.T) {
	owner := Owner{ID: "u-1"}
	_, err := NewOrder("o-1", owner, nil, validAddress(), time.Now())
	require.ErrorIs(t, err, ErrEmptyItems)

	item, err := NewLineItem(1, "Laptop", 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	address := validAddress()
	address.Zip = "  "
	_, err = NewOrder("o-1", owner, []LineItem{item}, address, time.Now())
	require.ErrorIs(t, err, ErrMissingAddressField)
	require.Contains(t, err.Error(), "zip")

	_, err = NewOrder("o-1", Owner{}, []LineItem{item}, validAddress(), time.Now())
	require.ErrorIs(t, err, ErrMissingOwner)
}

func TestUpdateStatus_AllowsAnyValidTransition(t *testing.T) {
	item, err := NewLineItem(1, "Laptop", 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder("o-1", Owner{ID: "u-1"}, []LineItem{item}, validAddress(), created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	require.NoError(t, order.UpdateStatus(StatusDelivered, later))
	require.NoError(t, order.UpdateStatus(StatusPending, later))
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, later, order.UpdatedAt)
	require.Equal(t, created, order.CreatedAt)

	require.ErrorIs(t, order.UpdateStatus("lost", later), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("shipped")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, status)

	_, err = ParseStatus("SHIPPED")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone_DetachesItems(t *testing.T) {
	item, err := NewLineItem(1, "Laptop", 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	order, err := NewOrder("o-1", Owner{ID: "u-1"}, []LineItem{item}, validAddress(), time.Now())
	require.NoError(t, err)

	clone := order.Clone()
	clone.Items[0].ProductName = "changed"
	require.Equal(t, "Laptop", order.Items[0].ProductName)
}
