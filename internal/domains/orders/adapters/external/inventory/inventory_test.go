package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	inventoryclient "github.com/Apurer/order-orchestrator/internal/clients/http/inventory"
)

type stubAPI struct {
	products map[int64]inventoryclient.ProductAvailability
	err      error
	adjusted map[int64]int
}

func (s *stubAPI) CheckAvailability(context.Context, []int64) (map[int64]inventoryclient.ProductAvailability, error) {
	return s.products, s.err
}

func (s *stubAPI) AdjustStock(_ context.Context, productID int64, delta int) error {
	if s.adjusted == nil {
		s.adjusted = map[int64]int{}
	}
	s.adjusted[productID] += delta
	return s.err
}

func TestCheckAvailability_MapsProducts(t *testing.T) {
	name := "Laptop"
	api := &stubAPI{products: map[int64]inventoryclient.ProductAvailability{
		1: {Available: true, Stock: 15, Name: &name, Price: decimal.NewNullDecimal(decimal.RequireFromString("799.99"))},
		2: {Available: true, Stock: 3},
		3: {Available: false, Stock: -1},
	}}

	result, err := NewInventory(api).CheckAvailability(context.Background(), []int64{1, 2, 3, 4})
	require.NoError(t, err)

	require.True(t, result[1].Available)
	require.Equal(t, "Laptop", result[1].UnitName)
	require.Equal(t, "799.99", result[1].UnitPrice.String())
	require.False(t, result[2].Available)
	require.False(t, result[3].Available)
	require.Zero(t, result[3].Stock)
	_, ok := result[4]
	require.False(t, ok)
}

func TestCheckAvailability_PropagatesErrors(t *testing.T) {
	_, err := NewInventory(&stubAPI{err: errors.New("boom")}).CheckAvailability(context.Background(), []int64{1})
	require.Error(t, err)
}

func TestAdjustStock_ForwardsDelta(t *testing.T) {
	api := &stubAPI{}
	require.NoError(t, NewInventory(api).AdjustStock(context.Background(), 7, -3))
	require.Equal(t, -3, api.adjusted[7])
}
