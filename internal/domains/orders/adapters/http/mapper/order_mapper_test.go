package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

func TestFromDomainOrder_RendersMoneyAsNumbers(t *testing.T) {
	item, err := domain.NewLineItem(1, "Laptop", 2, decimal.RequireFromString("799.99"))
	require.NoError(t, err)
	order, err := domain.NewOrder("o-1", domain.Owner{ID: "1"}, []domain.LineItem{item},
		domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"},
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	raw, err := json.Marshal(FromDomainOrder(order))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"totalAmount":1599.98`)
	require.Contains(t, string(raw), `"unitPrice":799.99`)
	require.Contains(t, string(raw), `"orderId":"o-1"`)
	require.Contains(t, string(raw), `"status":"pending"`)
}

func TestFromDomainOrder_SubCentPricesRenderConsistentTotal(t *testing.T) {
	first, err := domain.NewLineItem(1, "Sticker", 1, decimal.RequireFromString("0.125"))
	require.NoError(t, err)
	second, err := domain.NewLineItem(2, "Badge", 1, decimal.RequireFromString("0.125"))
	require.NoError(t, err)
	order, err := domain.NewOrder("o-1", domain.Owner{ID: "1"}, []domain.LineItem{first, second},
		domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"},
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rendered := FromDomainOrder(order)
	sum := decimal.Zero
	for _, item := range rendered.Items {
		sum = sum.Add(decimal.RequireFromString(item.LineTotal.String()))
	}
	require.Equal(t, "0.26", rendered.TotalAmount.String())
	require.Equal(t, rendered.TotalAmount.String(), sum.StringFixed(2))
}

func TestFromCreateResult_ListsOnlyFailedSteps(t *testing.T) {
	result := &types.CreateOrderResult{
		Order: &domain.Order{ID: "o-1"},
		Steps: []types.StepResult{
			{Step: types.StepPersistOrder, Status: types.StepSucceeded},
			{Step: types.StepAdjustStock, Target: "1", Status: types.StepFailed, Error: "timeout"},
		},
	}
	created := FromCreateResult(result)
	require.Len(t, created.FailedSteps, 1)
	require.Equal(t, "adjust_stock", created.FailedSteps[0].Step)
}

func TestToCreateInput_TrimsKey(t *testing.T) {
	input := ToCreateInput(CreateOrderRequest{Items: []LineRequest{{ProductID: 1, Quantity: 2}}}, domain.Owner{ID: "1"}, "  key ")
	require.Equal(t, "key", input.IdempotencyKey)
	require.Equal(t, []types.LineRequest{{ProductID: 1, Quantity: 2}}, input.Items)
}

func TestProblemFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: empty", application.ErrInvalidInput), http.StatusBadRequest},
		{&application.ProductUnavailableError{ProductID: 2}, http.StatusConflict},
		{&application.InsufficientStockError{ProductID: 1, Available: 1, Requested: 2}, http.StatusConflict},
		{application.ErrUnauthorized, http.StatusUnauthorized},
		{ports.ErrNotFound, http.StatusNotFound},
		{ports.ErrIdempotencyConflict, http.StatusConflict},
		{fmt.Errorf("%w: dial", application.ErrUpstreamUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: activity timeout", application.ErrOutcomeUnknown), http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		problem, ok := ProblemFromError(tc.err)
		require.True(t, ok, tc.err.Error())
		require.Equal(t, tc.status, problem.Status, tc.err.Error())
	}

	problem, _ := ProblemFromError(&application.InsufficientStockError{ProductID: 1, Available: 1, Requested: 2})
	require.Equal(t, 1, problem.Extensions["available"])

	_, ok := ProblemFromError(errors.New("boom"))
	require.False(t, ok)
}
