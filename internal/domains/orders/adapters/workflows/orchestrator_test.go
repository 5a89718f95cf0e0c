package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

func TestBuildOrderCreationWorkflowID(t *testing.T) {
	withKey := types.CreateOrderInput{Owner: domain.Owner{ID: "alice"}, IdempotencyKey: "k1"}
	require.Equal(t, buildOrderCreationWorkflowID(withKey), buildOrderCreationWorkflowID(withKey))
	require.Contains(t, buildOrderCreationWorkflowID(withKey), "order-creation-idem-")

	otherOwner := types.CreateOrderInput{Owner: domain.Owner{ID: "bob"}, IdempotencyKey: "k1"}
	require.NotEqual(t, buildOrderCreationWorkflowID(withKey), buildOrderCreationWorkflowID(otherOwner))

	anonymous := types.CreateOrderInput{Owner: domain.Owner{ID: "alice"}}
	require.NotEqual(t, buildOrderCreationWorkflowID(anonymous), buildOrderCreationWorkflowID(anonymous))
}

func TestRestoreWorkflowError(t *testing.T) {
	source := &application.InsufficientStockError{ProductID: 3, Available: 1, Requested: 4}
	code, detail := application.ClassifyError(source)
	wrapped := fmt.Errorf("workflow failed: %w", temporal.NewNonRetryableApplicationError(source.Error(), code, source, detail))

	restored := restoreWorkflowError(wrapped)
	require.ErrorIs(t, restored, application.ErrInsufficientStock)
	var stock *application.InsufficientStockError
	require.True(t, errors.As(restored, &stock))
	require.Equal(t, 4, stock.Requested)

	notFound := temporal.NewNonRetryableApplicationError("order not found", application.CodeNotFound, nil)
	require.ErrorIs(t, restoreWorkflowError(notFound), ports.ErrNotFound)

	plain := errors.New("boom")
	require.Equal(t, plain, restoreWorkflowError(plain))
}

func TestRestoreWorkflowError_TimeoutIsOutcomeUnknown(t *testing.T) {
	timeout := temporal.NewTimeoutError(enumspb.TIMEOUT_TYPE_START_TO_CLOSE, nil)
	wrapped := fmt.Errorf("workflow failed: %w", timeout)

	restored := restoreWorkflowError(wrapped)
	require.ErrorIs(t, restored, application.ErrOutcomeUnknown)
	require.NotErrorIs(t, restored, application.ErrUpstreamUnavailable)
	var timeoutErr *temporal.TimeoutError
	require.True(t, errors.As(restored, &timeoutErr))
}

type recordingService struct {
	ports.Service
	calls int
}

func (s *recordingService) CreateOrder(context.Context, types.CreateOrderInput) (*types.CreateOrderResult, error) {
	s.calls++
	return &types.CreateOrderResult{Order: &domain.Order{ID: "o-1"}}, nil
}

func TestInlineOrderWorkflows_Delegates(t *testing.T) {
	svc := &recordingService{}
	result, err := NewInlineOrderWorkflows(svc).CreateOrder(context.Background(), types.CreateOrderInput{})
	require.NoError(t, err)
	require.Equal(t, "o-1", result.Order.ID)
	require.Equal(t, 1, svc.calls)

	_, err = NewTemporalOrderWorkflows(nil).CreateOrder(context.Background(), types.CreateOrderInput{})
	require.Error(t, err)
}
