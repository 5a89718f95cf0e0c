package mapper

import (
	"errors"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/application"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
	apierrors "github.com/Apurer/order-orchestrator/internal/shared/errors"
)

// ProblemFromError maps the orders error taxonomy onto problem details.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	var stock *application.InsufficientStockError
	var unavailable *application.ProductUnavailableError
	switch {
	case err == nil:
		return apierrors.ProblemDetail{}, false
	case errors.As(err, &stock):
		return apierrors.ErrInsufficientStock.
			WithDetail(stock.Error()).
			WithExtension("productId", stock.ProductID).
			WithExtension("available", stock.Available).
			WithExtension("requested", stock.Requested), true
	case errors.As(err, &unavailable):
		return apierrors.ErrProductUnavailable.
			WithDetail(unavailable.Error()).
			WithExtension("productId", unavailable.ProductID), true
	case errors.Is(err, application.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrProductUnavailable):
		return apierrors.ErrProductUnavailable.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail("missing or invalid credentials"), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrOutcomeUnknown):
		return apierrors.ErrOutcomeUnknown.WithDetail("order creation timed out; retry with the same Idempotency-Key to learn the outcome"), true
	case errors.Is(err, application.ErrUpstreamUnavailable):
		return apierrors.ErrUpstreamUnavailable.WithDetail("inventory service unavailable"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
