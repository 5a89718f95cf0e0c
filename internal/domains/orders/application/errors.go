package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrProductUnavailable signals a requested product is unknown or not for sale.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInsufficientStock signals a product has fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUpstreamUnavailable signals the availability check could not be completed.
	ErrUpstreamUnavailable = errors.New("inventory service unavailable")
	// ErrOutcomeUnknown signals the create run timed out and may have persisted the order.
	// Retrying with the same Idempotency-Key resolves it.
	ErrOutcomeUnknown = errors.New("order outcome unknown")
	// ErrUnauthorized is re-exported so adapters only depend on the application package.
	ErrUnauthorized = ports.ErrUnauthorized
)

// ProductUnavailableError names the first product that could not be sold.
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d is unavailable", e.ProductID)
}

func (e *ProductUnavailableError) Unwrap() error { return ErrProductUnavailable }

// InsufficientStockError carries the stock figures that caused the rejection.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidProduct) ||
		errors.Is(err, domain.ErrMissingAddressField) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrMissingOwner) {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return err
}
