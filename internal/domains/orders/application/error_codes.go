package application

import (
	"errors"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// Error codes let the taxonomy survive serialization, e.g. across a workflow engine boundary.
const (
	CodeInvalidInput        = "InvalidInput"
	CodeProductUnavailable  = "ProductUnavailable"
	CodeInsufficientStock   = "InsufficientStock"
	CodeUnauthorized        = "Unauthorized"
	CodeNotFound            = "NotFound"
	CodeUpstreamUnavailable = "UpstreamUnavailable"
	CodeIdempotencyConflict = "IdempotencyConflict"
	CodeInternal            = "Internal"
)

// ErrorDetail holds the structured fields some codes carry.
type ErrorDetail struct {
	ProductID int64
	Available int
	Requested int
}

// ClassifyError returns the code of err plus any structured detail.
func ClassifyError(err error) (string, ErrorDetail) {
	var stock *InsufficientStockError
	var unavailable *ProductUnavailableError
	switch {
	case errors.As(err, &stock):
		return CodeInsufficientStock, ErrorDetail{ProductID: stock.ProductID, Available: stock.Available, Requested: stock.Requested}
	case errors.As(err, &unavailable):
		return CodeProductUnavailable, ErrorDetail{ProductID: unavailable.ProductID}
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock, ErrorDetail{}
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput, ErrorDetail{}
	case errors.Is(err, ErrProductUnavailable):
		return CodeProductUnavailable, ErrorDetail{}
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized, ErrorDetail{}
	case errors.Is(err, ports.ErrNotFound):
		return CodeNotFound, ErrorDetail{}
	case errors.Is(err, ErrUpstreamUnavailable):
		return CodeUpstreamUnavailable, ErrorDetail{}
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return CodeIdempotencyConflict, ErrorDetail{}
	default:
		return CodeInternal, ErrorDetail{}
	}
}

// RestoreError rebuilds an error that matches the original sentinel for code.
func RestoreError(code, message string, detail ErrorDetail) error {
	switch code {
	case CodeInsufficientStock:
		return &InsufficientStockError{ProductID: detail.ProductID, Available: detail.Available, Requested: detail.Requested}
	case CodeProductUnavailable:
		if detail.ProductID != 0 {
			return &ProductUnavailableError{ProductID: detail.ProductID}
		}
		return &codedError{sentinel: ErrProductUnavailable, message: message}
	case CodeInvalidInput:
		return &codedError{sentinel: ErrInvalidInput, message: message}
	case CodeUnauthorized:
		return &codedError{sentinel: ErrUnauthorized, message: message}
	case CodeNotFound:
		return &codedError{sentinel: ports.ErrNotFound, message: message}
	case CodeUpstreamUnavailable:
		return &codedError{sentinel: ErrUpstreamUnavailable, message: message}
	case CodeIdempotencyConflict:
		return &codedError{sentinel: ports.ErrIdempotencyConflict, message: message}
	default:
		return errors.New(message)
	}
}

type codedError struct {
	sentinel error
	message  string
}

func (e *codedError) Error() string {
	if e.message == "" {
		return e.sentinel.Error()
	}
	return e.message
}

func (e *codedError) Unwrap() error { return e.sentinel }
