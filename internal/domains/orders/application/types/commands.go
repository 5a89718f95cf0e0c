package types

import "github.com/Apurer/order-orchestrator/internal/domains/orders/domain"

// LineRequest is one requested product and quantity. Prices are never accepted from clients.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries a purchase request on behalf of an authenticated owner.
type CreateOrderInput struct {
	Owner           domain.Owner
	Items           []LineRequest
	ShippingAddress domain.Address
	// IdempotencyKey is optional; when set, retries with the same payload replay the stored order.
	IdempotencyKey string
}

// OrderIdentifier scopes a lookup to the owner.
type OrderIdentifier struct {
	Owner   domain.Owner
	OrderID string
}

// ListOrdersInput selects every order of one owner.
type ListOrdersInput struct {
	Owner domain.Owner
}

// UpdateStatusInput moves an owned order to a new status.
type UpdateStatusInput struct {
	Owner   domain.Owner
	OrderID string
	Status  string
}
