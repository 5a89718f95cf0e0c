package mapper

import (
	"encoding/json"
	"strings"
	"time"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

// CreateOrderRequest is the body of POST /v1/orders. Prices are never read from clients.
type CreateOrderRequest struct {
	Items           []LineRequest `json:"items"`
	ShippingAddress Address       `json:"shippingAddress"`
}

type LineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// UpdateStatusRequest is the body of PATCH /v1/orders/:orderId/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Order is the projection returned to clients. Money is rendered with two decimals.
type Order struct {
	OrderID         string      `json:"orderId"`
	Items           []LineItem  `json:"items"`
	TotalAmount     json.Number `json:"totalAmount"`
	Status          string      `json:"status"`
	ShippingAddress Address     `json:"shippingAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type LineItem struct {
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unitPrice"`
	LineTotal   json.Number `json:"lineTotal"`
}

// CreatedOrder adds the side-effect steps that failed after the order was stored.
type CreatedOrder struct {
	Order
	FailedSteps []Step `json:"failedSteps,omitempty"`
}

type Step struct {
	Step   string `json:"step"`
	Target string `json:"target,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ToCreateInput converts a transport request for the given owner.
func ToCreateInput(req CreateOrderRequest, owner domain.Owner, idempotencyKey string) types.CreateOrderInput {
	items := make([]types.LineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, types.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return types.CreateOrderInput{
		Owner: owner,
		Items: items,
		ShippingAddress: domain.Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Zip:     req.ShippingAddress.Zip,
			Country: req.ShippingAddress.Country,
		},
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   json.Number(item.UnitPrice.StringFixed(2)),
			LineTotal:   json.Number(item.LineTotal.StringFixed(2)),
		})
	}
	addr := order.ShippingAddress
	return Order{
		OrderID:         order.ID,
		Items:           items,
		TotalAmount:     json.Number(order.TotalAmount.StringFixed(2)),
		Status:          string(order.Status),
		ShippingAddress: Address{Street: addr.Street, City: addr.City, State: addr.State, Zip: addr.Zip, Country: addr.Country},
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// FromDomainOrders keeps the store's ordering and never returns nil.
func FromDomainOrders(orders []*domain.Order) []Order {
	list := make([]Order, 0, len(orders))
	for _, order := range orders {
		list = append(list, FromDomainOrder(order))
	}
	return list
}

// FromCreateResult renders a create result.
func FromCreateResult(result *types.CreateOrderResult) CreatedOrder {
	if result == nil {
		return CreatedOrder{}
	}
	created := CreatedOrder{Order: FromDomainOrder(result.Order)}
	for _, step := range result.FailedSteps() {
		created.FailedSteps = append(created.FailedSteps, Step{Step: string(step.Step), Target: step.Target, Error: step.Error})
	}
	return created
}
