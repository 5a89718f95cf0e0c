package orderserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/http/mapper"
	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry a create safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and the create workflow.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. When workflows is nil creates call the service directly.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Create an order for the authenticated owner
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		respondError(c, ports.ErrUnauthorized)
		return
	}
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	input := ordermapper.ToCreateInput(payload, owner, c.GetHeader(IdempotencyKeyHeader))
	result, err := api.createOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, ordermapper.FromCreateResult(result))
}

func (api *OrderAPI) createOrder(ctx context.Context, input types.CreateOrderInput) (*types.CreateOrderResult, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Get /v1/orders
// List the authenticated owner's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		respondError(c, ports.ErrUnauthorized)
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), types.ListOrdersInput{Owner: owner})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(orders))
}

// Get /v1/orders/:orderId
// Find an order of the authenticated owner
func (api *OrderAPI) GetOrder(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		respondError(c, ports.ErrUnauthorized)
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), types.OrderIdentifier{Owner: owner, OrderID: c.Param("orderId")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Patch /v1/orders/:orderId/status
// Move an order of the authenticated owner to a new status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		respondError(c, ports.ErrUnauthorized)
		return
	}
	var payload ordermapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), types.UpdateStatusInput{
		Owner:   owner,
		OrderID: c.Param("orderId"),
		Status:  payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}
