package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Authenticated routes resolve the bearer token to an owner first.
	Authenticated bool
}

// ApiHandleFunctions bundles the handlers and the authenticator used by the router.
type ApiHandleFunctions struct {
	OrderAPI      OrderAPI
	HealthAPI     HealthAPI
	Authenticator ports.Authenticator
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	requireOwner := RequireOwner(handleFunctions.Authenticator)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Authenticated {
			handlers = append([]gin.HandlerFunc{requireOwner}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreateOrder",
			http.MethodPost,
			"/v1/orders",
			handleFunctions.OrderAPI.CreateOrder,
			true,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/v1/orders",
			handleFunctions.OrderAPI.ListOrders,
			true,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/v1/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
			true,
		},
		{
			"UpdateOrderStatus",
			http.MethodPatch,
			"/v1/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
			true,
		},
		{
			"Health",
			http.MethodGet,
			"/health",
			handleFunctions.HealthAPI.Health,
			false,
		},
	}
}
