package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// HealthAPI reports liveness plus the state of the event publisher.
type HealthAPI struct {
	publisher ports.PublisherStatus
	storeKind string
}

func NewHealthAPI(publisher ports.PublisherStatus, storeKind string) HealthAPI {
	return HealthAPI{publisher: publisher, storeKind: storeKind}
}

type healthResponse struct {
	Status    string `json:"status"`
	Publisher string `json:"publisher"`
	Store     string `json:"store"`
}

// Get /health
// The process answers even while the broker is unreachable.
func (api *HealthAPI) Health(c *gin.Context) {
	publisher := "disabled"
	if api.publisher != nil {
		publisher = api.publisher.State()
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Publisher: publisher, Store: api.storeKind})
}
