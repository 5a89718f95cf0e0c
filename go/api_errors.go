package orderserver

import (
	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/order-orchestrator/internal/domains/orders/adapters/http/mapper"
	apierrors "github.com/Apurer/order-orchestrator/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", ordermapper.ProblemFromError)

// respondError renders err as problem+json using the orders error taxonomy.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, detail string) {
	responder.BadRequest(c, detail)
}
