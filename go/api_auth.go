package orderserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

const ownerContextKey = "orders.owner"

// RequireOwner resolves the bearer token to an owner before any handler runs.
// Requests without a valid token never reach the orders service.
func RequireOwner(authenticator ports.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || authenticator == nil {
			respondError(c, ports.ErrUnauthorized)
			return
		}
		owner, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			respondError(c, ports.ErrUnauthorized)
			return
		}
		c.Set(ownerContextKey, owner)
		c.Next()
	}
}

func ownerFromContext(c *gin.Context) (domain.Owner, bool) {
	value, ok := c.Get(ownerContextKey)
	if !ok {
		return domain.Owner{}, false
	}
	owner, ok := value.(domain.Owner)
	return owner, ok && owner.ID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
