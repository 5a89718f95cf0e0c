package ports

import (
	"context"
	"errors"

	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
)

// ErrUnauthorized is returned when a credential cannot be resolved to an owner.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator resolves a bearer credential to the calling owner.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (domain.Owner, error)
}
