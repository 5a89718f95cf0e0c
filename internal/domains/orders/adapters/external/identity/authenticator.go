package identity

import (
	"context"
	"errors"
	"fmt"

	identityclient "github.com/Apurer/order-orchestrator/internal/clients/http/identity"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/domain"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// Verifier is the subset of the identity HTTP client the adapter needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (*identityclient.User, error)
}

// Authenticator resolves bearer tokens through the identity service.
type Authenticator struct {
	client Verifier
}

// NewAuthenticator wires an identity client into the adapter.
func NewAuthenticator(client Verifier) *Authenticator {
	return &Authenticator{client: client}
}

// Authenticate maps any verification failure to ports.ErrUnauthorized.
func (a *Authenticator) Authenticate(ctx context.Context, credential string) (domain.Owner, error) {
	if a == nil || a.client == nil {
		return domain.Owner{}, fmt.Errorf("%w: identity service not configured", ports.ErrUnauthorized)
	}
	user, err := a.client.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, identityclient.ErrInvalidCredential) {
			return domain.Owner{}, fmt.Errorf("%w: %w", ports.ErrUnauthorized, err)
		}
		return domain.Owner{}, fmt.Errorf("%w: identity service unavailable: %w", ports.ErrUnauthorized, err)
	}
	return domain.Owner{ID: user.ID, Contact: user.Email}, nil
}

var _ ports.Authenticator = (*Authenticator)(nil)
