package ports

import (
	"context"

	"github.com/asgeY/poet/pkg/domain"
)

// Authenticator verifies credentials.
type Authenticator interface {
	// Authenticate returns domain.ErrInvalidCredentials (possibly wrapped) when
	// the credentials are rejected.
	Authenticate(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	return f(ctx, creds)
}

// CatalogProvider is a read-only product source. It is constructed once at
// startup and injected into every consumer.
type CatalogProvider interface {
	// Products lists the catalog in display order.
	Products(ctx context.Context) ([]domain.Product, error)

	// Product returns domain.ErrProductNotFound for unknown ids.
	Product(ctx context.Context, id string) (domain.Product, error)
}
