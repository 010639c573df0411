// Package tests holds contract suites that every ports adapter must pass.
package tests

import (
	"context"
	"testing"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAuthenticatorContract verifies an Authenticator against the interface contract.
// The authenticator must accept valid and reject every other password for that user.
func RunAuthenticatorContract(t *testing.T, auth ports.Authenticator, valid domain.Credentials) {
	t.Helper()
	ctx := context.Background()

	t.Run("Accepts Valid Credentials", func(t *testing.T) {
		res, err := auth.Authenticate(ctx, valid)
		require.NoError(t, err)
		assert.True(t, res.Authenticated)
		assert.Equal(t, valid.Username, res.User)
	})

	t.Run("Rejects Wrong Password", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, domain.Credentials{Username: valid.Username, Password: valid.Password + "-wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Rejects Unknown User", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, domain.Credentials{Username: "nobody-" + valid.Username, Password: valid.Password})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

// RunCatalogContract verifies a CatalogProvider seeded with want, in order.
func RunCatalogContract(t *testing.T, catalog ports.CatalogProvider, want []domain.Product) {
	t.Helper()
	ctx := context.Background()
	require.NotEmpty(t, want, "contract needs at least one product")

	t.Run("Lists In Order", func(t *testing.T) {
		got, err := catalog.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Looks Up By ID", func(t *testing.T) {
		got, err := catalog.Product(ctx, want[0].ID)
		require.NoError(t, err)
		assert.Equal(t, want[0], got)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		_, err := catalog.Product(ctx, "missing-"+want[0].ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Returned Slice Is A Copy", func(t *testing.T) {
		got, err := catalog.Products(ctx)
		require.NoError(t, err)
		got[0].Name = "mutated"

		again, err := catalog.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, want[0].Name, again[0].Name)
	})
}
