package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/asgeY/poet/pkg/adapters/memory"
	"github.com/asgeY/poet/pkg/adapters/redis"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestAuthenticator_Contract(t *testing.T) {
	_, client := newClient(t)
	auth := redis.NewAuthenticator(client, redis.WithCost(bcrypt.MinCost))
	require.NoError(t, auth.SetUser(context.Background(), "postman", "password"))

	tests.RunAuthenticatorContract(t, auth, domain.Credentials{Username: "postman", Password: "password"})
}

func TestAuthenticator_StoresSaltedHash(t *testing.T) {
	mr, client := newClient(t)
	auth := redis.NewAuthenticator(client, redis.WithPrefix("app:"), redis.WithCost(bcrypt.MinCost))
	ctx := context.Background()

	require.NoError(t, auth.SetUser(ctx, "postman", "password"))
	stored := mr.HGet("app:users", "postman")
	assert.NotEqual(t, "password", stored)
	cost, err := bcrypt.Cost([]byte(stored))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	require.NoError(t, auth.SetUser(ctx, "courier", "password"))
	assert.NotEqual(t, stored, mr.HGet("app:users", "courier"), "equal passwords must hash differently")

	require.NoError(t, auth.DeleteUser(ctx, "postman"))
	_, err = auth.Authenticate(ctx, domain.Credentials{Username: "postman", Password: "password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticator_BackendDown(t *testing.T) {
	mr, client := newClient(t)
	auth := redis.NewAuthenticator(client)
	mr.Close()

	_, err := auth.Authenticate(context.Background(), domain.Credentials{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCatalog_Contract(t *testing.T) {
	_, client := newClient(t)
	catalog := redis.NewCatalog(client)
	products := memory.DefaultProducts()
	require.NoError(t, catalog.Seed(context.Background(), products...))

	tests.RunCatalogContract(t, catalog, products)
}

func TestCatalog_EmptyAndReseed(t *testing.T) {
	_, client := newClient(t)
	catalog := redis.NewCatalog(client)
	ctx := context.Background()

	got, err := catalog.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, catalog.Seed(ctx, memory.DefaultProducts()...))
	only := domain.Product{ID: "water", Name: "Water", Price: 100}
	require.NoError(t, catalog.Seed(ctx, only))

	got, err = catalog.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{only}, got)

	_, err = catalog.Product(ctx, "latte")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
