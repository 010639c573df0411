package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asgeY/poet"
	"github.com/asgeY/poet/internal/config"
	"github.com/asgeY/poet/pkg/adapters/memory"
	redisadapter "github.com/asgeY/poet/pkg/adapters/redis"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screens/builder"
)

// backends are the authenticator, catalog and demo library selected by the config.
type backends struct {
	auth    ports.Authenticator
	catalog ports.CatalogProvider
	library *builder.Library
	close   func() error
}

// openBackends uses Redis when an address is configured and memory otherwise.
// Configured users are always seeded. A Redis catalog is seeded from the
// catalog file, or with the default products when it is empty.
func openBackends(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backends, error) {
	var library *builder.Library
	if cfg.Library != "" {
		lib, err := builder.LoadLibrary(cfg.Library)
		if err != nil {
			return nil, err
		}
		library = &lib
	}

	var products []domain.Product
	if cfg.Catalog != "" {
		c, err := memory.LoadCatalog(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		if products, err = c.Products(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.Redis.Addr == "" {
		if products == nil {
			products = memory.DefaultProducts()
		}
		catalog, err := memory.NewCatalog(products...)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using in-memory backends", "products", len(products), "users", len(cfg.Users))
		return &backends{
			auth:    memory.NewAuthenticator(cfg.Users),
			catalog: catalog,
			library: library,
			close:   func() error { return nil },
		}, nil
	}

	client := redisadapter.NewClient(cfg.Redis.Addr, "", 0)
	prefix := redisadapter.WithPrefix(cfg.Redis.Prefix)
	auth := redisadapter.NewAuthenticator(client, prefix)
	catalog := redisadapter.NewCatalog(client, prefix)

	for name, pass := range cfg.Users {
		if err := auth.SetUser(ctx, name, pass); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to seed users: %w", err)
		}
	}

	if products == nil {
		existing, err := catalog.Products(ctx)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		if len(existing) == 0 {
			products = memory.DefaultProducts()
		}
	}
	if products != nil {
		if err := catalog.Seed(ctx, products...); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	logger.Debug("Using Redis backends", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	return &backends{auth: auth, catalog: catalog, library: library, close: client.Close}, nil
}

// newEngine builds an engine over b with every configured screen.
func newEngine(cfg config.Config, b *backends, logger *slog.Logger) *poet.Engine {
	opts := []poet.Option{
		poet.WithLogger(logger),
		poet.WithAuthenticator(b.auth),
		poet.WithCatalog(b.catalog),
		poet.WithCountdown(cfg.Countdown.From, cfg.Countdown.Interval),
		poet.WithRuntimeMetrics(),
	}
	if b.library != nil {
		opts = append(opts, poet.WithLibrary(*b.library))
	}
	return poet.New(opts...)
}
