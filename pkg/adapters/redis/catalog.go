package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asgeY/poet/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Catalog implements ports.CatalogProvider on Redis: a list keeps display order
// and a hash maps product id → JSON.
type Catalog struct {
	client *backend.Client
	prefix string
}

// NewCatalog creates a catalog reader on an existing client.
func NewCatalog(client *backend.Client, opts ...Option) *Catalog {
	o := applyOptions(opts)
	return &Catalog{client: client, prefix: o.prefix}
}

func (c *Catalog) orderKey() string {
	return c.prefix + "catalog:order"
}

func (c *Catalog) productsKey() string {
	return c.prefix + "catalog:products"
}

// Seed replaces the stored catalog with products, atomically.
func (c *Catalog) Seed(ctx context.Context, products ...domain.Product) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.orderKey(), c.productsKey())

	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal product %q: %w", p.ID, err)
		}
		pipe.RPush(ctx, c.orderKey(), p.ID)
		pipe.HSet(ctx, c.productsKey(), p.ID, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// Products lists the catalog in stored order.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	ids, err := c.client.LRange(ctx, c.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	raw, err := c.client.HMGet(ctx, c.productsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Listed but missing from the hash; skip the dangling id.
			continue
		}
		var p domain.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product %q: %w", ids[i], err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Product looks up one product.
func (c *Catalog) Product(ctx context.Context, id string) (domain.Product, error) {
	s, err := c.client.HGet(ctx, c.productsKey(), id).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Product{}, fmt.Errorf("%q: %w", id, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("failed to get product from redis: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return domain.Product{}, fmt.Errorf("failed to unmarshal product %q: %w", id, err)
	}
	return p, nil
}
