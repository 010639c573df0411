package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/asgeY/poet/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Catalog implements ports.CatalogProvider over a fixed product list.
// It is immutable after construction.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// NewCatalog creates a catalog. Products with an empty or duplicate id are rejected.
func NewCatalog(products ...domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: slices.Clone(products),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d (%q) is missing an id", i, p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Products returns a copy of the catalog in display order.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	return slices.Clone(c.products), nil
}

// Product looks up one product.
func (c *Catalog) Product(ctx context.Context, id string) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%q: %w", id, domain.ErrProductNotFound)
	}
	return c.products[i], nil
}

// catalogFile is the on-disk layout of a catalog.
type catalogFile struct {
	Products []domain.Product `yaml:"products" json:"products"`
}

// LoadCatalog reads a catalog from a YAML or JSON file, chosen by extension.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return NewCatalog(file.Products...)
}

// DefaultProducts is the kiosk demo inventory used when no catalog file is configured.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "latte", Name: "Latte", Description: "Espresso and steamed milk", Price: 450, Glyph: "☕"},
		{ID: "croissant", Name: "Croissant", Description: "Butter, flaky", Price: 325, Glyph: "🥐"},
		{ID: "tea", Name: "Green Tea", Price: 300, Glyph: "🍵"},
		{ID: "cookie", Name: "Cookie", Description: "Chocolate chip", Price: 199, Glyph: "🍪"},
	}
}
