package domain

import "fmt"

// Product is one catalog entry. Prices are in cents.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Price       int64  `json:"price" yaml:"price"`
	Glyph       string `json:"glyph,omitempty" yaml:"glyph,omitempty"`
}

// OrderLine is a product and how many of it.
type OrderLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line price in cents.
func (l OrderLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Order is a completed purchase.
type Order struct {
	Number string      `json:"number"`
	Lines  []OrderLine `json:"lines"`
	Total  int64       `json:"total"`
}

// FormatPrice renders cents as dollars, e.g. 1250 → "$12.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
