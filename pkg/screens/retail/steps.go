// Package retail is a kiosk ordering flow: browse the catalog, build a cart,
// review it and purchase.
package retail

import (
	"slices"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/step"
)

// Name identifies the screen kind.
const Name = "retail"

// Step is the closed set of retail steps.
type Step interface {
	step.Step
	isRetailStep()
}

// Loading waits for the catalog.
type Loading struct{}

// Browsing lists products next to the cart.
type Browsing struct {
	Products []domain.Product
	Cart     Cart
}

// Reviewing shows the cart before purchase.
type Reviewing struct {
	Products []domain.Product
	Cart     Cart
}

// Complete holds the purchased order.
type Complete struct {
	Order domain.Order
}

func (Loading) StepName() string   { return "loading" }
func (Browsing) StepName() string  { return "browsing" }
func (Reviewing) StepName() string { return "reviewing" }
func (Complete) StepName() string  { return "complete" }
func (Loading) isRetailStep()      {}
func (Browsing) isRetailStep()     {}
func (Reviewing) isRetailStep()    {}
func (Complete) isRetailStep()     {}

// Transitions is the retail flow. Completed orders cannot be reopened.
func Transitions() *step.Table {
	return step.NewTable().
		Allow("loading", "browsing").
		Allow("browsing", "reviewing").
		Allow("reviewing", "browsing", "complete")
}

// Cart is an ordered list of lines. Methods return a new cart and never
// modify the receiver, so steps holding a cart stay immutable.
type Cart []domain.OrderLine

// Add returns the cart with one more of p.
func (c Cart) Add(p domain.Product) Cart {
	out := slices.Clone(c)
	for i := range out {
		if out[i].Product.ID == p.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, domain.OrderLine{Product: p, Quantity: 1})
}

// Remove returns the cart with one less of id. Lines reaching zero are dropped.
func (c Cart) Remove(id string) Cart {
	out := slices.Clone(c)
	for i := range out {
		if out[i].Product.ID != id {
			continue
		}
		out[i].Quantity--
		if out[i].Quantity <= 0 {
			out = slices.Delete(out, i, i+1)
		}
		return out
	}
	return out
}

// Count is the number of items.
func (c Cart) Count() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// Total is the price of the cart in cents.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c {
		total += l.Subtotal()
	}
	return total
}
