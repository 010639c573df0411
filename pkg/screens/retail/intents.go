package retail

import "github.com/asgeY/poet/pkg/domain"

// Intent is the closed set of retail intents.
type Intent interface {
	IntentName() string
	isRetailIntent()
}

type (
	// Appeared loads the catalog.
	Appeared struct{}
	// Add puts one of a product in the cart.
	Add struct {
		ProductID string `json:"product_id"`
	}
	// Remove takes one of a product out of the cart.
	Remove struct {
		ProductID string `json:"product_id"`
	}
	// Review moves to the order review.
	Review struct{}
	// Back returns to browsing.
	Back struct{}
	// Purchase places the order.
	Purchase struct{}
	// Done closes the receipt.
	Done struct{}

	productsLoaded struct {
		products []domain.Product
		err      error
	}
)

func (Appeared) IntentName() string       { return "appeared" }
func (Add) IntentName() string            { return "add" }
func (Remove) IntentName() string         { return "remove" }
func (Review) IntentName() string         { return "review" }
func (Back) IntentName() string           { return "back" }
func (Purchase) IntentName() string       { return "purchase" }
func (Done) IntentName() string           { return "done" }
func (productsLoaded) IntentName() string { return "products_loaded" }

func (Appeared) isRetailIntent()       {}
func (Add) isRetailIntent()            {}
func (Remove) isRetailIntent()         {}
func (Review) isRetailIntent()         {}
func (Back) isRetailIntent()           {}
func (Purchase) isRetailIntent()       {}
func (Done) isRetailIntent()           {}
func (productsLoaded) isRetailIntent() {}
