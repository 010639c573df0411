package retail

import (
	"fmt"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
)

// Source is what the translator reads from the evaluator.
type Source interface {
	screen.SignalSource
	Steps() reactive.Value[Step]
}

// Translator turns retail steps into display state.
type Translator struct {
	title       *reactive.Cell[string]
	loaded      *reactive.Cell[bool]
	products    *reactive.Cell[[]screen.Action[Intent]]
	lines       *reactive.Cell[[]screen.Action[Intent]]
	cartSummary *reactive.Cell[string]
	checkout    *reactive.Cell[screen.Action[Intent]]
	back        *reactive.Cell[screen.Action[Intent]]
	signals     *screen.Signals

	bag reactive.Bag
}

var _ screen.Translator[Step] = (*Translator)(nil)

// NewTranslator binds to src.
func NewTranslator(src Source) *Translator {
	t := &Translator{
		title:       reactive.NewCell(""),
		loaded:      reactive.NewCell(false),
		products:    reactive.NewCell[[]screen.Action[Intent]](nil),
		lines:       reactive.NewCell[[]screen.Action[Intent]](nil),
		cartSummary: reactive.NewCell(""),
		checkout:    reactive.NewCell(screen.EnabledAction[Intent]("", nil, false)),
		back:        reactive.NewCell(screen.EnabledAction[Intent]("Back", Back{}, false)),
		signals:     screen.NewSignals(),
	}
	t.signals.Relay(src, &t.bag)
	t.bag.Add(screen.Bind[Step](src.Steps(), t))
	return t
}

// Translate re-derives every cell from s.
func (t *Translator) Translate(s Step) {
	_, loading := s.(Loading)
	_, reviewing := s.(Reviewing)
	reactive.SetIfChanged(t.loaded, !loading)
	reactive.SetIfChanged(t.back, screen.EnabledAction[Intent]("Back", Back{}, reviewing))

	switch s := s.(type) {
	case Loading:
		t.title.Set("Loading…")
		t.products.Set(nil)
		t.cart(nil, false)
		t.checkout.Set(screen.EnabledAction[Intent]("Review Order", Review{}, false))
	case Browsing:
		t.title.Set("Menu")
		t.products.Set(productActions(s.Products))
		t.cart(s.Cart, true)
		t.checkout.Set(screen.EnabledAction[Intent]("Review Order", Review{}, len(s.Cart) > 0))
	case Reviewing:
		t.title.Set("Review Order")
		t.products.Set(nil)
		t.cart(s.Cart, true)
		t.checkout.Set(screen.NamedAction[Intent]("Purchase", Purchase{}))
	case Complete:
		t.title.Set("Order " + s.Order.Number)
		t.products.Set(nil)
		t.cart(Cart(s.Order.Lines), false)
		t.checkout.Set(screen.NamedAction[Intent]("Done", Done{}))
	}
}

func (t *Translator) cart(c Cart, removable bool) {
	var lines []screen.Action[Intent]
	for i, l := range c {
		a := screen.IndexedAction[Intent](
			fmt.Sprintf("%d × %s  %s", l.Quantity, l.Product.Name, domain.FormatPrice(l.Subtotal())),
			Remove{ProductID: l.Product.ID}, i)
		a.Enabled = removable
		lines = append(lines, a)
	}
	t.lines.Set(lines)
	t.cartSummary.Set(summary(c))
}

func productActions(products []domain.Product) []screen.Action[Intent] {
	actions := make([]screen.Action[Intent], 0, len(products))
	for i, p := range products {
		title := fmt.Sprintf("%s %s", p.Name, domain.FormatPrice(p.Price))
		if p.Glyph != "" {
			title = p.Glyph + " " + title
		}
		actions = append(actions, screen.IndexedAction[Intent](title, Add{ProductID: p.ID}, i))
	}
	return actions
}

func summary(c Cart) string {
	switch n := c.Count(); n {
	case 0:
		return "Cart is empty"
	case 1:
		return "1 item, " + domain.FormatPrice(c.Total())
	default:
		return fmt.Sprintf("%d items, %s", n, domain.FormatPrice(c.Total()))
	}
}

// Close stops listening to the evaluator.
func (t *Translator) Close() { t.bag.Cancel() }

func (t *Translator) Title() reactive.Value[string]                     { return t.title }
func (t *Translator) Loaded() reactive.Value[bool]                      { return t.loaded }
func (t *Translator) Products() reactive.Value[[]screen.Action[Intent]] { return t.products }
func (t *Translator) Lines() reactive.Value[[]screen.Action[Intent]]    { return t.lines }
func (t *Translator) CartSummary() reactive.Value[string]               { return t.cartSummary }
func (t *Translator) Checkout() reactive.Value[screen.Action[Intent]]   { return t.checkout }
func (t *Translator) Back() reactive.Value[screen.Action[Intent]]       { return t.back }
func (t *Translator) Alerts() reactive.Stream[screen.Alert]             { return t.signals.Alerts() }
func (t *Translator) Bezels() reactive.Stream[screen.Bezel]             { return t.signals.Bezels() }
func (t *Translator) Dismissals() reactive.Stream[struct{}]             { return t.signals.Dismissals() }
