package retail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/step"
	"github.com/google/uuid"
)

const (
	TitleCatalogUnavailable = "Catalog Unavailable"
	TitleThankYou           = "Thank You!"
)

// Evaluator runs the kiosk flow against an injected catalog.
type Evaluator struct {
	steps   *step.Container[Step]
	signals *screen.Signals

	catalog ports.CatalogProvider
	exec    screen.Executor
	logger  *slog.Logger
}

var _ screen.Evaluator[Intent] = (*Evaluator)(nil)

// NewEvaluator creates an evaluator in the Loading step.
func NewEvaluator(catalog ports.CatalogProvider, opts ...screen.Option) *Evaluator {
	cfg := screen.NewConfig(opts...)
	return &Evaluator{
		steps:   step.New[Step](Loading{}, append(cfg.StepOptions(Name), step.WithTable(Transitions()))...),
		signals: screen.NewSignals(),
		catalog: catalog,
		exec:    cfg.Executor,
		logger:  cfg.Logger,
	}
}

func (e *Evaluator) Steps() reactive.Value[Step]           { return e.steps.Reader() }
func (e *Evaluator) Alerts() reactive.Stream[screen.Alert] { return e.signals.Alerts() }
func (e *Evaluator) Bezels() reactive.Stream[screen.Bezel] { return e.signals.Bezels() }
func (e *Evaluator) Dismissals() reactive.Stream[struct{}] { return e.signals.Dismissals() }

// Evaluate applies intent to the current step.
func (e *Evaluator) Evaluate(ctx context.Context, intent Intent) {
	switch cur := e.steps.Current().(type) {
	case Loading:
		e.loading(ctx, intent)
	case Browsing:
		e.browsing(cur, intent)
	case Reviewing:
		e.reviewing(cur, intent)
	case Complete:
		if _, ok := intent.(Done); ok {
			e.signals.Dismiss()
		}
	}
}

func (e *Evaluator) loading(ctx context.Context, intent Intent) {
	switch in := intent.(type) {
	case Appeared:
		e.exec.Perform(ctx, func(ctx context.Context) func() {
			products, err := e.catalog.Products(ctx)
			return func() {
				e.Evaluate(ctx, productsLoaded{products: products, err: err})
			}
		})
	case productsLoaded:
		if in.err != nil {
			e.logger.Warn("Catalog load failed", "err", in.err)
			e.signals.Alert(TitleCatalogUnavailable, in.err.Error())
			return
		}
		e.set(Browsing{Products: in.products})
	}
}

func (e *Evaluator) browsing(cur Browsing, intent Intent) {
	switch in := intent.(type) {
	case Add:
		p, ok := findProduct(cur.Products, in.ProductID)
		if !ok {
			e.logger.Debug("Ignoring unknown product", "product_id", in.ProductID)
			return
		}
		e.set(Browsing{Products: cur.Products, Cart: cur.Cart.Add(p)})
		e.signals.Bezel("+", "Added "+p.Name)
	case Remove:
		e.set(Browsing{Products: cur.Products, Cart: cur.Cart.Remove(in.ProductID)})
	case Review:
		if len(cur.Cart) == 0 {
			return
		}
		e.set(Reviewing(cur))
	}
}

func (e *Evaluator) reviewing(cur Reviewing, intent Intent) {
	switch in := intent.(type) {
	case Remove:
		cart := cur.Cart.Remove(in.ProductID)
		if len(cart) == 0 {
			e.set(Browsing{Products: cur.Products})
			return
		}
		e.set(Reviewing{Products: cur.Products, Cart: cart})
	case Back:
		e.set(Browsing(cur))
	case Purchase:
		order := domain.Order{
			Number: strings.ToUpper(uuid.NewString()[:8]),
			Lines:  cur.Cart,
			Total:  cur.Cart.Total(),
		}
		e.set(Complete{Order: order})
		e.logger.Info("Order placed", "number", order.Number, "total", order.Total)
		e.signals.Alert(TitleThankYou, fmt.Sprintf("Order %s: %s", order.Number, domain.FormatPrice(order.Total)))
	}
}

func (e *Evaluator) set(next Step) {
	if err := e.steps.Set(next); err != nil {
		e.logger.Error("Step rejected", "err", err)
	}
}

func findProduct(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
