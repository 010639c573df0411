package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/asgeY/poet/internal/presentation/tui"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/retail"
)

// ErrCatalogUnavailable is returned when the kiosk cannot load its products.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

type retailView struct {
	title    string
	summary  string
	products []screen.Action[retail.Intent]
	lines    []screen.Action[retail.Intent]
	checkout screen.Action[retail.Intent]
	back     screen.Action[retail.Intent]
}

func readRetailView(tr *retail.Translator) retailView {
	return retailView{
		title:    tr.Title().Get(),
		summary:  tr.CartSummary().Get(),
		products: tr.Products().Get(),
		lines:    tr.Lines().Get(),
		checkout: tr.Checkout().Get(),
		back:     tr.Back().Get(),
	}
}

func (v retailView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n== %s ==\n", v.title)
	for i, a := range v.products {
		fmt.Fprintln(&b, tui.ActionLine(strconv.Itoa(i+1), a))
	}
	if len(v.lines) > 0 {
		b.WriteString("\n")
		for i, a := range v.lines {
			fmt.Fprintln(&b, tui.ActionLine("-"+strconv.Itoa(i+1), a))
		}
	}
	fmt.Fprintf(&b, "%s\n\n", v.summary)
	fmt.Fprintln(&b, tui.ActionLine("c", v.checkout))
	if v.back.Enabled {
		fmt.Fprintln(&b, tui.ActionLine("b", v.back))
	}
	b.WriteString("[q] Quit\n")
	return b.String()
}

// pick maps a command onto one of the view's enabled actions.
func (v retailView) pick(cmd string) (retail.Intent, bool) {
	choose := func(list []screen.Action[retail.Intent], s string) (retail.Intent, bool) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(list) || !list[n-1].Enabled {
			return nil, false
		}
		return list[n-1].Intent, true
	}

	switch {
	case cmd == "c" && v.checkout.Enabled:
		return v.checkout.Intent, true
	case cmd == "b" && v.back.Enabled:
		return v.back.Intent, true
	case strings.HasPrefix(cmd, "-"):
		return choose(v.lines, cmd[1:])
	default:
		return choose(v.products, cmd)
	}
}

// RunRetail runs the kiosk until the receipt is dismissed or the user quits.
func RunRetail(ctx context.Context, t *Terminal, catalog ports.CatalogProvider) error {
	loop, stop := startLoop(ctx)
	var s *retail.Screen
	defer func() {
		stop()
		if s != nil {
			s.Close()
		}
	}()

	ready := make(chan struct{}, 1)
	failed := make(chan struct{}, 1)
	dismissed := make(chan struct{}, 1)
	err := loop.Do(ctx, func() {
		s = retail.New(catalog, screen.WithExecutor(loop), screen.WithLogger(t.Logger))
		s.Owner.Keep(
			s.Translator.Loaded().Subscribe(func(loaded bool) {
				if loaded {
					notify(ready, struct{}{})
				}
			}),
			s.Translator.Alerts().Subscribe(func(a screen.Alert) {
				t.Alert(a)
				if a.Title == retail.TitleCatalogUnavailable {
					notify(failed, struct{}{})
				}
			}),
			s.Translator.Bezels().Subscribe(t.Bezel),
			s.Translator.Dismissals().Subscribe(func(struct{}) {
				notify(dismissed, struct{}{})
			}),
		)
		s.Owner.Evaluator().Evaluate(ctx, retail.Appeared{})
	})
	if err != nil {
		return err
	}

	select {
	case <-ready:
	case <-failed:
		return ErrCatalogUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}

	handle := s.Owner.Handle()
	for {
		var view retailView
		if err := loop.Do(ctx, func() { view = readRetailView(s.Translator) }); err != nil {
			return err
		}
		t.Printf("%s", view)

		cmd, err := t.ReadLine("> ")
		if err != nil {
			return err
		}
		if cmd == "q" {
			return nil
		}
		in, ok := view.pick(cmd)
		if !ok {
			t.System("Unknown choice %q.", cmd)
			continue
		}

		err = loop.Do(ctx, func() {
			if ev, ok := handle.Evaluator(); ok {
				ev.Evaluate(ctx, in)
			}
		})
		if err != nil {
			return err
		}

		select {
		case <-dismissed:
			t.System("Dismissed.")
			return nil
		default:
		}
	}
}
