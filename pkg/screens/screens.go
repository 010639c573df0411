// Package screens registers the built-in screen kinds with a session registry
// and adapts each one to session.Screen.
package screens

import (
	"context"
	"fmt"
	"time"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/registry"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/builder"
	"github.com/asgeY/poet/pkg/screens/countdown"
	"github.com/asgeY/poet/pkg/screens/login"
	"github.com/asgeY/poet/pkg/screens/retail"
	"github.com/asgeY/poet/pkg/session"
	"github.com/asgeY/poet/pkg/step"
)

// Deps are the collaborators shared by every screen instance.
type Deps struct {
	Auth     ports.Authenticator
	Catalog  ports.CatalogProvider
	Library  builder.Library
	From     int
	Interval time.Duration
}

// Register adds every kind whose dependencies are present.
// Countdown and builder need nothing; login needs Auth and retail needs Catalog.
func Register(r *registry.Registry[session.Factory], deps Deps) {
	r.Register(countdown.Name, func(opts ...screen.Option) (session.Screen, error) {
		return NewCountdown(countdown.New(deps.From, deps.Interval, opts...)), nil
	})
	r.Register(builder.Name, func(opts ...screen.Option) (session.Screen, error) {
		lib := deps.Library
		if len(lib.Demos) == 0 {
			lib = builder.DefaultLibrary()
		}
		return NewBuilder(builder.New(lib, opts...)), nil
	})
	if deps.Auth != nil {
		r.Register(login.Name, func(opts ...screen.Option) (session.Screen, error) {
			return NewLogin(login.New(deps.Auth, opts...)), nil
		})
	}
	if deps.Catalog != nil {
		r.Register(retail.Name, func(opts ...screen.Option) (session.Screen, error) {
			return NewRetail(retail.New(deps.Catalog, opts...)), nil
		})
	}
}

// Flow is how a kind moves between its steps.
type Flow struct {
	Initial string
	Table   *step.Table
}

// Flows returns the flow of every built-in kind, keyed by kind.
func Flows() map[string]Flow {
	return map[string]Flow{
		builder.Name:   {Initial: builder.Listing{}.StepName(), Table: builder.Transitions()},
		countdown.Name: {Initial: countdown.Waiting{}.StepName(), Table: countdown.Transitions()},
		login.Name:     {Initial: login.Login{}.StepName(), Table: login.Transitions()},
		retail.Name:    {Initial: retail.Loading{}.StepName(), Table: retail.Transitions()},
	}
}

// base implements the intent plumbing shared by the adapters.
type base[E any, I screen.Intent] struct {
	kind     string
	owner    *screen.Owner[E]
	handle   screen.Handle[E]
	decoder  *session.Decoder[I]
	evaluate func(e *E, ctx context.Context, in I)
}

func newBase[E any, I screen.Intent](kind string, owner *screen.Owner[E], evaluate func(*E, context.Context, I), intents ...I) base[E, I] {
	return base[E, I]{
		kind:     kind,
		owner:    owner,
		handle:   owner.Handle(),
		decoder:  session.NewDecoder(intents...),
		evaluate: evaluate,
	}
}

func (b *base[E, I]) Kind() string      { return b.kind }
func (b *base[E, I]) Intents() []string { return b.decoder.Names() }
func (b *base[E, I]) Close()            { b.owner.Close() }

// Send resolves the evaluator through the weak handle, so a closed screen
// reports not found instead of being kept alive.
func (b *base[E, I]) Send(ctx context.Context, name string, payload map[string]any) error {
	in, err := b.decoder.Decode(name, payload)
	if err != nil {
		return err
	}
	ev, ok := b.handle.Evaluator()
	if !ok {
		return fmt.Errorf("%s: %w", b.kind, domain.ErrSessionNotFound)
	}
	b.evaluate(ev, ctx, in)
	return nil
}
