package screens

import (
	"context"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/builder"
	"github.com/asgeY/poet/pkg/screens/countdown"
	"github.com/asgeY/poet/pkg/screens/login"
	"github.com/asgeY/poet/pkg/screens/retail"
	"github.com/asgeY/poet/pkg/session"
)

// Login adapts a login screen.
type Login struct {
	base[login.Evaluator, login.Intent]
	tr *login.Translator
}

// NewLogin wraps s.
func NewLogin(s *login.Screen) *Login {
	return &Login{
		base: newBase(login.Name, s.Owner, (*login.Evaluator).Evaluate,
			login.Intent(login.TextChanged{}), login.Intent(login.SignIn{})),
		tr: s.Translator,
	}
}

func (l *Login) Start(context.Context) {}

func (l *Login) State() map[string]any {
	return map[string]any{
		"username":       l.tr.Username().Get(),
		"username_valid": l.tr.UsernameValid().Get(),
		"password_valid": l.tr.PasswordValid().Get(),
		"sign_in":        l.tr.SignIn().Get(),
		"busy":           l.tr.Busy().Get(),
	}
}

func (l *Login) Observe(emit func(session.Update)) []*reactive.Subscription {
	return []*reactive.Subscription{
		session.Field(l.tr.Username(), "username", emit),
		session.Field(l.tr.UsernameValid(), "username_valid", emit),
		session.Field(l.tr.PasswordValid(), "password_valid", emit),
		session.Field(l.tr.SignIn(), "sign_in", emit),
		session.Field(l.tr.Busy(), "busy", emit),
		l.tr.Alerts().Subscribe(func(a screen.Alert) {
			emit(session.Update{Type: session.UpdateAlert, Data: a})
		}),
	}
}

// Countdown adapts a countdown screen.
type Countdown struct {
	base[countdown.Evaluator, countdown.Intent]
	tr *countdown.Translator
}

// NewCountdown wraps s.
func NewCountdown(s *countdown.Screen) *Countdown {
	return &Countdown{
		base: newBase(countdown.Name, s.Owner, (*countdown.Evaluator).Evaluate,
			countdown.Intent(countdown.Appeared{})),
		tr: s.Translator,
	}
}

// Start counts down as soon as the session opens.
func (c *Countdown) Start(ctx context.Context) {
	_ = c.Send(ctx, countdown.Appeared{}.IntentName(), nil)
}

func (c *Countdown) State() map[string]any {
	return map[string]any{
		"count":   c.tr.Count().Get(),
		"caption": c.tr.Caption().Get(),
	}
}

func (c *Countdown) Observe(emit func(session.Update)) []*reactive.Subscription {
	return []*reactive.Subscription{
		session.Field(c.tr.Count(), "count", emit),
		session.Field(c.tr.Caption(), "caption", emit),
		c.tr.Dismissals().Subscribe(func(struct{}) {
			emit(session.Update{Type: session.UpdateDismiss})
		}),
	}
}

// Retail adapts a retail screen.
type Retail struct {
	base[retail.Evaluator, retail.Intent]
	tr *retail.Translator
}

// NewRetail wraps s.
func NewRetail(s *retail.Screen) *Retail {
	return &Retail{
		base: newBase(retail.Name, s.Owner, (*retail.Evaluator).Evaluate,
			retail.Intent(retail.Appeared{}), retail.Intent(retail.Add{}), retail.Intent(retail.Remove{}),
			retail.Intent(retail.Review{}), retail.Intent(retail.Back{}), retail.Intent(retail.Purchase{}),
			retail.Intent(retail.Done{})),
		tr: s.Translator,
	}
}

// Start loads the catalog.
func (r *Retail) Start(ctx context.Context) {
	_ = r.Send(ctx, retail.Appeared{}.IntentName(), nil)
}

func (r *Retail) State() map[string]any {
	return map[string]any{
		"title":        r.tr.Title().Get(),
		"loaded":       r.tr.Loaded().Get(),
		"products":     r.tr.Products().Get(),
		"lines":        r.tr.Lines().Get(),
		"cart_summary": r.tr.CartSummary().Get(),
		"checkout":     r.tr.Checkout().Get(),
		"back":         r.tr.Back().Get(),
	}
}

func (r *Retail) Observe(emit func(session.Update)) []*reactive.Subscription {
	return append([]*reactive.Subscription{
		session.Field(r.tr.Title(), "title", emit),
		session.Field(r.tr.Loaded(), "loaded", emit),
		session.Field(r.tr.Products(), "products", emit),
		session.Field(r.tr.Lines(), "lines", emit),
		session.Field(r.tr.CartSummary(), "cart_summary", emit),
		session.Field(r.tr.Checkout(), "checkout", emit),
		session.Field(r.tr.Back(), "back", emit),
	}, session.Signals(r.tr, emit)...)
}

// Builder adapts a demo builder screen.
type Builder struct {
	base[builder.Evaluator, builder.Intent]
	tr *builder.Translator
}

// NewBuilder wraps s.
func NewBuilder(s *builder.Screen) *Builder {
	return &Builder{
		base: newBase(builder.Name, s.Owner, (*builder.Evaluator).Evaluate,
			builder.Intent(builder.Edit{}), builder.Intent(builder.Rename{}), builder.Intent(builder.ToggleOption{}),
			builder.Intent(builder.Save{}), builder.Intent(builder.Cancel{}), builder.Intent(builder.Duplicate{})),
		tr: s.Translator,
	}
}

func (b *Builder) Start(context.Context) {}

func (b *Builder) State() map[string]any {
	return map[string]any{
		"demos":         b.tr.Demos().Get(),
		"draft_title":   b.tr.DraftTitle().Get(),
		"draft_options": b.tr.DraftOptions().Get(),
		"save":          b.tr.SaveAction().Get(),
	}
}

func (b *Builder) Observe(emit func(session.Update)) []*reactive.Subscription {
	return append([]*reactive.Subscription{
		session.Field(b.tr.Demos(), "demos", emit),
		session.Field(b.tr.DraftTitle(), "draft_title", emit),
		session.Field(b.tr.DraftOptions(), "draft_options", emit),
		session.Field(b.tr.SaveAction(), "save", emit),
	}, session.Signals(b.tr, emit)...)
}

var (
	_ session.Screen = (*Login)(nil)
	_ session.Screen = (*Countdown)(nil)
	_ session.Screen = (*Retail)(nil)
	_ session.Screen = (*Builder)(nil)
)
