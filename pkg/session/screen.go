package session

import (
	"context"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
)

// Update types.
const (
	UpdateState   = "state"
	UpdateAlert   = "alert"
	UpdateBezel   = "bezel"
	UpdateDismiss = "dismiss"
)

// Update is one change a screen pushes to its watchers.
type Update struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Screen is the remote-facing surface of one screen instance. The Manager only
// calls it from the session's loop.
type Screen interface {
	// Kind is the registered screen kind.
	Kind() string

	// Intents lists the intent names Send accepts.
	Intents() []string

	// Send decodes payload as the named intent and evaluates it.
	Send(ctx context.Context, name string, payload map[string]any) error

	// State snapshots the translator's display state.
	State() map[string]any

	// Observe subscribes emit to every display cell and signal channel.
	Observe(emit func(Update)) []*reactive.Subscription

	// Start runs once after construction, e.g. to report the screen appeared.
	Start(ctx context.Context)

	// Close tears the screen down.
	Close()
}

// Factory builds a screen. The options carry the session's executor, logger
// and hooks and must be passed on to the screen constructor.
type Factory func(opts ...screen.Option) (Screen, error)

// Field subscribes emit to a display cell, tagging updates with name.
func Field[T any](v reactive.Value[T], name string, emit func(Update)) *reactive.Subscription {
	return v.Subscribe(func(x T) {
		emit(Update{Type: UpdateState, Name: name, Data: x})
	})
}

// Signals subscribes emit to a screen's alert, bezel and dismiss channels.
func Signals(src screen.SignalSource, emit func(Update)) []*reactive.Subscription {
	return []*reactive.Subscription{
		src.Alerts().Subscribe(func(a screen.Alert) {
			emit(Update{Type: UpdateAlert, Data: a})
		}),
		src.Bezels().Subscribe(func(b screen.Bezel) {
			emit(Update{Type: UpdateBezel, Data: b})
		}),
		src.Dismissals().Subscribe(func(struct{}) {
			emit(Update{Type: UpdateDismiss})
		}),
	}
}
