package screen

import (
	"context"

	"github.com/asgeY/poet/pkg/reactive"
)

// Intent is implemented by every intent a screen accepts. The name is the
// stable identifier remote presenters use to send it.
type Intent interface {
	IntentName() string
}

// Evaluator is the business-logic half of a screen, typed over its own closed
// intent variant.
type Evaluator[I Intent] interface {
	Evaluate(ctx context.Context, intent I)
}

// Translator is the display-logic half of a screen.
type Translator[S any] interface {
	Translate(step S)
}

// Bind subscribes t to steps. The translator runs once immediately with the
// current step and again after every change.
func Bind[S any](steps reactive.Value[S], t Translator[S]) *reactive.Subscription {
	return steps.Subscribe(t.Translate)
}
