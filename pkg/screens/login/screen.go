package login

import (
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screen"
)

// Screen is one login instance: the owned evaluator and its translator.
type Screen struct {
	Owner      *screen.Owner[Evaluator]
	Translator *Translator
}

// New wires an evaluator and translator together.
func New(auth ports.Authenticator, opts ...screen.Option) *Screen {
	ev := NewEvaluator(auth, opts...)
	tr := NewTranslator(ev)

	owner := screen.Own(ev)
	owner.OnClose(tr.Close)
	return &Screen{Owner: owner, Translator: tr}
}

// Handle is the non-owning reference presentation uses to send intents.
func (s *Screen) Handle() screen.Handle[Evaluator] {
	return s.Owner.Handle()
}

// Close tears the screen down.
func (s *Screen) Close() {
	s.Owner.Close()
}
