package retail

import (
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screen"
)

// Screen is one kiosk instance.
type Screen struct {
	Owner      *screen.Owner[Evaluator]
	Translator *Translator
}

// New wires a retail screen over catalog.
func New(catalog ports.CatalogProvider, opts ...screen.Option) *Screen {
	ev := NewEvaluator(catalog, opts...)
	tr := NewTranslator(ev)
	owner := screen.Own(ev)
	owner.OnClose(tr.Close)
	return &Screen{Owner: owner, Translator: tr}
}

// Close tears the screen down.
func (s *Screen) Close() { s.Owner.Close() }
