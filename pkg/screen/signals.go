package screen

import "github.com/asgeY/poet/pkg/reactive"

// Alert is a one-shot message that needs the user's acknowledgment.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Bezel is a transient, self-dismissing confirmation.
type Bezel struct {
	Glyph string `json:"glyph,omitempty"`
	Text  string `json:"text"`
}

// Signals groups the one-shot channels most screens need. An evaluator keeps
// its Signals private and exposes the read-only streams.
type Signals struct {
	alerts  *reactive.Channel[Alert]
	bezels  *reactive.Channel[Bezel]
	dismiss *reactive.Please
}

// NewSignals creates an empty set of channels.
func NewSignals() *Signals {
	return &Signals{
		alerts:  reactive.NewChannel[Alert](),
		bezels:  reactive.NewChannel[Bezel](),
		dismiss: reactive.NewPlease(),
	}
}

// Alert sends an alert.
func (s *Signals) Alert(title, message string) {
	s.alerts.Send(Alert{Title: title, Message: message})
}

// Bezel sends a bezel.
func (s *Signals) Bezel(glyph, text string) {
	s.bezels.Send(Bezel{Glyph: glyph, Text: text})
}

// Dismiss asks presentation to tear the screen down.
func (s *Signals) Dismiss() {
	s.dismiss.Fire()
}

// Alerts is the read side of Alert.
func (s *Signals) Alerts() reactive.Stream[Alert] { return s.alerts }

// Bezels is the read side of Bezel.
func (s *Signals) Bezels() reactive.Stream[Bezel] { return s.bezels }

// Dismissals is the read side of Dismiss.
func (s *Signals) Dismissals() reactive.Stream[struct{}] { return s.dismiss }

// SignalSource is the read-only side of Signals.
type SignalSource interface {
	Alerts() reactive.Stream[Alert]
	Bezels() reactive.Stream[Bezel]
	Dismissals() reactive.Stream[struct{}]
}

var _ SignalSource = (*Signals)(nil)

// Relay forwards every channel of src into s and records the subscriptions in bag.
// Translators use it to re-expose an evaluator's signals as their own.
func (s *Signals) Relay(src SignalSource, bag *reactive.Bag) {
	bag.Add(
		reactive.Forward(src.Alerts(), s.alerts),
		reactive.Forward(src.Bezels(), s.bezels),
		reactive.Forward(src.Dismissals(), &s.dismiss.Channel),
	)
}
