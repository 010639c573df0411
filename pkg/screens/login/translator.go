package login

import (
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
)

// Source is what the translator reads from the evaluator.
type Source interface {
	screen.SignalSource
	Steps() reactive.Value[Step]
	Busy() reactive.Value[bool]
}

// Translator derives the form's display state.
type Translator struct {
	username      *reactive.Cell[string]
	password      *reactive.Cell[string]
	usernameValid *reactive.Cell[bool]
	passwordValid *reactive.Cell[bool]
	signIn        *reactive.Cell[screen.Action[Intent]]
	busy          *reactive.Cell[bool]
	signals       *screen.Signals

	bag reactive.Bag
}

var _ screen.Translator[Step] = (*Translator)(nil)

// NewTranslator subscribes to src and translates its current step immediately.
func NewTranslator(src Source) *Translator {
	t := &Translator{
		username:      reactive.NewCell(""),
		password:      reactive.NewCell(""),
		usernameValid: reactive.NewCell(false),
		passwordValid: reactive.NewCell(false),
		signIn:        reactive.NewCell(screen.EnabledAction[Intent]("Sign In", SignIn{}, false)),
		busy:          reactive.NewCell(false),
		signals:       screen.NewSignals(),
	}
	t.signals.Relay(src, &t.bag)
	t.bag.Add(
		screen.Bind[Step](src.Steps(), t),
		src.Busy().Subscribe(t.busy.Set),
	)
	return t
}

// Translate re-derives every field from s.
func (t *Translator) Translate(s Step) {
	switch s := s.(type) {
	case Login:
		t.form(s.Username, s.Password, true)
	case Authenticating:
		t.form(s.Username, s.Password, false)
	}
}

func (t *Translator) form(username, password string, editable bool) {
	userOK := ValidUsername(username)
	passOK := ValidPassword(password)

	t.username.Set(username)
	t.password.Set(password)
	t.usernameValid.Set(userOK)
	t.passwordValid.Set(passOK)
	t.signIn.Set(screen.EnabledAction[Intent]("Sign In", SignIn{}, editable && userOK && passOK))
}

// Close stops listening to the evaluator.
func (t *Translator) Close() {
	t.bag.Cancel()
}

func (t *Translator) Username() reactive.Value[string]              { return t.username }
func (t *Translator) Password() reactive.Value[string]              { return t.password }
func (t *Translator) UsernameValid() reactive.Value[bool]           { return t.usernameValid }
func (t *Translator) PasswordValid() reactive.Value[bool]           { return t.passwordValid }
func (t *Translator) SignIn() reactive.Value[screen.Action[Intent]] { return t.signIn }
func (t *Translator) Busy() reactive.Value[bool]                    { return t.busy }
func (t *Translator) Alerts() reactive.Stream[screen.Alert]         { return t.signals.Alerts() }
