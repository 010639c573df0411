package login

import "github.com/asgeY/poet/pkg/domain"

// Field names a text field on the form.
type Field string

const (
	UsernameField Field = "username"
	PasswordField Field = "password"
)

// Intent is the closed set of login intents.
type Intent interface {
	IntentName() string
	isLoginIntent()
}

// TextChanged reports the full new text of a field.
type TextChanged struct {
	Text  string `json:"text"`
	Field Field  `json:"field"`
}

// SignIn submits the form.
type SignIn struct{}

// signInCompleted carries the authenticator's answer back onto the screen thread.
type signInCompleted struct {
	result domain.AuthResult
	err    error
}

func (TextChanged) IntentName() string     { return "text_changed" }
func (SignIn) IntentName() string          { return "sign_in" }
func (signInCompleted) IntentName() string { return "sign_in_completed" }

func (TextChanged) isLoginIntent()     {}
func (SignIn) isLoginIntent()          {}
func (signInCompleted) isLoginIntent() {}
