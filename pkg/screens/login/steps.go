// Package login is the sign-in screen: two validated text fields, a sign-in
// action and an alert reporting the authenticator's answer.
package login

import "github.com/asgeY/poet/pkg/step"

// Name identifies the screen kind.
const Name = "login"

// Minimum field lengths.
const (
	MinUsernameLength = 5
	MinPasswordLength = 8
)

// Step is the closed set of login steps.
type Step interface {
	step.Step
	isLoginStep()
}

// Login is the form accepting input.
type Login struct {
	Username string
	Password string
}

// Authenticating is the form locked while the authenticator runs.
type Authenticating struct {
	Username string
	Password string
}

func (Login) StepName() string          { return "login" }
func (Authenticating) StepName() string { return "authenticating" }
func (Login) isLoginStep()              {}
func (Authenticating) isLoginStep()     {}

// ValidUsername reports whether name is long enough.
func ValidUsername(name string) bool {
	return len([]rune(name)) >= MinUsernameLength
}

// ValidPassword reports whether password is long enough.
func ValidPassword(password string) bool {
	return len([]rune(password)) >= MinPasswordLength
}

// Transitions is the sign-in round trip.
func Transitions() *step.Table {
	return step.NewTable().
		Allow("login", "authenticating").
		Allow("authenticating", "login")
}
