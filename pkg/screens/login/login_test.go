package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asgeY/poet/pkg/adapters/memory"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(ev *Evaluator, username, password string) {
	ctx := context.Background()
	ev.Evaluate(ctx, TextChanged{Text: username, Field: UsernameField})
	ev.Evaluate(ctx, TextChanged{Text: password, Field: PasswordField})
}

func collectAlerts(tr *Translator) *[]screen.Alert {
	var got []screen.Alert
	tr.Alerts().Subscribe(func(a screen.Alert) { got = append(got, a) })
	return &got
}

func TestLogin_Succeeds(t *testing.T) {
	auth := memory.NewAuthenticator(map[string]string{"postman": "password"})
	s := New(auth)
	defer s.Close()
	alerts := collectAlerts(s.Translator)

	ev, ok := s.Handle().Evaluator()
	require.True(t, ok)
	fill(ev, "postman", "password")
	assert.True(t, s.Translator.SignIn().Get().Enabled)

	ev.Evaluate(context.Background(), SignIn{})

	require.Len(t, *alerts, 1)
	assert.Equal(t, TitleSucceeded, (*alerts)[0].Title)
	assert.Contains(t, (*alerts)[0].Message, "Authenticated: true")
	assert.False(t, s.Translator.Busy().Get())
	assert.Equal(t, Login{Username: "postman", Password: "password"}, ev.Steps().Get())
}

func TestLogin_Fails(t *testing.T) {
	failing := ports.AuthenticatorFunc(func(context.Context, domain.Credentials) (domain.AuthResult, error) {
		return domain.AuthResult{}, errors.New("service unavailable")
	})
	s := New(failing)
	defer s.Close()
	alerts := collectAlerts(s.Translator)

	ev := s.Owner.Evaluator()
	fill(ev, "postman", "password")
	ev.Evaluate(context.Background(), SignIn{})

	require.Len(t, *alerts, 1)
	assert.Equal(t, TitleFailed, (*alerts)[0].Title)
	assert.Equal(t, "service unavailable", (*alerts)[0].Message)
}

func TestLogin_UsernameValidationBoundary(t *testing.T) {
	s := New(memory.NewAuthenticator(nil))
	defer s.Close()
	ev := s.Owner.Evaluator()
	ctx := context.Background()

	var validity []bool
	s.Translator.UsernameValid().Subscribe(func(v bool) { validity = append(validity, v) })

	ev.Evaluate(ctx, TextChanged{Text: "hey", Field: UsernameField})
	assert.False(t, s.Translator.UsernameValid().Get())

	ev.Evaluate(ctx, TextChanged{Text: "hell", Field: UsernameField})
	assert.False(t, s.Translator.UsernameValid().Get())

	ev.Evaluate(ctx, TextChanged{Text: "hello", Field: UsernameField})
	assert.True(t, s.Translator.UsernameValid().Get())

	assert.Equal(t, []bool{false, false, false, true}, validity)
}

func TestLogin_PasswordValidationBoundary(t *testing.T) {
	assert.False(t, ValidPassword("1234567"))
	assert.True(t, ValidPassword("12345678"))
	assert.True(t, ValidUsername("héllo"))
}

func TestLogin_SignInIgnoredWhenInvalid(t *testing.T) {
	calls := 0
	auth := ports.AuthenticatorFunc(func(context.Context, domain.Credentials) (domain.AuthResult, error) {
		calls++
		return domain.AuthResult{Authenticated: true}, nil
	})
	s := New(auth)
	defer s.Close()
	alerts := collectAlerts(s.Translator)
	ev := s.Owner.Evaluator()

	fill(ev, "hey", "password")
	assert.False(t, s.Translator.SignIn().Get().Enabled)
	ev.Evaluate(context.Background(), SignIn{})

	assert.Zero(t, calls)
	assert.Empty(t, *alerts)
}

func TestLogin_InputIgnoredWhileAuthenticating(t *testing.T) {
	var pending func()
	exec := &deferred{run: func(done func()) { pending = done }}

	s := New(memory.NewAuthenticator(map[string]string{"postman": "password"}), screen.WithExecutor(exec))
	defer s.Close()
	ev := s.Owner.Evaluator()
	fill(ev, "postman", "password")

	ev.Evaluate(context.Background(), SignIn{})
	assert.Equal(t, Authenticating{Username: "postman", Password: "password"}, ev.Steps().Get())
	assert.True(t, s.Translator.Busy().Get())
	assert.False(t, s.Translator.SignIn().Get().Enabled)

	ev.Evaluate(context.Background(), TextChanged{Text: "someone", Field: UsernameField})
	ev.Evaluate(context.Background(), SignIn{})
	assert.Equal(t, "postman", s.Translator.Username().Get())

	require.NotNil(t, pending)
	pending()
	assert.False(t, s.Translator.Busy().Get())
	assert.True(t, s.Translator.SignIn().Get().Enabled)
}

func TestTranslator_Idempotent(t *testing.T) {
	s := New(memory.NewAuthenticator(nil))
	defer s.Close()

	step := Login{Username: "postman", Password: "pass"}
	s.Translator.Translate(step)
	first := []any{s.Translator.Username().Get(), s.Translator.UsernameValid().Get(), s.Translator.PasswordValid().Get(), s.Translator.SignIn().Get()}
	s.Translator.Translate(step)
	second := []any{s.Translator.Username().Get(), s.Translator.UsernameValid().Get(), s.Translator.PasswordValid().Get(), s.Translator.SignIn().Get()}
	assert.Equal(t, first, second)
}

func TestScreen_CloseReleasesHandle(t *testing.T) {
	s := New(memory.NewAuthenticator(nil))
	h := s.Handle()
	s.Close()

	_, ok := h.Evaluator()
	assert.False(t, ok)
}

// deferred holds completions until the test releases them.
type deferred struct {
	run func(done func())
}

func (d *deferred) Perform(ctx context.Context, work screen.Work) {
	if done := work(ctx); done != nil {
		d.run(done)
	}
}

func (d *deferred) After(_ time.Duration, fn func()) func() {
	return func() {}
}
