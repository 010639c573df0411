package login

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/step"
)

// Alert titles.
const (
	TitleSucceeded = "Login Succeeded!"
	TitleFailed    = "Login Failed"
)

// Evaluator decides what the login form does with each intent.
type Evaluator struct {
	steps   *step.Container[Step]
	busy    *reactive.Cell[bool]
	signals *screen.Signals

	auth   ports.Authenticator
	exec   screen.Executor
	logger *slog.Logger
}

var _ screen.Evaluator[Intent] = (*Evaluator)(nil)

// NewEvaluator creates an evaluator starting on an empty form.
func NewEvaluator(auth ports.Authenticator, opts ...screen.Option) *Evaluator {
	cfg := screen.NewConfig(opts...)
	return &Evaluator{
		steps:   step.New[Step](Login{}, append(cfg.StepOptions(Name), step.WithTable(Transitions()))...),
		busy:    reactive.NewCell(false),
		signals: screen.NewSignals(),
		auth:    auth,
		exec:    cfg.Executor,
		logger:  cfg.Logger,
	}
}

// Steps is the read-only step stream for the translator.
func (e *Evaluator) Steps() reactive.Value[Step] { return e.steps.Reader() }

// Busy is true while the authenticator runs.
func (e *Evaluator) Busy() reactive.Value[bool] { return e.busy }

// Alerts, Bezels and Dismissals expose the evaluator's one-shot signals.
func (e *Evaluator) Alerts() reactive.Stream[screen.Alert] { return e.signals.Alerts() }
func (e *Evaluator) Bezels() reactive.Stream[screen.Bezel] { return e.signals.Bezels() }
func (e *Evaluator) Dismissals() reactive.Stream[struct{}] { return e.signals.Dismissals() }

// Evaluate applies intent to the current step. Intents that do not fit the
// current step are ignored.
func (e *Evaluator) Evaluate(ctx context.Context, intent Intent) {
	switch in := intent.(type) {
	case TextChanged:
		e.textChanged(in)
	case SignIn:
		e.signIn(ctx)
	case signInCompleted:
		e.signInCompleted(in)
	}
}

func (e *Evaluator) textChanged(in TextChanged) {
	form, ok := e.steps.Current().(Login)
	if !ok {
		return
	}
	switch in.Field {
	case UsernameField:
		form.Username = in.Text
	case PasswordField:
		form.Password = in.Text
	default:
		return
	}
	_ = e.steps.Set(form)
}

func (e *Evaluator) signIn(ctx context.Context) {
	form, ok := e.steps.Current().(Login)
	if !ok || !ValidUsername(form.Username) || !ValidPassword(form.Password) {
		return
	}

	e.busy.Set(true)
	_ = e.steps.Set(Authenticating(form))
	e.logger.Debug("Signing in", "username", form.Username)

	creds := domain.Credentials{Username: form.Username, Password: form.Password}
	e.exec.Perform(ctx, func(ctx context.Context) func() {
		result, err := e.auth.Authenticate(ctx, creds)
		return func() {
			e.Evaluate(ctx, signInCompleted{result: result, err: err})
		}
	})
}

func (e *Evaluator) signInCompleted(in signInCompleted) {
	form, ok := e.steps.Current().(Authenticating)
	if !ok {
		return
	}

	e.busy.Set(false)
	_ = e.steps.Set(Login(form))

	if in.err != nil {
		e.logger.Info("Sign in failed", "username", form.Username, "err", in.err)
		e.signals.Alert(TitleFailed, in.err.Error())
		return
	}
	e.logger.Info("Signed in", "username", form.Username)
	e.signals.Alert(TitleSucceeded, fmt.Sprintf("Authenticated: %t", in.result.Authenticated))
}
