package cli

import (
	"context"

	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/login"
)

// RunLogin prompts for credentials until sign-in succeeds or input ends.
func RunLogin(ctx context.Context, t *Terminal, auth ports.Authenticator) error {
	loop, stop := startLoop(ctx)
	var s *login.Screen
	defer func() {
		stop()
		if s != nil {
			s.Close()
		}
	}()

	alerts := make(chan screen.Alert, 1)
	err := loop.Do(ctx, func() {
		s = login.New(auth, screen.WithExecutor(loop), screen.WithLogger(t.Logger))
		s.Owner.Keep(
			s.Translator.Busy().Subscribe(func(busy bool) {
				if busy {
					t.System("Signing in...")
				}
			}),
			s.Translator.Alerts().Subscribe(func(a screen.Alert) {
				notify(alerts, a)
			}),
		)
	})
	if err != nil {
		return err
	}

	handle := s.Owner.Handle()
	send := func(in login.Intent) error {
		return loop.Do(ctx, func() {
			if ev, ok := handle.Evaluator(); ok {
				ev.Evaluate(ctx, in)
			}
		})
	}

	for {
		username, err := t.ReadLine("Username: ")
		if err != nil {
			return err
		}
		password, err := t.ReadSecret("Password: ")
		if err != nil {
			return err
		}

		var action screen.Action[login.Intent]
		err = loop.Do(ctx, func() {
			if ev, ok := handle.Evaluator(); ok {
				ev.Evaluate(ctx, login.TextChanged{Field: login.UsernameField, Text: username})
				ev.Evaluate(ctx, login.TextChanged{Field: login.PasswordField, Text: password})
			}
			action = s.Translator.SignIn().Get()
		})
		if err != nil {
			return err
		}
		if !action.Enabled {
			t.System("Usernames need %d characters and passwords %d.", login.MinUsernameLength, login.MinPasswordLength)
			continue
		}

		if err := send(action.Intent); err != nil {
			return err
		}
		select {
		case a := <-alerts:
			t.Alert(a)
			if a.Title == login.TitleSucceeded {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
