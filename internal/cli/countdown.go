package cli

import (
	"context"
	"time"

	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/countdown"
)

// RunCountdown shows a countdown from from and returns once it dismisses itself.
func RunCountdown(ctx context.Context, t *Terminal, from int, interval time.Duration) error {
	loop, stop := startLoop(ctx)
	var s *countdown.Screen
	defer func() {
		stop()
		if s != nil {
			s.Close()
		}
	}()

	dismissed := make(chan struct{}, 1)
	err := loop.Do(ctx, func() {
		s = countdown.New(from, interval, screen.WithExecutor(loop), screen.WithLogger(t.Logger))
		s.Owner.Keep(
			s.Translator.Count().Subscribe(func(n int) {
				t.Printf("%d\n", n)
			}),
			s.Translator.Dismissals().Subscribe(func(struct{}) {
				notify(dismissed, struct{}{})
			}),
		)
		s.Owner.Evaluator().Evaluate(ctx, countdown.Appeared{})
	})
	if err != nil {
		return err
	}

	select {
	case <-dismissed:
		t.System("Dismissed.")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
