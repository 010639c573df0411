// Package countdown is a screen that counts down once it appears and then asks
// to be dismissed.
package countdown

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/step"
)

// Name identifies the screen kind.
const Name = "countdown"

// DefaultInterval is the time between ticks.
const DefaultInterval = time.Second

// Step is the closed set of countdown steps.
type Step interface {
	step.Step
	isCountdownStep()
}

// Waiting is the screen before it appears.
type Waiting struct{ From int }

// Counting shows the seconds left.
type Counting struct{ Remaining int }

// Finished is terminal.
type Finished struct{}

func (Waiting) StepName() string  { return "waiting" }
func (Counting) StepName() string { return "counting" }
func (Finished) StepName() string { return "finished" }
func (Waiting) isCountdownStep()  {}
func (Counting) isCountdownStep() {}
func (Finished) isCountdownStep() {}

// Transitions only runs forward.
func Transitions() *step.Table {
	return step.NewTable().
		Allow("waiting", "counting").
		Allow("counting", "finished")
}

// Intent is the closed set of countdown intents.
type Intent interface {
	IntentName() string
	isCountdownIntent()
}

// Appeared starts the countdown.
type Appeared struct{}

type tick struct{}

func (Appeared) IntentName() string { return "appeared" }
func (tick) IntentName() string     { return "tick" }
func (Appeared) isCountdownIntent() {}
func (tick) isCountdownIntent()     {}

// Evaluator drives the countdown with the executor's timer.
type Evaluator struct {
	steps    *step.Container[Step]
	signals  *screen.Signals
	interval time.Duration
	exec     screen.Executor
	logger   *slog.Logger

	cancel func()
}

var _ screen.Evaluator[Intent] = (*Evaluator)(nil)

// NewEvaluator counts down from `from`. A non-positive interval means DefaultInterval.
func NewEvaluator(from int, interval time.Duration, opts ...screen.Option) *Evaluator {
	if from < 0 {
		from = 0
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	cfg := screen.NewConfig(opts...)
	return &Evaluator{
		steps:    step.New[Step](Waiting{From: from}, append(cfg.StepOptions(Name), step.WithTable(Transitions()))...),
		signals:  screen.NewSignals(),
		interval: interval,
		exec:     cfg.Executor,
		logger:   cfg.Logger,
	}
}

func (e *Evaluator) Steps() reactive.Value[Step]           { return e.steps.Reader() }
func (e *Evaluator) Alerts() reactive.Stream[screen.Alert] { return e.signals.Alerts() }
func (e *Evaluator) Bezels() reactive.Stream[screen.Bezel] { return e.signals.Bezels() }
func (e *Evaluator) Dismissals() reactive.Stream[struct{}] { return e.signals.Dismissals() }

// Evaluate applies intent. Appeared only counts from Waiting; ticks only land in Counting.
func (e *Evaluator) Evaluate(ctx context.Context, intent Intent) {
	switch intent.(type) {
	case Appeared:
		w, ok := e.steps.Current().(Waiting)
		if !ok {
			return
		}
		e.logger.Debug("Countdown started", "from", w.From)
		_ = e.steps.Set(Counting{Remaining: w.From})
		e.schedule(ctx)
	case tick:
		c, ok := e.steps.Current().(Counting)
		if !ok {
			return
		}
		if c.Remaining == 0 {
			e.cancel = nil
			_ = e.steps.Set(Finished{})
			e.signals.Dismiss()
			return
		}
		_ = e.steps.Set(Counting{Remaining: c.Remaining - 1})
		e.schedule(ctx)
	}
}

func (e *Evaluator) schedule(ctx context.Context) {
	cancel := e.exec.After(e.interval, func() {
		e.Evaluate(ctx, tick{})
	})
	if _, counting := e.steps.Current().(Counting); counting {
		e.cancel = cancel
	}
}

// Stop cancels the pending tick, if any.
func (e *Evaluator) Stop() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Translator exposes the number to display.
type Translator struct {
	count   *reactive.Cell[int]
	caption *reactive.Cell[string]
	signals *screen.Signals
	bag     reactive.Bag
}

var _ screen.Translator[Step] = (*Translator)(nil)

// NewTranslator binds to ev.
func NewTranslator(ev *Evaluator) *Translator {
	t := &Translator{
		count:   reactive.NewCell(0),
		caption: reactive.NewCell(""),
		signals: screen.NewSignals(),
	}
	t.signals.Relay(ev, &t.bag)
	t.bag.Add(screen.Bind[Step](ev.Steps(), t))
	return t
}

// Translate updates the count. Only changes are emitted, so each number shows once.
func (t *Translator) Translate(s Step) {
	switch s := s.(type) {
	case Waiting:
		reactive.SetIfChanged(t.count, s.From)
		reactive.SetIfChanged(t.caption, "")
	case Counting:
		reactive.SetIfChanged(t.count, s.Remaining)
		reactive.SetIfChanged(t.caption, fmt.Sprintf("Dismissing in %d", s.Remaining))
	case Finished:
		// The last count stays on screen until presentation dismisses it.
	}
}

func (t *Translator) Count() reactive.Value[int]            { return t.count }
func (t *Translator) Caption() reactive.Value[string]       { return t.caption }
func (t *Translator) Dismissals() reactive.Stream[struct{}] { return t.signals.Dismissals() }
func (t *Translator) Close()                                { t.bag.Cancel() }

// Screen is one countdown instance.
type Screen struct {
	Owner      *screen.Owner[Evaluator]
	Translator *Translator
}

// New wires a countdown screen.
func New(from int, interval time.Duration, opts ...screen.Option) *Screen {
	ev := NewEvaluator(from, interval, opts...)
	tr := NewTranslator(ev)
	owner := screen.Own(ev)
	owner.OnClose(tr.Close)
	owner.OnClose(ev.Stop)
	return &Screen{Owner: owner, Translator: tr}
}

// Close stops the timer and tears the screen down.
func (s *Screen) Close() { s.Owner.Close() }
