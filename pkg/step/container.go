package step

import (
	"fmt"
	"time"

	"github.com/asgeY/poet/pkg/reactive"
)

// Step is implemented by every case of a screen's step type.
type Step interface {
	// StepName identifies the case, e.g. "loading". It labels transitions and
	// keys the optional Table.
	StepName() string
}

type config struct {
	screen string
	table  *Table
	hooks  Hooks
	clock  func() time.Time
}

// Option configures a Container.
type Option func(*config)

// WithScreen names the owning screen in transition reports.
func WithScreen(name string) Option {
	return func(c *config) {
		c.screen = name
	}
}

// WithTable restricts transitions to the moves listed in t.
func WithTable(t *Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = h
	}
}

// WithClock overrides the time source used to stamp transitions.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}

// Container holds the current step of one screen instance.
type Container[S Step] struct {
	cell *reactive.Cell[S]
	cfg  config
}

// New creates a container whose first step is initial.
func New[S Step](initial S, opts ...Option) *Container[S] {
	cfg := config{clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Container[S]{
		cell: reactive.NewCell(initial),
		cfg:  cfg,
	}
}

// Current returns the latest step.
func (c *Container[S]) Current() S {
	return c.cell.Get()
}

// Set moves to next and delivers it to every subscriber before returning.
// It fails only when an attached Table does not permit the move.
func (c *Container[S]) Set(next S) error {
	t := Transition{
		Screen: c.cfg.screen,
		From:   c.cell.Get().StepName(),
		To:     next.StepName(),
		At:     c.cfg.clock(),
	}

	if c.cfg.table != nil && !c.cfg.table.Permits(t.From, t.To) {
		c.cfg.hooks.rejected(t)
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, t.From, t.To)
	}

	// Reported before delivery so that a Set made by a subscriber is reported
	// after the one it reacts to.
	c.cfg.hooks.transitioned(t)
	c.cell.Set(next)
	return nil
}

// Reader returns the read-only view handed to translators.
func (c *Container[S]) Reader() reactive.Value[S] {
	return c.cell
}

// Subscribe is shorthand for Reader().Subscribe.
func (c *Container[S]) Subscribe(fn func(S)) *reactive.Subscription {
	return c.cell.Subscribe(fn)
}
