package screen

import (
	"log/slog"

	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/pkg/step"
)

// Config carries the collaborators every screen constructor accepts.
type Config struct {
	Executor Executor
	Logger   *slog.Logger
	Hooks    step.Hooks
}

// Option configures a screen.
type Option func(*Config)

// WithExecutor sets where collaborator work and timers run. Defaults to Inline.
func WithExecutor(e Executor) Option {
	return func(c *Config) {
		c.Executor = e
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithHooks registers step transition hooks.
func WithHooks(h step.Hooks) Option {
	return func(c *Config) {
		c.Hooks = h
	}
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Executor: NewInline(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// StepOptions returns the container options implied by the config.
func (c Config) StepOptions(screen string) []step.Option {
	return []step.Option{
		step.WithScreen(screen),
		step.WithHooks(c.Hooks),
	}
}
