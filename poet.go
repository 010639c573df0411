package poet

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/asgeY/poet/internal/logging"
	httpadapter "github.com/asgeY/poet/pkg/adapters/http"
	"github.com/asgeY/poet/pkg/adapters/mcp"
	"github.com/asgeY/poet/pkg/observability"
	"github.com/asgeY/poet/pkg/ports"
	"github.com/asgeY/poet/pkg/registry"
	"github.com/asgeY/poet/pkg/screens"
	"github.com/asgeY/poet/pkg/screens/builder"
	"github.com/asgeY/poet/pkg/screens/countdown"
	"github.com/asgeY/poet/pkg/session"
)

// Version is replaced at release time via -ldflags "-X github.com/asgeY/poet.Version=...".
var Version = "v0.1.0-dev"

// Engine is the high-level entry point for the poet library.
// It hosts screen sessions and hands them to the HTTP and MCP adapters.
type Engine struct {
	Sessions *session.Manager
	Metrics  *observability.Metrics

	deps           screens.Deps
	logger         *slog.Logger
	runtimeMetrics bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by sessions and adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAuthenticator enables the login screen.
func WithAuthenticator(auth ports.Authenticator) Option {
	return func(e *Engine) {
		e.deps.Auth = auth
	}
}

// WithCatalog enables the retail screen.
func WithCatalog(catalog ports.CatalogProvider) Option {
	return func(e *Engine) {
		e.deps.Catalog = catalog
	}
}

// WithLibrary replaces the builder's demo library.
func WithLibrary(lib builder.Library) Option {
	return func(e *Engine) {
		e.deps.Library = lib
	}
}

// WithCountdown sets where countdowns start and how fast they tick.
func WithCountdown(from int, interval time.Duration) Option {
	return func(e *Engine) {
		e.deps.From = from
		e.deps.Interval = interval
	}
}

// WithRuntimeMetrics adds Go runtime and process collectors to /metrics.
func WithRuntimeMetrics() Option {
	return func(e *Engine) {
		e.runtimeMetrics = true
	}
}

// New registers every screen kind whose dependencies were provided.
// Countdown and builder are always available.
func New(opts ...Option) *Engine {
	e := &Engine{
		deps:   screens.Deps{From: 5, Interval: countdown.DefaultInterval},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Metrics = observability.NewMetrics(e.runtimeMetrics)
	kinds := registry.New[session.Factory]()
	screens.Register(kinds, e.deps)
	e.Sessions = session.NewManager(kinds,
		session.WithMetrics(e.Metrics),
		session.WithLogger(e.logger),
	)
	return e
}

// Handler serves the session API, its event streams and /metrics.
func (e *Engine) Handler() http.Handler {
	return httpadapter.NewHandler(e.Sessions,
		httpadapter.WithMetrics(e.Metrics.Handler()),
		httpadapter.WithLogger(e.logger),
		httpadapter.WithVersion(Version),
	)
}

// MCP exposes the sessions as Model Context Protocol tools.
func (e *Engine) MCP() *mcp.Server {
	return mcp.NewServer(e.Sessions, Version, e.logger)
}

// Shutdown closes every open session.
func (e *Engine) Shutdown(ctx context.Context) error {
	return e.Sessions.Shutdown(ctx)
}
