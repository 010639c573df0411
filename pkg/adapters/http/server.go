package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/asgeY/poet/api"
	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// maxIntentBody caps intent request bodies.
const maxIntentBody = 64 << 10

// loadSpec parses the embedded OpenAPI document once per process.
var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	return api.Load(context.Background())
})

// Server exposes a session.Manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Metrics  http.Handler
	Version  string
	logger   *slog.Logger
	spec     *openapi3.T
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion is reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates the HTTP handler for mgr. Requests to routes with
// parameters or a body are validated against api/openapi.yaml.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	spec, err := loadSpec()
	if err != nil {
		panic(err)
	}
	s := &Server{
		Sessions: mgr,
		Version:  "dev",
		logger:   logging.NewNop(),
		spec:     spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", s.GetSpec)
	r.Get("/swagger", s.GetSwagger)
	r.Get("/health", s.GetHealth)
	r.Get("/screens", s.ListScreens)
	r.With(s.validate).Post("/screens/{kind}", s.OpenScreen)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.With(s.validate).Get("/{id}", s.GetSession)
		r.With(s.validate).Delete("/{id}", s.CloseSession)
		r.With(s.validate).Post("/{id}/intents", s.SendIntent)
		r.With(s.validate).Get("/{id}/events", s.SubscribeEvents)
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IntentRequest is the body of POST /sessions/{id}/intents.
type IntentRequest struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.Version})
}

// ListScreens handles GET /screens.
func (s *Server) ListScreens(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"screens": s.Sessions.Kinds()})
}

// OpenScreen handles POST /screens/{kind}.
func (s *Server) OpenScreen(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.param(w, r, "kind")
	if !ok {
		return
	}
	info, err := s.Sessions.Open(r.Context(), kind)
	if err != nil {
		s.writeError(w, "OpenScreen", err)
		return
	}
	w.Header().Set("Location", "/sessions/"+info.ID)
	s.writeJSON(w, http.StatusCreated, info)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]session.Info{"sessions": s.Sessions.List()})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.param(w, r, "id")
	if !ok {
		return
	}
	snap, err := s.Sessions.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// CloseSession handles DELETE /sessions/{id}.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.param(w, r, "id")
	if !ok {
		return
	}
	if err := s.Sessions.Close(r.Context(), id); err != nil {
		s.writeError(w, "CloseSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendIntent handles POST /sessions/{id}/intents and answers with the
// resulting snapshot.
func (s *Server) SendIntent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.param(w, r, "id")
	if !ok {
		return
	}

	var body IntentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxIntentBody)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SendIntent: Invalid request body", "err", err)
		return
	}
	if body.Name == "" {
		http.Error(w, "Missing intent name", http.StatusBadRequest)
		return
	}

	if err := s.Sessions.Send(r.Context(), id, body.Name, body.Payload); err != nil {
		s.writeError(w, "SendIntent", err)
		return
	}

	snap, err := s.Sessions.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, "SendIntent", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). The optional
// watch query parameter is a comma-separated list of update types to keep.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id, ok := s.param(w, r, "id")
	if !ok {
		return
	}
	var watchList []string
	if err := runtime.BindQueryParameter("form", false, false, "watch", r.URL.Query(), &watchList); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter watch: %s", err), http.StatusBadRequest)
		return
	}
	for i := range watchList {
		watchList[i] = strings.TrimSpace(watchList[i])
	}

	updates, cancel, err := s.Sessions.Watch(id)
	if err != nil {
		s.writeError(w, "SubscribeEvents", err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "session_id", id)
			return
		case u, ok := <-updates:
			if !ok {
				fmt.Fprintf(w, "event: closed\ndata: %s\n\n", id)
				flusher.Flush()
				return
			}
			if len(watchList) > 0 && !slices.Contains(watchList, u.Type) {
				continue
			}
			data, err := json.Marshal(u)
			if err != nil {
				s.logger.Error("SSE: Encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", u.Type, data)
			flusher.Flush()
		}
	}
}

// param binds a path parameter, answering 400 when it is malformed.
func (s *Server) param(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := pathParam(r, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter %s: %s", name, err), http.StatusBadRequest)
		return "", false
	}
	return v, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrUnknownScreen):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownIntent), errors.Is(err, domain.ErrInvalidIntent):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
