// Package mcp exposes screen sessions as Model Context Protocol tools, so an
// agent can drive a screen the same way a human presenter would.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ScreensURI lists the screen kinds and open sessions.
const ScreensURI = "poet://screens"

// OpenArgs are the arguments of open_screen.
type OpenArgs struct {
	Kind string `json:"kind"`
}

// SessionArgs are the arguments of read_screen and close_screen.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// IntentArgs are the arguments of send_intent. Payload is a JSON object.
type IntentArgs struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Payload   string `json:"payload,omitempty"`
}

// PollArgs are the arguments of poll_events.
type PollArgs struct {
	SessionID string `json:"session_id"`
	WaitMS    int    `json:"wait_ms,omitempty"`
}

// EventsResponse answers poll_events.
type EventsResponse struct {
	SessionID string           `json:"session_id"`
	Events    []session.Update `json:"events"`
}

// maxPollWait bounds how long poll_events blocks.
const maxPollWait = 30 * time.Second

// ClosedResponse answers close_screen.
type ClosedResponse struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

// Server wraps a session.Manager as an MCP server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server over mgr.
func NewServer(mgr *session.Manager, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  mgr,
		mcpServer: server.NewMCPServer("poet-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("open_screen",
		mcp.WithDescription("Open a new screen session. Returns its id and the intents it accepts."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Screen kind, see poet://screens")),
		mcp.WithOutputSchema[session.Info](),
	), mcp.NewStructuredToolHandler(s.handleOpen))

	s.mcpServer.AddTool(mcp.NewTool("send_intent",
		mcp.WithDescription("Send a named intent to a screen session and return the resulting display state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from open_screen")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Intent name")),
		mcp.WithString("payload", mcp.Description("JSON object with the intent's fields (optional)")),
		mcp.WithOutputSchema[session.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleSend))

	s.mcpServer.AddTool(mcp.NewTool("read_screen",
		mcp.WithDescription("Read a screen session's current display state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[session.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleRead))

	s.mcpServer.AddTool(mcp.NewTool("poll_events",
		mcp.WithDescription("Collect the alerts, bezels and dismissals a screen raised since the last poll. "+
			"Sign-in and purchase results arrive this way, after send_intent returns."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithNumber("wait_ms", mcp.Description("Wait up to this long for an event when none is pending (max 30000)")),
		mcp.WithOutputSchema[EventsResponse](),
	), mcp.NewStructuredToolHandler(s.handlePoll))

	s.mcpServer.AddTool(mcp.NewTool("close_screen",
		mcp.WithDescription("Close a screen session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[ClosedResponse](),
	), mcp.NewStructuredToolHandler(s.handleClose))
}

func (s *Server) handleOpen(ctx context.Context, _ mcp.CallToolRequest, args OpenArgs) (session.Info, error) {
	info, err := s.sessions.Open(ctx, args.Kind)
	if err != nil {
		return session.Info{}, fmt.Errorf("open_screen failed: %w", err)
	}
	return info, nil
}

func (s *Server) handleSend(ctx context.Context, _ mcp.CallToolRequest, args IntentArgs) (session.Snapshot, error) {
	var payload map[string]any
	if args.Payload != "" {
		if err := json.Unmarshal([]byte(args.Payload), &payload); err != nil {
			s.logger.Warn("MCP send_intent: invalid payload", "err", err)
			return session.Snapshot{}, fmt.Errorf("payload must be a JSON object: %w", err)
		}
	}
	if err := s.sessions.Send(ctx, args.SessionID, args.Name, payload); err != nil {
		return session.Snapshot{}, fmt.Errorf("send_intent failed: %w", err)
	}
	return s.sessions.Snapshot(ctx, args.SessionID)
}

func (s *Server) handleRead(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.Snapshot, error) {
	snap, err := s.sessions.Snapshot(ctx, args.SessionID)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("read_screen failed: %w", err)
	}
	return snap, nil
}

func (s *Server) handlePoll(ctx context.Context, _ mcp.CallToolRequest, args PollArgs) (EventsResponse, error) {
	wait := min(time.Duration(max(args.WaitMS, 0))*time.Millisecond, maxPollWait)
	events, err := s.sessions.Events(ctx, args.SessionID, wait)
	if err != nil {
		return EventsResponse{}, fmt.Errorf("poll_events failed: %w", err)
	}
	if events == nil {
		events = []session.Update{}
	}
	return EventsResponse{SessionID: args.SessionID, Events: events}, nil
}

func (s *Server) handleClose(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (ClosedResponse, error) {
	if err := s.sessions.Close(ctx, args.SessionID); err != nil {
		return ClosedResponse{}, fmt.Errorf("close_screen failed: %w", err)
	}
	return ClosedResponse{SessionID: args.SessionID, Closed: true}, nil
}

type screensResource struct {
	Kinds    []string       `json:"kinds"`
	Sessions []session.Info `json:"sessions"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ScreensURI, "Screen kinds and open sessions",
		mcp.WithMIMEType("application/json"),
	), s.readScreens)
}

func (s *Server) readScreens(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(screensResource{Kinds: s.sessions.Kinds(), Sessions: s.sessions.List()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode screens: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ScreensURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
