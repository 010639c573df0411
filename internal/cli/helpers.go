package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/internal/presentation/tui"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/session"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

var errInterrupted = errors.New("interrupted")

// InterruptibleReader wraps an io.Reader (like os.Stdin) and checks for a cancellation signal.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}

	// Read (This blocks!)
	n, err = r.base.Read(p)

	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}
	return n, err
}

// Fd exposes the wrapped file descriptor so terminal detection still works.
func (r *InterruptibleReader) Fd() uintptr {
	if f, ok := r.base.(fileDescriptor); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

type fileDescriptor interface {
	Fd() uintptr
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, errInterrupted) ||
		errors.Is(err, io.EOF)
}

// HandleExecutionError turns interruptions into a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// Terminal is where a presenter reads commands and writes its view.
// Output may come from the screen loop and the reading goroutine at once,
// so every write goes through the same lock.
type Terminal struct {
	Render tui.Renderer
	Logger *slog.Logger

	in    io.Reader
	lines *bufio.Scanner
	mu    sync.Mutex
	out   io.Writer
}

// NewTerminal reads lines from in and writes to out. Alerts are rendered as
// plain markdown until Render is replaced.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		Render: tui.PlainRenderer,
		Logger: logging.NewNop(),
		in:     in,
		lines:  bufio.NewScanner(in),
		out:    out,
	}
}

// Printf writes formatted output.
func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// System prints a standardized system message.
func (t *Terminal) System(format string, args ...any) {
	t.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// Alert renders a through the terminal's renderer.
func (t *Terminal) Alert(a screen.Alert) {
	t.Printf("%s\n", strings.TrimRight(tui.RenderAlert(t.Render, a), "\n"))
}

// Bezel prints a transient confirmation.
func (t *Terminal) Bezel(b screen.Bezel) {
	t.Printf("%s\n", tui.Bezel(b))
}

// ReadLine prints prompt and returns the next trimmed, sanitized line.
// It returns io.EOF when input is exhausted.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.Printf("%s", prompt)
	if !t.lines.Scan() {
		if err := t.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return session.SanitizeText(strings.TrimSpace(t.lines.Text()))
}

// ReadSecret reads a line without echo when input is an interactive terminal.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	f, ok := t.in.(fileDescriptor)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return t.ReadLine(prompt)
	}
	t.Printf("%s", prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	t.Printf("\n")
	if err != nil {
		return "", err
	}
	return session.SanitizeText(strings.TrimSpace(string(b)))
}

// startLoop runs a screen loop until the returned stop function is called or
// ctx ends. stop waits for the loop goroutine to exit.
func startLoop(ctx context.Context) (*screen.Loop, func()) {
	loop := screen.NewLoop()
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		_ = loop.Run(ctx)
	}()
	return loop, func() {
		loop.Stop()
		<-exited
	}
}

// notify delivers to a one-slot channel without blocking the screen loop.
func notify[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
