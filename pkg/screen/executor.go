package screen

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Work runs away from the screen's logical thread and returns the completion
// to run back on it. A nil completion is allowed.
type Work func(ctx context.Context) (completion func())

// Executor moves collaborator work off the screen's thread and marshals the
// results back onto it.
type Executor interface {
	// Perform runs work asynchronously and then its completion on the screen thread.
	Perform(ctx context.Context, work Work)

	// After runs fn on the screen thread once d has elapsed. The returned
	// function cancels fn if the delay has not elapsed yet.
	After(d time.Duration, fn func()) (cancel func())
}

// Inline runs everything synchronously on the caller's goroutine: work, its
// completion and delayed functions (without waiting). Tests use it to drive
// screens deterministically.
//
// A delayed function scheduled while another one is running is queued and run
// by the outermost After once the current one returns, so a chain of timers
// runs in a loop instead of growing the stack.
type Inline struct {
	mu       sync.Mutex
	queue    []*delayed
	draining bool
}

type delayed struct {
	fn       func()
	canceled atomic.Bool
}

var _ Executor = (*Inline)(nil)

// NewInline returns an executor that runs everything on the caller.
func NewInline() *Inline {
	return &Inline{}
}

// Perform runs work and its completion before returning.
func (*Inline) Perform(ctx context.Context, work Work) {
	if done := work(ctx); done != nil {
		done()
	}
}

// After runs fn immediately, or right after the delayed function in progress.
func (x *Inline) After(_ time.Duration, fn func()) func() {
	d := &delayed{fn: fn}

	x.mu.Lock()
	x.queue = append(x.queue, d)
	if x.draining {
		x.mu.Unlock()
		return func() { d.canceled.Store(true) }
	}
	x.draining = true
	x.mu.Unlock()

	x.drain()
	return func() { d.canceled.Store(true) }
}

func (x *Inline) drain() {
	defer func() {
		x.mu.Lock()
		x.draining = false
		if r := recover(); r != nil {
			x.queue = nil
			x.mu.Unlock()
			panic(r)
		}
		x.mu.Unlock()
	}()

	for {
		x.mu.Lock()
		if len(x.queue) == 0 {
			x.mu.Unlock()
			return
		}
		d := x.queue[0]
		x.queue = x.queue[1:]
		x.mu.Unlock()

		if !d.canceled.Load() {
			d.fn()
		}
	}
}
