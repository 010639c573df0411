package screen

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/asgeY/poet/pkg/reactive"
)

// Owner is the exclusive, lifetime-defining reference to a screen's evaluator.
// It lives in the screen's root scope; presentation gets a Handle instead.
type Owner[E any] struct {
	mu        sync.Mutex
	evaluator *E
	bag       reactive.Bag
	closers   []func()
	closed    *atomic.Bool
}

// Own takes ownership of evaluator and of any subscriptions tied to its lifetime.
func Own[E any](evaluator *E, subs ...*reactive.Subscription) *Owner[E] {
	o := &Owner[E]{
		evaluator: evaluator,
		closed:    new(atomic.Bool),
	}
	o.bag.Add(subs...)
	return o
}

// Evaluator returns the owned evaluator, or nil after Close.
func (o *Owner[E]) Evaluator() *E {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.evaluator
}

// Keep ties more subscriptions to the screen's lifetime.
func (o *Owner[E]) Keep(subs ...*reactive.Subscription) {
	o.bag.Add(subs...)
}

// OnClose registers fn to run during Close, in reverse order of registration.
func (o *Owner[E]) OnClose(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closers = append(o.closers, fn)
}

// Handle returns a non-owning reference for presentation.
func (o *Owner[E]) Handle() Handle[E] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Handle[E]{ref: weak.Make(o.evaluator), closed: o.closed}
}

// Close cancels every kept subscription, runs the close hooks and drops the
// strong reference. Handles stop resolving immediately.
func (o *Owner[E]) Close() {
	if o.closed.Swap(true) {
		return
	}

	o.mu.Lock()
	closers := o.closers
	o.closers = nil
	o.evaluator = nil
	o.mu.Unlock()

	o.bag.Cancel()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// Closed reports whether Close has run.
func (o *Owner[E]) Closed() bool {
	return o.closed.Load()
}

// Handle is a weak reference to an evaluator. Holding one never keeps the
// evaluator alive.
type Handle[E any] struct {
	ref    weak.Pointer[E]
	closed *atomic.Bool
}

// Evaluator resolves the handle. It reports false once the owner has been
// closed or the evaluator collected.
func (h Handle[E]) Evaluator() (*E, bool) {
	if h.closed == nil || h.closed.Load() {
		return nil, false
	}
	e := h.ref.Value()
	return e, e != nil
}
