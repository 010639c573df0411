package reactive

import (
	"slices"
	"sync"
	"sync/atomic"
)

type subscriber[T any] struct {
	fn       func(T)
	since    uint64 // deliveries with seq <= since predate the subscription
	canceled atomic.Bool
}

type delivery[T any] struct {
	seq   uint64
	value T
}

// emitter is the fan-out core shared by Cell and Channel.
type emitter[T any] struct {
	mu       sync.Mutex
	subs     []*subscriber[T]
	seq      uint64
	queue    []delivery[T]
	draining bool
}

// addLocked registers fn. The caller holds e.mu.
func (e *emitter[T]) addLocked(fn func(T)) (*subscriber[T], *Subscription) {
	s := &subscriber[T]{fn: fn, since: e.seq}
	e.subs = append(e.subs, s)
	return s, newSubscription(func() { e.remove(s) })
}

func (e *emitter[T]) remove(s *subscriber[T]) {
	s.canceled.Store(true)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = slices.DeleteFunc(e.subs, func(other *subscriber[T]) bool { return other == s })
}

// emitLocked enqueues v and, unless a fan-out is already running further up the
// stack, drains the queue. It is entered with e.mu held and returns with it released.
func (e *emitter[T]) emitLocked(v T) {
	e.seq++
	e.queue = append(e.queue, delivery[T]{seq: e.seq, value: v})
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	e.drain()
}

// drain delivers queued values in FIFO order. It is entered with e.mu held.
func (e *emitter[T]) drain() {
	finished := false
	defer func() {
		if !finished {
			// A subscriber panicked; reset so the emitter stays usable.
			e.mu.Lock()
			e.queue = nil
			e.draining = false
			e.mu.Unlock()
		}
	}()

	for len(e.queue) > 0 {
		d := e.queue[0]
		e.queue = e.queue[1:]
		subs := slices.Clone(e.subs)
		e.mu.Unlock()

		for _, s := range subs {
			if s.canceled.Load() || s.since >= d.seq {
				continue
			}
			s.fn(d.value)
		}

		e.mu.Lock()
	}
	e.queue = nil
	e.draining = false
	e.mu.Unlock()
	finished = true
}

func (e *emitter[T]) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
