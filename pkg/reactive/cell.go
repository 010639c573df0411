package reactive

// Stream is the read side of anything that delivers values to subscribers.
type Stream[T any] interface {
	Subscribe(fn func(T)) *Subscription
}

// Value is the read side of a Cell: a Stream that also has a current value.
type Value[T any] interface {
	Stream[T]
	Get() T
}

// Cell holds a current value and notifies subscribers on every assignment.
type Cell[T any] struct {
	e     emitter[T]
	value T
}

var _ Value[int] = (*Cell[int])(nil)

// NewCell creates a cell seeded with initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the most recently assigned value.
func (c *Cell[T]) Get() T {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	return c.value
}

// Set assigns v and delivers it to every subscriber, even when v equals the
// previous value. When called from inside one of this cell's subscriber
// callbacks the delivery is queued behind the one in progress.
func (c *Cell[T]) Set(v T) {
	c.e.mu.Lock()
	c.value = v
	c.e.emitLocked(v)
}

// Subscribe calls fn with the current value before returning, then with every
// later assignment.
func (c *Cell[T]) Subscribe(fn func(T)) *Subscription {
	c.e.mu.Lock()
	_, sub := c.e.addLocked(fn)
	current := c.value
	c.e.mu.Unlock()

	fn(current)
	return sub
}

// Subscribers reports the number of active subscriptions.
func (c *Cell[T]) Subscribers() int {
	return c.e.count()
}

// Reader returns c as a read-only Value.
func (c *Cell[T]) Reader() Value[T] {
	return c
}

// SetIfChanged assigns v only when it differs from the current value.
// Cells notify on every assignment; this is the opt-in equality gate.
func SetIfChanged[T comparable](c *Cell[T], v T) bool {
	if c.Get() == v {
		return false
	}
	c.Set(v)
	return true
}
