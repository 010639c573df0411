package reactive

// Channel delivers each sent value to the subscribers active at the time of
// sending. It stores nothing: a value sent with no subscribers is lost.
type Channel[T any] struct {
	e emitter[T]
}

var _ Stream[int] = (*Channel[int])(nil)

// NewChannel creates an event channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Send delivers v synchronously to the active subscribers, in subscription order.
func (c *Channel[T]) Send(v T) {
	c.e.mu.Lock()
	c.e.emitLocked(v)
}

// Subscribe registers fn for values sent from now on.
func (c *Channel[T]) Subscribe(fn func(T)) *Subscription {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	_, sub := c.e.addLocked(fn)
	return sub
}

// Subscribers reports the number of active subscriptions.
func (c *Channel[T]) Subscribers() int {
	return c.e.count()
}

// Reader returns c as a read-only Stream.
func (c *Channel[T]) Reader() Stream[T] {
	return c
}

// Please is a payload-free trigger, e.g. "dismiss now".
type Please struct {
	Channel[struct{}]
}

// NewPlease creates a trigger channel.
func NewPlease() *Please {
	return &Please{}
}

// Fire notifies the active subscribers.
func (p *Please) Fire() {
	p.Send(struct{}{})
}

// Forward re-sends every value from src on dst until the returned subscription is canceled.
func Forward[T any](src Stream[T], dst *Channel[T]) *Subscription {
	return src.Subscribe(dst.Send)
}
