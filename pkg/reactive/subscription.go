package reactive

import "sync"

// Subscription is the handle returned by Subscribe.
// Cancel stops further deliveries and is safe to call more than once.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel detaches the subscriber. A delivery already in progress for this
// subscriber completes, but no later value is delivered.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Bag collects subscriptions that share a lifetime and cancels them together.
// The zero value is ready to use.
type Bag struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add keeps the given subscriptions until Cancel is called.
func (b *Bag) Add(subs ...*Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subs...)
}

// Len reports how many subscriptions are held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Cancel cancels every held subscription in reverse order of addition and empties the bag.
func (b *Bag) Cancel() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}
