package step

import "time"

// Transition describes one Set on a container.
type Transition struct {
	Screen string    `json:"screen"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
}

// Hooks are observability callbacks run when a step is accepted or rejected.
// OnTransition runs before the step is delivered to subscribers.
type Hooks struct {
	OnTransition func(Transition)
	OnRejected   func(Transition)
}

func (h Hooks) transitioned(t Transition) {
	if h.OnTransition != nil {
		h.OnTransition(t)
	}
}

func (h Hooks) rejected(t Transition) {
	if h.OnRejected != nil {
		h.OnRejected(t)
	}
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnTransition: func(t Transition) {
			h.transitioned(t)
			other.transitioned(t)
		},
		OnRejected: func(t Transition) {
			h.rejected(t)
			other.rejected(t)
		},
	}
}
