// Package snapshot implements copy-on-write editing of nested configuration
// values: take a deep copy, mutate the copy, then swap it in atomically or
// throw it away.
//
// Copies are made with github.com/mohae/deepcopy, which only copies exported
// fields. Types edited through an Editor must keep their state in exported
// fields.
package snapshot

import (
	"errors"
	"sync"

	"github.com/mohae/deepcopy"
)

// ErrNotEditing is returned by Edit and Commit when no draft is open.
var ErrNotEditing = errors.New("no edit in progress")

// Editor guards one value. Readers always see the last committed value; edits
// go to a private draft until Commit.
type Editor[T any] struct {
	mu      sync.Mutex
	current T
	draft   *T
}

// NewEditor creates an editor whose committed value is a deep copy of initial.
func NewEditor[T any](initial T) *Editor[T] {
	return &Editor[T]{current: Copy(initial)}
}

// Copy returns a deep copy of v.
func Copy[T any](v T) T {
	c, ok := deepcopy.Copy(v).(T)
	if !ok {
		// Only reachable for nil interface values; the zero value is the copy.
		var zero T
		return zero
	}
	return c
}

// Current returns a deep copy of the committed value.
func (e *Editor[T]) Current() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Copy(e.current)
}

// Begin opens a draft copied from the committed value, replacing any open draft.
func (e *Editor[T]) Begin() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	draft := Copy(e.current)
	e.draft = &draft
	return Copy(draft)
}

// Draft returns a deep copy of the open draft.
func (e *Editor[T]) Draft() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		var zero T
		return zero, false
	}
	return Copy(*e.draft), true
}

// Edit mutates the open draft in place.
func (e *Editor[T]) Edit(fn func(draft *T)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return ErrNotEditing
	}
	fn(e.draft)
	return nil
}

// Commit makes the draft the committed value and closes it.
func (e *Editor[T]) Commit() (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		var zero T
		return zero, ErrNotEditing
	}
	e.current = *e.draft
	e.draft = nil
	return Copy(e.current), nil
}

// Discard drops the draft, if any.
func (e *Editor[T]) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
}
