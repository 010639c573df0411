package step

import (
	"cmp"
	"slices"
)

// Table lists the allowed moves between step names.
// Staying on the same step name is always allowed.
type Table struct {
	allowed map[string]map[string]struct{}
}

// NewTable creates an empty table. An empty table only permits self transitions.
func NewTable() *Table {
	return &Table{allowed: make(map[string]map[string]struct{})}
}

// Allow permits moving from one step name to each of the given targets.
func (t *Table) Allow(from string, to ...string) *Table {
	targets, ok := t.allowed[from]
	if !ok {
		targets = make(map[string]struct{}, len(to))
		t.allowed[from] = targets
	}
	for _, name := range to {
		targets[name] = struct{}{}
	}
	return t
}

// Permits reports whether from → to is allowed.
func (t *Table) Permits(from, to string) bool {
	if from == to {
		return true
	}
	_, ok := t.allowed[from][to]
	return ok
}

// Move is one permitted transition.
type Move struct {
	From string
	To   string
}

// Moves lists the permitted transitions sorted by From, then To.
func (t *Table) Moves() []Move {
	var moves []Move
	for from, targets := range t.allowed {
		for to := range targets {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	slices.SortFunc(moves, func(a, b Move) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return moves
}
