// Package fsm holds explicit status transition tables.
package fsm

import (
	"fmt"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

type Machine[S ~string] struct {
	name  string
	edges map[S][]S // to -> allowed from
}

// Transition is one allowed edge of a Machine.
type Transition[S ~string] struct {
	From S
	To   S
}

func New[S ~string](name string, transitions ...Transition[S]) *Machine[S] {
	m := &Machine[S]{name: name, edges: make(map[S][]S)}
	for _, t := range transitions {
		m.edges[t.To] = append(m.edges[t.To], t.From)
	}
	return m
}

// Sources returns the statuses from which to is reachable, or an error
// wrapping ErrNotFoundOrState if no edge leads to it.
func (m *Machine[S]) Sources(to S) ([]S, error) {
	from, ok := m.edges[to]
	if !ok {
		return nil, fmt.Errorf("%s cannot move to %q: %w", m.name, to, apperrors.ErrNotFoundOrState)
	}
	return from, nil
}

func (m *Machine[S]) Can(from, to S) bool {
	for _, s := range m.edges[to] {
		if s == from {
			return true
		}
	}
	return false
}

// Check returns nil if from -> to is an allowed edge.
func (m *Machine[S]) Check(from, to S) error {
	if !m.Can(from, to) {
		return fmt.Errorf("%s cannot move from %q to %q: %w", m.name, from, to, apperrors.ErrNotFoundOrState)
	}
	return nil
}

// Strings converts statuses for use as a query parameter.
func Strings[S ~string](ss []S) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
