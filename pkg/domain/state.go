package domain

import (
	"fmt"
	"slices"
)

// State is a node of the finite control. It owns at most one Transition per
// target state; adding a second transition to the same target merges the
// input symbols into the existing one.
type State[S comparable] struct {
	id          StateID
	acceptance  Acceptance
	transitions []Transition[S]
}

// NewState creates a state and files the given transitions.
func NewState[S comparable](id StateID, acceptance Acceptance, transitions ...Transition[S]) State[S] {
	s := State[S]{id: id, acceptance: acceptance}
	for _, t := range transitions {
		s = s.WithTransition(t)
	}
	return s
}

// ID returns the state id.
func (s State[S]) ID() StateID { return s.id }

// Acceptance returns the acceptance tag.
func (s State[S]) Acceptance() Acceptance { return s.acceptance }

// WithAcceptance returns a copy of s with the given acceptance tag.
func (s State[S]) WithAcceptance(a Acceptance) State[S] {
	s.acceptance = a
	return s
}

// Len returns the number of transitions.
func (s State[S]) Len() int { return len(s.transitions) }

// Transitions returns the transitions in insertion order.
func (s State[S]) Transitions() []Transition[S] { return slices.Clone(s.transitions) }

func (s State[S]) indexOf(target StateID) int {
	return slices.IndexFunc(s.transitions, func(t Transition[S]) bool { return t.target == target })
}

// TransitionTo returns the transition filed under target.
func (s State[S]) TransitionTo(target StateID) (Transition[S], bool) {
	if i := s.indexOf(target); i >= 0 {
		return s.transitions[i], true
	}
	return Transition[S]{}, false
}

// Match returns the first transition, in insertion order, triggered by symbol.
func (s State[S]) Match(symbol S) (Transition[S], bool) {
	for _, t := range s.transitions {
		if t.Matches(symbol) {
			return t, true
		}
	}
	return Transition[S]{}, false
}

// WithTransition returns a copy of s with t filed under its target. If a
// transition to the same target exists, t's inputs are merged into it and
// its output and action are kept. A transition without inputs is ignored.
func (s State[S]) WithTransition(t Transition[S]) State[S] {
	if len(t.inputs) == 0 {
		return s
	}
	next := slices.Clone(s.transitions)
	if i := s.indexOf(t.target); i >= 0 {
		next[i] = next[i].WithInputs(t.inputs...)
	} else {
		next = append(next, t.WithInputs())
	}
	s.transitions = next
	return s
}

// SetTransition returns a copy of s where the transition under key is
// replaced by t. t must target key and have at least one input.
func (s State[S]) SetTransition(key StateID, t Transition[S]) (State[S], error) {
	if t.target != key {
		return s, fmt.Errorf("%w: transition target %d must equal key %d", ErrInvalidArgument, t.target, key)
	}
	if len(t.inputs) == 0 {
		return s, fmt.Errorf("%w: transition to %d has no input symbols", ErrInvalidArgument, key)
	}
	next := slices.Clone(s.transitions)
	if i := s.indexOf(key); i >= 0 {
		next[i] = t.WithInputs()
	} else {
		next = append(next, t.WithInputs())
	}
	s.transitions = next
	return s, nil
}

// WithoutTransition returns a copy of s without the transition to target.
func (s State[S]) WithoutTransition(target StateID) State[S] {
	s.transitions = slices.DeleteFunc(slices.Clone(s.transitions), func(t Transition[S]) bool { return t.target == target })
	return s
}

// Cleared returns a copy of s without transitions.
func (s State[S]) Cleared() State[S] {
	s.transitions = nil
	return s
}

// Equal compares id, acceptance and the transition set, ignoring order.
func (s State[S]) Equal(o State[S]) bool {
	if s.id != o.id || s.acceptance != o.acceptance || len(s.transitions) != len(o.transitions) {
		return false
	}
	for _, t := range s.transitions {
		other, ok := o.TransitionTo(t.target)
		if !ok || !t.Equal(other) {
			return false
		}
	}
	return true
}

func (s State[S]) String() string {
	prefix := ""
	switch s.acceptance {
	case Accept:
		prefix = "[ACC.] "
	case Reject:
		prefix = "[REJ.] "
	}
	return fmt.Sprintf("%s%d (%d Transition[s])", prefix, s.id, len(s.transitions))
}
