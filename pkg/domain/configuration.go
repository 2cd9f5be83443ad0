package domain

import (
	"fmt"
	"slices"
)

// Configuration is the finite control of a machine: every State keyed by
// its id plus the id of the start state.
//
// A Configuration has no internal synchronization. It may be shared by any
// number of engines as long as nobody mutates it while they run.
type Configuration[S comparable] struct {
	states map[StateID]State[S]
	order  []StateID
	start  StateID
}

// NewConfiguration creates an empty Configuration.
func NewConfiguration[S comparable]() *Configuration[S] {
	return &Configuration[S]{
		states: make(map[StateID]State[S]),
	}
}

// StartState returns the start state id. It is not checked against the
// state set until an engine is built from the Configuration.
func (c *Configuration[S]) StartState() StateID { return c.start }

// SetStartState sets the start state id.
func (c *Configuration[S]) SetStartState(id StateID) { c.start = id }

// Len returns the number of states.
func (c *Configuration[S]) Len() int { return len(c.states) }

// IDs returns the state ids in insertion order.
func (c *Configuration[S]) IDs() []StateID { return slices.Clone(c.order) }

// States returns the states in insertion order.
func (c *Configuration[S]) States() []State[S] {
	out := make([]State[S], 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.states[id])
	}
	return out
}

// SetState stores state under key. The state's id must equal key.
func (c *Configuration[S]) SetState(key StateID, state State[S]) error {
	if state.id != key {
		return fmt.Errorf("%w: state id %d must equal key %d", ErrInvalidArgument, state.id, key)
	}
	if _, ok := c.states[key]; !ok {
		c.order = append(c.order, key)
	}
	c.states[key] = state
	return nil
}

// AddState stores state under its own id, replacing any previous state
// with that id.
func (c *Configuration[S]) AddState(state State[S]) {
	_ = c.SetState(state.id, state)
}

// AddStates stores every state under its own id.
func (c *Configuration[S]) AddStates(states ...State[S]) {
	for _, s := range states {
		c.AddState(s)
	}
}

// State returns the state with the given id.
func (c *Configuration[S]) State(id StateID) (State[S], error) {
	s, ok := c.states[id]
	if !ok {
		return State[S]{}, fmt.Errorf("%w: %d", ErrStateNotFound, id)
	}
	return s, nil
}

// RemoveState removes and returns the state with the given id.
func (c *Configuration[S]) RemoveState(id StateID) (State[S], error) {
	s, err := c.State(id)
	if err != nil {
		return s, err
	}
	delete(c.states, id)
	c.order = slices.DeleteFunc(c.order, func(k StateID) bool { return k == id })
	return s, nil
}

// AddTransition files a transition from one state to another. Inputs are
// merged into an existing transition with the same target. The target
// state does not need to exist yet. At least one input symbol is required.
func (c *Configuration[S]) AddTransition(from, to StateID, action Action, output S, inputs ...S) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: transition %d -> %d has no input symbols", ErrInvalidArgument, from, to)
	}
	s, err := c.State(from)
	if err != nil {
		return err
	}
	c.states[from] = s.WithTransition(NewTransition(to, action, output, inputs...))
	return nil
}

// Transition returns the transition taken from state from when symbol is
// read. When several transitions list the symbol, the one added first wins.
func (c *Configuration[S]) Transition(from StateID, symbol S) (Transition[S], error) {
	s, err := c.State(from)
	if err != nil {
		return Transition[S]{}, err
	}
	t, ok := s.Match(symbol)
	if !ok {
		return Transition[S]{}, fmt.Errorf("%w: state %d, symbol %v", ErrTransitionNotFound, from, symbol)
	}
	return t, nil
}

// ClearTransitions removes every transition of state from.
func (c *Configuration[S]) ClearTransitions(from StateID) error {
	s, err := c.State(from)
	if err != nil {
		return err
	}
	c.states[from] = s.Cleared()
	return nil
}

// ClearAllTransitions removes the transitions of every state.
func (c *Configuration[S]) ClearAllTransitions() {
	for id, s := range c.states {
		c.states[id] = s.Cleared()
	}
}

// Clear removes every state.
func (c *Configuration[S]) Clear() {
	c.states = make(map[StateID]State[S])
	c.order = nil
}

// Equal compares the state sets and start ids, ignoring insertion order.
func (c *Configuration[S]) Equal(o *Configuration[S]) bool {
	if c.start != o.start || len(c.states) != len(o.states) {
		return false
	}
	for id, s := range c.states {
		other, ok := o.states[id]
		if !ok || !s.Equal(other) {
			return false
		}
	}
	return true
}

// Validate checks the structural rules that are otherwise only enforced
// lazily at execution time: the start state exists, every transition
// targets an existing state, and no symbol triggers two transitions of the
// same state. It does not alter how an engine resolves transitions.
func (c *Configuration[S]) Validate() error {
	var errs []error
	if _, ok := c.states[c.start]; !ok {
		errs = append(errs, &ValidationError{State: c.start, Reason: "start state is not defined"})
	}
	for _, id := range c.order {
		s := c.states[id]
		seen := make(map[S]StateID)
		for _, t := range s.transitions {
			if _, ok := c.states[t.target]; !ok {
				errs = append(errs, &ValidationError{State: id, Reason: fmt.Sprintf("transition targets undefined state %d", t.target)})
			}
			for _, sym := range t.inputs {
				if prev, dup := seen[sym]; dup {
					errs = append(errs, &ValidationError{
						State:  id,
						Reason: fmt.Sprintf("symbol %v triggers transitions to %d and %d", sym, prev, t.target),
					})
					continue
				}
				seen[sym] = t.target
			}
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
