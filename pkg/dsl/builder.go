package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages program construction.
type Builder struct {
	prog   *Program
	states map[domain.StateID]*StateBuilder
	order  []domain.StateID
	errs   []error
}

// NewBuilder creates a builder whose charset holds the runes of charset.
func NewBuilder(charset string) *Builder {
	b := &Builder{
		prog:   NewProgram(),
		states: make(map[domain.StateID]*StateBuilder),
	}
	if err := b.prog.AddSymbols([]rune(charset)...); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Blank sets the blank symbol.
func (b *Builder) Blank(r rune) *Builder {
	if err := b.prog.SetBlank(r); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Memory sets the initial tape content.
func (b *Builder) Memory(s string) *Builder {
	if err := b.prog.SetMemory(s); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// State returns the builder for state id, creating it if needed.
func (b *Builder) State(id domain.StateID) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles the program. It reports every symbol or structure error
// collected while building.
func (b *Builder) Build() (*Program, error) {
	prog := &Program{
		Config:  domain.NewConfiguration[rune](),
		Charset: b.prog.Charset,
		Blank:   b.prog.Blank,
		Memory:  b.prog.Memory,
	}
	errs := append([]error(nil), b.errs...)
	for _, id := range b.order {
		sb := b.states[id]
		prog.Config.AddState(domain.NewState[rune](id, sb.acceptance))
		if sb.start {
			prog.Config.SetStartState(id)
		}
	}
	for _, id := range b.order {
		for _, t := range b.states[id].transitions {
			if unknown := prog.Unknown(append(t.inputs, t.output)...); len(unknown) > 0 {
				errs = append(errs, fmt.Errorf("state %d: %w", id, unknownError(unknown)))
				continue
			}
			if len(t.inputs) == 0 {
				errs = append(errs, fmt.Errorf("state %d: %w: transition without input symbols", id, ErrSyntax))
				continue
			}
			if err := prog.Config.AddTransition(id, t.target, t.action, t.output, t.inputs...); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build program: %w", errors.Join(errs...))
	}
	return prog, nil
}

// StateBuilder configures one state.
type StateBuilder struct {
	id          domain.StateID
	builder     *Builder
	acceptance  domain.Acceptance
	start       bool
	transitions []*TransitionBuilder
}

// Start marks the state as the start state.
func (s *StateBuilder) Start() *StateBuilder {
	for _, other := range s.builder.states {
		other.start = false
	}
	s.start = true
	return s
}

// Accept marks the state as accepting.
func (s *StateBuilder) Accept() *StateBuilder {
	s.acceptance = domain.Accept
	return s
}

// Reject marks the state as rejecting.
func (s *StateBuilder) Reject() *StateBuilder {
	s.acceptance = domain.Reject
	return s
}

// On starts a transition triggered by any rune of inputs.
func (s *StateBuilder) On(inputs string) *TransitionBuilder {
	t := &TransitionBuilder{state: s, inputs: []rune(inputs)}
	s.transitions = append(s.transitions, t)
	return t
}

// TransitionBuilder configures one transition.
type TransitionBuilder struct {
	state  *StateBuilder
	inputs []rune
	output rune
	action domain.Action
	target domain.StateID
}

// Write sets the output symbol.
func (t *TransitionBuilder) Write(r rune) *TransitionBuilder {
	t.output = r
	return t
}

// Left moves the head left after writing.
func (t *TransitionBuilder) Left() *TransitionBuilder {
	t.action = domain.MoveLeft
	return t
}

// Right moves the head right after writing.
func (t *TransitionBuilder) Right() *TransitionBuilder {
	t.action = domain.MoveRight
	return t
}

// Stay keeps the head in place.
func (t *TransitionBuilder) Stay() *TransitionBuilder {
	t.action = domain.ActionNone
	return t
}

// Go sets the target state and returns to the source state builder.
func (t *TransitionBuilder) Go(target domain.StateID) *StateBuilder {
	t.target = target
	return t.state
}
