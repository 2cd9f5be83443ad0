package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Transition moves the machine to Target when the symbol under the head is
// one of Inputs. It writes Output and then moves the head by Action.
//
// The source state is not stored on the transition; a State files each
// transition under its Target.
type Transition[S comparable] struct {
	target StateID
	action Action
	output S
	inputs []S
}

// NewTransition creates a transition. Duplicate input symbols are dropped,
// first occurrence wins.
func NewTransition[S comparable](target StateID, action Action, output S, inputs ...S) Transition[S] {
	t := Transition[S]{
		target: target,
		action: action,
		output: output,
	}
	return t.WithInputs(inputs...)
}

// Target is the id of the state entered after the transition.
func (t Transition[S]) Target() StateID { return t.target }

// Action is the head movement.
func (t Transition[S]) Action() Action { return t.action }

// Output is the symbol written to the current cell.
func (t Transition[S]) Output() S { return t.output }

// Inputs returns a copy of the triggering symbols in insertion order.
func (t Transition[S]) Inputs() []S { return slices.Clone(t.inputs) }

// Matches reports whether symbol triggers the transition.
func (t Transition[S]) Matches(symbol S) bool {
	return slices.Contains(t.inputs, symbol)
}

// WithInputs returns a copy of t that also triggers on symbols.
func (t Transition[S]) WithInputs(symbols ...S) Transition[S] {
	merged := make([]S, 0, len(t.inputs)+len(symbols))
	merged = append(merged, t.inputs...)
	for _, s := range symbols {
		if !slices.Contains(merged, s) {
			merged = append(merged, s)
		}
	}
	t.inputs = merged
	return t
}

// WithoutInput returns a copy of t that no longer triggers on symbol.
// Removing the last input leaves a transition that never fires, which
// State refuses to store.
func (t Transition[S]) WithoutInput(symbol S) Transition[S] {
	t.inputs = slices.DeleteFunc(slices.Clone(t.inputs), func(s S) bool { return s == symbol })
	return t
}

// Equal compares two transitions ignoring input order.
func (t Transition[S]) Equal(o Transition[S]) bool {
	if t.target != o.target || t.action != o.action || t.output != o.output || len(t.inputs) != len(o.inputs) {
		return false
	}
	for _, s := range t.inputs {
		if !slices.Contains(o.inputs, s) {
			return false
		}
	}
	return true
}

func (t Transition[S]) String() string {
	quoted := make([]string, len(t.inputs))
	for i, s := range t.inputs {
		quoted[i] = fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("'%s'  -->  (%s, '%v', %d)", strings.Join(quoted, "', '"), t.action, t.output, t.target)
}
