package engine

import (
	"github.com/aretw0/turing/pkg/domain"
)

// TransitionEvent describes one transition taken by a machine.
type TransitionEvent[S comparable] struct {
	Step    uint64         `json:"step"`
	From    domain.StateID `json:"from"`
	To      domain.StateID `json:"to"`
	Address int64          `json:"address"` // head position before the move
	Read    S              `json:"read"`
	Written S              `json:"written"`
	Action  domain.Action  `json:"action"`
}

// HaltEvent is emitted once, when a machine leaves the active status.
type HaltEvent struct {
	Status  domain.Status  `json:"status"`
	State   domain.StateID `json:"state"`
	Address int64          `json:"address"`
	Steps   uint64         `json:"steps"`
}

// UndefinedEvent is emitted when no usable transition exists for the
// current state and symbol.
type UndefinedEvent[S comparable] struct {
	State   domain.StateID
	Address int64
	Symbol  S
	Err     error
}

// Hooks are optional observers. They have no effect on execution.
type Hooks[S comparable] struct {
	OnTransition func(TransitionEvent[S])
	OnUndefined  func(UndefinedEvent[S])
	OnHalt       func(HaltEvent)
}

// MergeHooks combines hooks so that each callback runs in argument order.
func MergeHooks[S comparable](hooks ...Hooks[S]) Hooks[S] {
	var out Hooks[S]
	for _, h := range hooks {
		prev, h := out, h
		if h.OnTransition != nil {
			out.OnTransition = func(e TransitionEvent[S]) {
				if prev.OnTransition != nil {
					prev.OnTransition(e)
				}
				h.OnTransition(e)
			}
		}
		if h.OnUndefined != nil {
			out.OnUndefined = func(e UndefinedEvent[S]) {
				if prev.OnUndefined != nil {
					prev.OnUndefined(e)
				}
				h.OnUndefined(e)
			}
		}
		if h.OnHalt != nil {
			out.OnHalt = func(e HaltEvent) {
				if prev.OnHalt != nil {
					prev.OnHalt(e)
				}
				h.OnHalt(e)
			}
		}
	}
	return out
}
