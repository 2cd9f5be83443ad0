package observability

import (
	"log/slog"

	"github.com/aretw0/turing/pkg/engine"
)

// LoggingHooks returns engine hooks that log each event. Transitions are
// logged at debug level.
func LoggingHooks[S comparable](logger *slog.Logger) engine.Hooks[S] {
	return engine.Hooks[S]{
		OnTransition: func(e engine.TransitionEvent[S]) {
			logger.Debug("transition",
				"step", e.Step,
				"from", e.From,
				"to", e.To,
				"address", e.Address,
				"read", e.Read,
				"written", e.Written,
				"action", e.Action.String(),
			)
		},
		OnUndefined: func(e engine.UndefinedEvent[S]) {
			logger.Info("undefined transition",
				"state", e.State,
				"address", e.Address,
				"symbol", e.Symbol,
				"error", e.Err,
			)
		},
		OnHalt: func(e engine.HaltEvent) {
			logger.Info("halt",
				"status", e.Status.String(),
				"state", e.State,
				"address", e.Address,
				"steps", e.Steps,
			)
		},
	}
}
