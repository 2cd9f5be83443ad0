package runner

import (
	"log/slog"

	"github.com/aretw0/turing/pkg/engine"
)

// DefaultMaxSteps bounds a run when no limit is configured.
const DefaultMaxSteps = 1_000_000

// Option defines a functional option for configuring the Runner.
type Option[S comparable] func(*Runner[S])

// WithPolicy sets the undefined-transition policy.
func WithPolicy[S comparable](p engine.Policy) Option[S] {
	return func(r *Runner[S]) {
		r.policy = p
	}
}

// WithMaxSteps sets the step limit. Zero disables the limit.
func WithMaxSteps[S comparable](n uint64) Option[S] {
	return func(r *Runner[S]) {
		r.maxSteps = n
	}
}

// WithLogger configures the structured logger.
func WithLogger[S comparable](logger *slog.Logger) Option[S] {
	return func(r *Runner[S]) {
		r.logger = logger
	}
}

// WithHooks registers execution observers on every machine the runner creates.
func WithHooks[S comparable](h engine.Hooks[S]) Option[S] {
	return func(r *Runner[S]) {
		r.hooks = engine.MergeHooks(r.hooks, h)
	}
}

// WithTrace records every transition into Result.Trace.
func WithTrace[S comparable](enabled bool) Option[S] {
	return func(r *Runner[S]) {
		r.trace = enabled
	}
}
