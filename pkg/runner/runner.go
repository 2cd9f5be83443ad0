package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/engine"
)

var (
	// ErrStepLimit is returned when a run is still active after the step limit.
	ErrStepLimit = errors.New("step limit reached")
	// ErrStuck is returned when a permissive machine meets an undefined
	// transition. Further steps could not change its state.
	ErrStuck = errors.New("machine stuck on undefined transition")
)

// Runner executes configurations to completion.
// A Runner holds no per-run state and is safe for concurrent use.
type Runner[S comparable] struct {
	policy   engine.Policy
	maxSteps uint64
	logger   *slog.Logger
	hooks    engine.Hooks[S]
	trace    bool
}

// Result is the outcome of a run.
type Result[S comparable] struct {
	Status   domain.Status               `json:"status"`
	Steps    uint64                      `json:"steps"`
	State    domain.StateID              `json:"state"`
	Head     int64                       `json:"head"`
	Tape     []S                         `json:"tape"`
	Origin   int64                       `json:"origin"` // address of Tape[0]
	Trace    []engine.TransitionEvent[S] `json:"trace,omitempty"`
	Duration time.Duration               `json:"duration"`
}

// New creates a Runner.
func New[S comparable](opts ...Option[S]) *Runner[S] {
	r := &Runner[S]{
		policy:   engine.PolicyStrict,
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured policy.
func (r *Runner[S]) Policy() engine.Policy { return r.policy }

// MaxSteps returns the configured step limit.
func (r *Runner[S]) MaxSteps() uint64 { return r.maxSteps }

// Run executes conf on input until the machine halts. Under
// PolicyPermissive an undefined transition leaves the machine active, and
// the run ends with ErrStuck. The partial Result is returned alongside
// ErrStepLimit, ErrStuck and context errors.
func (r *Runner[S]) Run(ctx context.Context, conf *domain.Configuration[S], blank S, input []S) (*Result[S], error) {
	res := &Result[S]{}
	hooks := r.hooks
	if r.trace {
		hooks = engine.MergeHooks(hooks, engine.Hooks[S]{
			OnTransition: func(e engine.TransitionEvent[S]) {
				res.Trace = append(res.Trace, e)
			},
		})
	}

	m, err := engine.New(conf, blank, r.policy, engine.WithHooks(hooks))
	if err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}
	m.Initialize(input)

	started := time.Now()
	r.logger.Debug("run started", "start", conf.StartState(), "policy", r.policy.String(), "input_len", len(input))

	runErr := r.loop(ctx, m)

	res.Duration = time.Since(started)
	res.Status = m.Status()
	res.Steps = m.Steps()
	res.State = m.StateID()
	res.Head = m.Address()
	if cells, origin, err := m.Tape().Dense(); err == nil {
		res.Tape = cells
		res.Origin = origin
	}

	if runErr != nil {
		r.logger.Warn("run stopped", "steps", res.Steps, "state", res.State, "error", runErr)
		return res, runErr
	}
	r.logger.Info("run halted", "status", res.Status.String(), "steps", res.Steps, "state", res.State, "duration", res.Duration)
	return res, nil
}

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

func (r *Runner[S]) loop(ctx context.Context, m *engine.Machine[S]) error {
	for m.Status() == domain.StatusActive {
		if m.Steps()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if r.maxSteps > 0 && m.Steps() >= r.maxSteps {
			return fmt.Errorf("%w: %d", ErrStepLimit, r.maxSteps)
		}
		before := m.Steps()
		if err := m.Step(); err != nil {
			return err
		}
		if m.Steps() == before && m.Status() == domain.StatusActive {
			return fmt.Errorf("%w: state %d at address %d", ErrStuck, m.StateID(), m.Address())
		}
	}
	return nil
}
