package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
)

// Engine is the high-level entry point for the turing library.
// It ties together program parsing, a program store and the runner.
// Safe for concurrent use.
type Engine struct {
	store    ports.ProgramStore
	logger   *slog.Logger
	policy   engine.Policy
	maxSteps uint64
	metrics  *observability.Metrics
	hooks    engine.Hooks[rune]
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the program store. The default is an in-memory store.
func WithStore(store ports.ProgramStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPolicy sets the default undefined-transition policy of runs.
func WithPolicy(p engine.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMaxSteps sets the default step limit of runs.
func WithMaxSteps(n uint64) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithHooks registers execution observers on every run.
func WithHooks(h engine.Hooks[rune]) Option {
	return func(e *Engine) {
		e.hooks = engine.MergeHooks(e.hooks, h)
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		policy:   engine.PolicyStrict,
		maxSteps: runner.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.metrics != nil {
		e.hooks = engine.MergeHooks(e.hooks, observability.MetricsHooks[rune](e.metrics))
	}
	return e
}

// Store returns the program store.
func (e *Engine) Store() ports.ProgramStore { return e.store }

// Parse parses program source text without structural validation.
func (e *Engine) Parse(src string) (*dsl.Program, error) {
	prog, err := dsl.ParseString(src)
	if err != nil {
		e.logger.Debug("parse failed", "error", err)
		return nil, err
	}
	return prog, nil
}

// Compile parses program source text and runs Program.Validate on it.
func (e *Engine) Compile(src string) (*dsl.Program, error) {
	prog, err := e.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

// Save stores prog under name.
func (e *Engine) Save(ctx context.Context, name string, prog *dsl.Program) error {
	if err := e.store.Save(ctx, name, prog); err != nil {
		return fmt.Errorf("failed to save program %s: %w", name, err)
	}
	e.logger.Info("program saved", "name", name, "states", prog.Config.Len())
	return nil
}

// Load returns the program stored under name.
func (e *Engine) Load(ctx context.Context, name string) (*dsl.Program, error) {
	return e.store.Load(ctx, name)
}

// Delete removes the program stored under name.
func (e *Engine) Delete(ctx context.Context, name string) error {
	return e.store.Delete(ctx, name)
}

// List returns the stored program names.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// RunRequest overrides the engine defaults for a single run.
type RunRequest struct {
	// Input replaces the program memory as initial tape when set.
	Input    *string `json:"input,omitempty"`
	Policy   string  `json:"policy,omitempty"`
	MaxSteps uint64  `json:"max_steps,omitempty"`
	Trace    bool    `json:"trace,omitempty"`
}

// TraceEntry is one transition of a traced run.
type TraceEntry struct {
	Step    uint64         `json:"step"`
	From    domain.StateID `json:"from"`
	To      domain.StateID `json:"to"`
	Address int64          `json:"address"`
	Read    string         `json:"read"`
	Written string         `json:"written"`
	Action  string         `json:"action"`
}

// RunResult is the outcome of a run over a rune program.
type RunResult struct {
	Status   string         `json:"status"`
	Steps    uint64         `json:"steps"`
	State    domain.StateID `json:"state"`
	Head     int64          `json:"head"`
	Origin   int64          `json:"origin"`
	Tape     string         `json:"tape"`
	Trace    []TraceEntry   `json:"trace,omitempty"`
	Duration time.Duration  `json:"duration_ns"`
	// Error is set when the run stopped before halting.
	Error string `json:"error,omitempty"`
}

// Run executes prog. When the run stops before halting, the partial result
// is returned together with the error.
func (e *Engine) Run(ctx context.Context, prog *dsl.Program, req RunRequest) (*RunResult, error) {
	policy := e.policy
	if req.Policy != "" {
		p, err := engine.ParsePolicy(req.Policy)
		if err != nil {
			return nil, err
		}
		policy = p
	}
	maxSteps := e.maxSteps
	if req.MaxSteps > 0 {
		maxSteps = req.MaxSteps
	}
	input := prog.Memory
	if req.Input != nil {
		if unknown := prog.Unknown([]rune(*req.Input)...); len(unknown) > 0 {
			return nil, fmt.Errorf("input: %w: %q", dsl.ErrUnknownSymbol, string(unknown))
		}
		input = *req.Input
	}

	r := runner.New(
		runner.WithPolicy[rune](policy),
		runner.WithMaxSteps[rune](maxSteps),
		runner.WithLogger[rune](e.logger),
		runner.WithHooks(e.hooks),
		runner.WithTrace[rune](req.Trace),
	)
	res, err := r.Run(ctx, prog.Config, prog.Blank, []rune(input))
	if res == nil {
		return nil, err
	}

	out := toRunResult(res)
	if e.metrics != nil {
		e.metrics.ObserveRun(out.Status, out.Steps, out.Duration)
	}
	if err != nil {
		out.Error = err.Error()
		return out, err
	}
	return out, nil
}

func toRunResult(res *runner.Result[rune]) *RunResult {
	out := &RunResult{
		Status:   res.Status.String(),
		Steps:    res.Steps,
		State:    res.State,
		Head:     res.Head,
		Origin:   res.Origin,
		Tape:     string(res.Tape),
		Duration: res.Duration,
	}
	for _, t := range res.Trace {
		out.Trace = append(out.Trace, TraceEntry{
			Step:    t.Step,
			From:    t.From,
			To:      t.To,
			Address: t.Address,
			Read:    string(t.Read),
			Written: string(t.Written),
			Action:  t.Action.String(),
		})
	}
	return out
}

// RunNamed loads the program stored under name and runs it.
func (e *Engine) RunNamed(ctx context.Context, name string, req RunRequest) (*RunResult, error) {
	prog, err := e.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, prog, req)
}
