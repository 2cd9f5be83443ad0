package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/aretw0/turing/pkg/runner"
	"golang.org/x/term"
)

// ErrQuit is returned when the user leaves an interactive session.
var ErrQuit = errors.New("session quit by user")

// SessionOptions configures a Session.
type SessionOptions struct {
	Policy   engine.Policy
	MaxSteps uint64 // 0 disables the limit
	Window   int    // cells on each side of the head
	Hooks    engine.Hooks[rune]
	Painter  *tui.Painter
}

// Session drives a single machine step by step and keeps its history.
type Session struct {
	prog     *dsl.Program
	machine  *engine.Machine[rune]
	painter  *tui.Painter
	window   int
	maxSteps uint64
	history  []engine.TransitionEvent[rune]
}

// NewSession creates a machine for prog loaded with its initial memory.
func NewSession(prog *dsl.Program, opts SessionOptions) (*Session, error) {
	s := &Session{
		prog:     prog,
		painter:  opts.Painter,
		window:   opts.Window,
		maxSteps: opts.MaxSteps,
	}
	if s.painter == nil {
		s.painter = tui.NewPainter()
	}
	if s.window <= 0 {
		s.window = 10
	}

	record := engine.Hooks[rune]{
		OnTransition: func(e engine.TransitionEvent[rune]) {
			s.history = append(s.history, e)
		},
	}
	m, err := prog.NewMachine(opts.Policy, engine.WithHooks(engine.MergeHooks(record, opts.Hooks)))
	if err != nil {
		return nil, err
	}
	s.machine = m
	return s, nil
}

// Machine exposes the underlying machine.
func (s *Session) Machine() *engine.Machine[rune] { return s.machine }

// History returns the transitions taken so far.
func (s *Session) History() []engine.TransitionEvent[rune] { return s.history }

// Done reports whether the machine has left the active status.
func (s *Session) Done() bool { return s.machine.Status() != domain.StatusActive }

// Frame captures the current tape window.
func (s *Session) Frame() tui.TapeFrame {
	return tui.TapeFrame{
		Cells:  s.machine.Window(s.window),
		Blank:  s.prog.Blank,
		State:  s.machine.StateID(),
		Head:   s.machine.Address(),
		Steps:  s.machine.Steps(),
		Status: s.machine.Status(),
	}
}

// Step performs one transition. It returns runner.ErrStuck when a
// permissive machine cannot move and runner.ErrStepLimit once the
// step budget is spent.
func (s *Session) Step() error {
	if s.Done() {
		return nil
	}
	if s.maxSteps > 0 && s.machine.Steps() >= s.maxSteps {
		return fmt.Errorf("%w: %d", runner.ErrStepLimit, s.maxSteps)
	}
	before := s.machine.Steps()
	if err := s.machine.Step(); err != nil {
		return err
	}
	if !s.Done() && s.machine.Steps() == before {
		return fmt.Errorf("%w: state %d at address %d", runner.ErrStuck, s.machine.StateID(), s.machine.Address())
	}
	return nil
}

// Run steps until the machine halts, writing one frame per step to out
// when out is not nil.
func (s *Session) Run(ctx context.Context, out io.Writer) error {
	s.render(out)
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
		s.render(out)
	}
	return nil
}

func (s *Session) render(out io.Writer) {
	if out == nil {
		return
	}
	fmt.Fprintln(out, s.painter.Frame(s.Frame()))
}

// Key bindings for interactive sessions.
const (
	keyStep  = 's'
	keyRun   = 'r'
	keyQuit  = 'q'
	keyCtrlC = 3
)

// Interactive reads single keys from in and steps the machine on demand.
// When in is a terminal it is switched to raw mode for the duration of
// the session. Space, enter and 's' step, 'r' runs to the end, 'q' quits.
func (s *Session) Interactive(ctx context.Context, in io.Reader, out io.Writer) error {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
		// Raw mode disables output post-processing.
		out = crlfWriter{out}
	}

	fmt.Fprintln(out, "[space/s] step  [r] run  [q] quit")
	s.render(out)

	buf := make([]byte, 1)
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := in.Read(buf); err != nil {
			if errors.Is(err, io.EOF) {
				return ErrQuit
			}
			return fmt.Errorf("failed to read key: %w", err)
		}
		switch buf[0] {
		case keyStep, ' ', '\r', '\n':
			if err := s.Step(); err != nil {
				return err
			}
			s.render(out)
		case keyRun:
			return s.Run(ctx, out)
		case keyQuit, keyCtrlC:
			return ErrQuit
		}
	}
	return nil
}

type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
