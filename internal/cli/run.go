package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RunOptions configures Execute.
type RunOptions struct {
	File        string
	Policy      engine.Policy
	MaxSteps    uint64
	Window      int
	Interactive bool
	Quiet       bool // suppress per-step frames
	NoReport    bool
	Logger      *slog.Logger
}

// Execute loads the program in opts.File and runs it, drawing the tape
// window on every step and a final report. The returned error is the
// reason the run stopped before halting, if any.
func Execute(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	prog, err := LoadProgram(opts.File, in)
	if err != nil {
		return err
	}
	if err := prog.Validate(); err != nil {
		logger.Warn("program has validation issues", "file", opts.File, "error", err)
	}

	tty := isTerminal(out)
	painter := tui.NewPainterWithProfile(termenv.Ascii)
	if tty {
		painter = tui.NewPainter()
	}

	session, err := NewSession(prog, SessionOptions{
		Policy:   opts.Policy,
		MaxSteps: opts.MaxSteps,
		Window:   opts.Window,
		Painter:  painter,
		Hooks:    observability.LoggingHooks[rune](logger),
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	frames := out
	if opts.Quiet {
		frames = nil
	}
	var runErr error
	if opts.Interactive {
		if !isTerminal(in) {
			return errors.New("interactive mode requires a terminal on stdin")
		}
		runErr = session.Interactive(ctx, in, out)
	} else {
		runErr = session.Run(ctx, frames)
	}

	if !opts.NoReport && !errors.Is(runErr, ErrQuit) {
		report := NewReport(programName(opts.File), session, runErr)
		if err := writeMarkdown(out, report.Markdown, tty); err != nil {
			return err
		}
	}
	return runErr
}

// writeMarkdown renders markdown through glamour on terminals and writes
// it raw otherwise.
func writeMarkdown(out io.Writer, build func() (string, error), tty bool) error {
	md, err := build()
	if err != nil {
		return err
	}
	if tty {
		if rendered, err := tui.NewRenderer()(md); err == nil {
			md = rendered
		}
	}
	_, err = io.WriteString(out, md)
	return err
}

// WriteDescription writes the markdown overview of the program in path.
func WriteDescription(path string, in io.Reader, out io.Writer) error {
	prog, err := LoadProgram(path, in)
	if err != nil {
		return err
	}
	return writeMarkdown(out, func() (string, error) {
		return Describe(prog, programName(path)), nil
	}, isTerminal(out))
}

func programName(path string) string {
	if path == "-" || path == "" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
