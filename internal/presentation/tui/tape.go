package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// BlankGlyph is drawn for blank cells.
const BlankGlyph = "·"

// TapeFrame is one rendered moment of an execution.
type TapeFrame struct {
	Cells  []rune // window centered on the head
	Blank  rune
	State  domain.StateID
	Head   int64
	Steps  uint64
	Status domain.Status
}

// Painter renders frames with a fixed color profile.
type Painter struct {
	profile termenv.Profile
}

// NewPainter detects the terminal color profile.
func NewPainter() *Painter {
	return &Painter{profile: termenv.ColorProfile()}
}

// NewPainterWithProfile uses profile, e.g. termenv.Ascii for plain output.
func NewPainterWithProfile(profile termenv.Profile) *Painter {
	return &Painter{profile: profile}
}

// Tape renders the cell window. The center cell is the head.
func (p *Painter) Tape(f TapeFrame) string {
	center := len(f.Cells) / 2
	var sb strings.Builder
	sb.WriteString("│")
	for i, c := range f.Cells {
		glyph := string(c)
		if c == f.Blank {
			glyph = BlankGlyph
		}
		cell := p.profile.String(" " + glyph + " ")
		if i == center {
			cell = cell.Foreground(p.profile.Color("#000000")).Background(p.profile.Color("#fbbf24")).Bold()
		} else if c == f.Blank {
			cell = cell.Faint()
		}
		sb.WriteString(cell.String())
		sb.WriteString("│")
	}
	return sb.String()
}

// Status renders the state line under the tape.
func (p *Painter) Status(f TapeFrame) string {
	status := p.profile.String(f.Status.String())
	switch f.Status {
	case domain.StatusHaltedAccept:
		status = status.Foreground(p.profile.Color("#22c55e")).Bold()
	case domain.StatusHaltedReject:
		status = status.Foreground(p.profile.Color("#ef4444")).Bold()
	default:
		status = status.Foreground(p.profile.Color("#818cf8"))
	}
	return fmt.Sprintf("step %-6d state %-4d head %-6d %s", f.Steps, f.State, f.Head, status)
}

// Frame renders tape and status on two lines.
func (p *Painter) Frame(f TapeFrame) string {
	return p.Tape(f) + "\n" + p.Status(f)
}
