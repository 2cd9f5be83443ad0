package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/engine"
)

// maxHistoryRows bounds the history table of a report.
const maxHistoryRows = 200

// Report summarizes a finished session.
type Report struct {
	Name    string
	Program *dsl.Program
	Status  domain.Status
	Steps   uint64
	State   domain.StateID
	Head    int64
	Tape    string
	Origin  int64
	History []engine.TransitionEvent[rune]
	Err     error
}

// NewReport captures the final state of s.
func NewReport(name string, s *Session, runErr error) Report {
	m := s.Machine()
	r := Report{
		Name:    name,
		Program: s.prog,
		Status:  m.Status(),
		Steps:   m.Steps(),
		State:   m.StateID(),
		Head:    m.Address(),
		History: s.History(),
		Err:     runErr,
	}
	if cells, origin, err := m.Tape().Dense(); err == nil {
		r.Tape = string(cells)
		r.Origin = origin
	}
	return r
}

// Markdown renders the report. The binary program is shown as a hex dump.
func (r Report) Markdown() (string, error) {
	bin, err := r.Program.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to encode program: %w", err)
	}

	var sb strings.Builder
	title := r.Name
	if title == "" {
		title = "program"
	}
	fmt.Fprintf(&sb, "# Run report: %s\n\n", title)

	sb.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Status | %s |\n", r.Status)
	fmt.Fprintf(&sb, "| Steps | %d |\n", r.Steps)
	fmt.Fprintf(&sb, "| State | %d |\n", r.State)
	fmt.Fprintf(&sb, "| Head | %d |\n", r.Head)
	fmt.Fprintf(&sb, "| Tape | `%s` (origin %d) |\n", escapeCell(r.Tape), r.Origin)
	if r.Err != nil {
		fmt.Fprintf(&sb, "| Stopped | %s |\n", escapeCell(r.Err.Error()))
	}

	sb.WriteString("\n## Program\n\n```\n")
	sb.WriteString(r.Program.Format())
	sb.WriteString("```\n\n## Binary\n\n")
	fmt.Fprintf(&sb, "%d bytes\n\n```\n%s```\n", len(bin), hex.Dump(bin))

	if len(r.History) > 0 {
		sb.WriteString("\n## History\n\n")
		rows := r.History
		if len(rows) > maxHistoryRows {
			fmt.Fprintf(&sb, "Showing the last %d of %d transitions.\n\n", maxHistoryRows, len(rows))
			rows = rows[len(rows)-maxHistoryRows:]
		}
		sb.WriteString("| Step | From | To | Head | Read | Write | Move |\n|---|---|---|---|---|---|---|\n")
		for _, e := range rows {
			fmt.Fprintf(&sb, "| %d | %d | %d | %d | %s | %s | %s |\n",
				e.Step, e.From, e.To, e.Address,
				symbolCell(e.Read, r.Program.Blank), symbolCell(e.Written, r.Program.Blank), e.Action)
		}
	}
	return sb.String(), nil
}

// Describe renders a static overview of prog: alphabet, states,
// transitions and a Mermaid diagram.
func Describe(prog *dsl.Program, name string) string {
	var sb strings.Builder
	if name == "" {
		name = "program"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)

	charset := make([]string, 0, len(prog.Charset))
	for _, r := range prog.Charset {
		charset = append(charset, "`"+escapeCell(string(r))+"`")
	}
	fmt.Fprintf(&sb, "- **Charset**: %s\n", strings.Join(charset, " "))
	fmt.Fprintf(&sb, "- **Blank**: %s\n", symbolCell(prog.Blank, 0))
	if prog.Memory != "" {
		fmt.Fprintf(&sb, "- **Memory**: `%s`\n", escapeCell(prog.Memory))
	}
	fmt.Fprintf(&sb, "- **Start**: %d\n", prog.Config.StartState())

	states := prog.Config.States()
	sb.WriteString("\n## States\n\n| State | Acceptance | Transitions |\n|---|---|---|\n")
	for _, s := range states {
		fmt.Fprintf(&sb, "| %d | %s | %d |\n", s.ID(), s.Acceptance(), s.Len())
	}

	sb.WriteString("\n## Transitions\n\n| From | Read | Write | Move | To |\n|---|---|---|---|---|\n")
	for _, s := range states {
		for _, t := range s.Transitions() {
			inputs := make([]string, 0, len(t.Inputs()))
			for _, in := range t.Inputs() {
				inputs = append(inputs, symbolCell(in, prog.Blank))
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %d |\n",
				s.ID(), strings.Join(inputs, " "), symbolCell(t.Output(), prog.Blank), t.Action(), t.Target())
		}
	}

	sb.WriteString("\n## Diagram\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(prog.Config, nil))
	sb.WriteString("```\n")
	return sb.String()
}

// symbolCell formats a symbol for a table cell, marking the blank.
func symbolCell(r, blank rune) string {
	switch {
	case r == 0:
		return "∅"
	case r == blank && blank != 0:
		return "`" + escapeCell(string(r)) + "` (blank)"
	default:
		return "`" + escapeCell(string(r)) + "`"
	}
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "`", "'").Replace(s)
}
