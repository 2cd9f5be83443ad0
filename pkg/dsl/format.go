package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Format renders the program in the text format accepted by Parse.
// Parsing the output yields a program equal to p.
func (p *Program) Format() string {
	var sb strings.Builder

	if len(p.Charset) > 0 {
		symbols := make([]string, len(p.Charset))
		for i, r := range p.Charset {
			symbols[i] = string(r)
		}
		fmt.Fprintf(&sb, "%%charset %s\n", strings.Join(symbols, " "))
	}
	if p.HasSymbol(p.Blank) {
		fmt.Fprintf(&sb, "%%blank %c\n", p.Blank)
	}
	if p.Memory != "" {
		fmt.Fprintf(&sb, "%%memory %s\n", p.Memory)
	}

	start := p.Config.StartState()
	for _, s := range p.Config.States() {
		if s.ID() == start {
			sb.WriteString("> ")
		}
		fmt.Fprintf(&sb, "%d", s.ID())
		switch s.Acceptance() {
		case domain.Accept:
			sb.WriteString(" A")
		case domain.Reject:
			sb.WriteString(" R")
		}
		sb.WriteByte('\n')
	}

	for _, s := range p.Config.States() {
		for _, t := range s.Transitions() {
			fmt.Fprintf(&sb, "%d %s -> %c %s %d\n", s.ID(), string(t.Inputs()), t.Output(), formatAction(t.Action()), t.Target())
		}
	}
	return sb.String()
}
