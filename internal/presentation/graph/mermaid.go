package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains execution data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.StateID
	CurrentState  *domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart of the state graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Accepting: (((Double circle)))
// - Rejecting: {{Hexagon}}
// - Default: [Rectangle]
// The start state keeps the circle even when it is also accepting or rejecting.
// Edges are labeled "inputs / output action" and transitions to undefined
// states are drawn dotted.
func GenerateMermaid[S comparable](conf *domain.Configuration[S], overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range conf.States() {
		opener, closer := "[", "]"
		switch {
		case s.ID() == conf.StartState():
			opener, closer = "((", "))"
		case s.Acceptance() == domain.Accept:
			opener, closer = "(((", ")))"
		case s.Acceptance() == domain.Reject:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s.ID()), opener, stateLabel(s), closer)
	}

	for _, s := range conf.States() {
		for _, t := range s.Transitions() {
			arrow := fmt.Sprintf("-- \"%s\" -->", edgeLabel(t))
			if _, err := conf.State(t.Target()); err != nil {
				arrow = fmt.Sprintf("-. \"%s\" .->", edgeLabel(t))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(s.ID()), arrow, nodeID(t.Target()))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateID]bool)
		for _, id := range overlay.VisitedStates {
			if !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
			}
		}
		if overlay.CurrentState != nil {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(*overlay.CurrentState))
		}
	}

	return sb.String()
}

func nodeID(id domain.StateID) string {
	return fmt.Sprintf("q%d", id)
}

func stateLabel[S comparable](s domain.State[S]) string {
	switch s.Acceptance() {
	case domain.Accept:
		return fmt.Sprintf("%d ✓", s.ID())
	case domain.Reject:
		return fmt.Sprintf("%d ✗", s.ID())
	default:
		return fmt.Sprintf("%d", s.ID())
	}
}

var moveArrows = map[domain.Action]string{
	domain.ActionNone: "-",
	domain.MoveLeft:   "L",
	domain.MoveRight:  "R",
}

func edgeLabel[S comparable](t domain.Transition[S]) string {
	inputs := make([]string, 0, len(t.Inputs()))
	for _, in := range t.Inputs() {
		inputs = append(inputs, symbol(in))
	}
	return fmt.Sprintf("%s / %s %s", strings.Join(inputs, ","), symbol(t.Output()), moveArrows[t.Action()])
}

// symbol renders a symbol safely inside a quoted Mermaid label.
func symbol[S comparable](v S) string {
	var s string
	switch x := any(v).(type) {
	case rune:
		s = string(x)
	case byte:
		s = fmt.Sprintf("%02x", x)
	default:
		s = fmt.Sprint(x)
	}
	switch s {
	case "\"":
		return "#quot;"
	case "\x00":
		return "∅"
	}
	return s
}
