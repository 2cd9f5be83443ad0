package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name: "State Shapes",
			src:  "%charset a\n> 0\n1 A\n2 R\n3\n",
			contains: []string{
				"q0((\"0\"))",
				"q1(((\"1 ✓\")))",
				"q2{{\"2 ✗\"}}",
				"q3[\"3\"]",
			},
		},
		{
			name: "Edge Labels",
			src:  "%charset 1 _\n> 0\n1 A\n0 1 -> 1 r 0\n0 _ -> 1 - 1\n",
			contains: []string{
				"q0 -- \"1 / 1 R\" --> q0",
				"q0 -- \"_ / 1 -\" --> q1",
			},
		},
		{
			name: "Dangling Target",
			src:  "%charset a\n> 0\n0 a -> a l 9\n",
			contains: []string{
				"q0 -. \"a / a L\" .-> q9",
			},
		},
		{
			name: "Quote Escaping",
			src:  "%charset \" a\n> 0\n0 \" -> a r 0\n",
			contains: []string{
				"q0 -- \"#quot; / a R\" --> q0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := dsl.ParseString(tt.src)
			require.NoError(t, err)
			out := graph.GenerateMermaid(prog.Config, nil)
			assert.True(t, strings.HasPrefix(out, "graph LR\n"))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	prog, err := dsl.ParseString("%charset 1 _\n> 0\n1 A\n0 1 -> 1 r 0\n0 _ -> 1 - 1\n")
	require.NoError(t, err)

	current := domain.StateID(1)
	out := graph.GenerateMermaid(prog.Config, &graph.GraphOverlay{
		VisitedStates: []domain.StateID{0, 0, 0, 1},
		CurrentState:  &current,
	})

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class q0 visited;"))
	assert.Contains(t, out, "class q1 visited;")
	assert.Contains(t, out, "class q1 current;")
}
