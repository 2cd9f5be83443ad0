package dsl_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAML_RoundTrip(t *testing.T) {
	prog, err := dsl.ParseString(unaryIncrement)
	require.NoError(t, err)

	data, err := prog.MarshalYAMLDocument()
	require.NoError(t, err)
	assert.Contains(t, string(data), "accept: accept")
	assert.Contains(t, string(data), "move: right")

	decoded, err := dsl.ParseYAML(data)
	require.NoError(t, err)
	assert.True(t, prog.Equal(decoded))
}

func TestYAML_Parse(t *testing.T) {
	doc := `
charset: "ab"
blank: b
memory: aa
start: 0
states:
  - id: 0
    transitions:
      - {on: a, write: b, move: right, to: 0}
      - {on: b, write: b, move: none, to: 1}
  - id: 1
    accept: reject
`
	prog, err := dsl.ParseYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 'b', prog.Blank)

	s1, err := prog.Config.State(1)
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, s1.Acceptance())

	tr, err := prog.Config.Transition(0, 'a')
	require.NoError(t, err)
	assert.Equal(t, domain.MoveRight, tr.Action())
}

func TestYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", dsl.ErrSyntax},
		{"blank outside charset", "charset: a\nblank: z\n", dsl.ErrBlankNotInCharset},
		{"unknown symbol", "charset: a\nstates:\n  - id: 0\n    transitions:\n      - {on: q, write: a, move: left, to: 0}\n", dsl.ErrUnknownSymbol},
		{"bad move", "charset: a\nstates:\n  - id: 0\n    transitions:\n      - {on: a, write: a, move: up, to: 0}\n", dsl.ErrSyntax},
		{"bad acceptance", "charset: a\nstates:\n  - id: 0\n    accept: maybe\n", dsl.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dsl.ParseYAML([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestYAML_RejectsWhitespaceSymbols(t *testing.T) {
	for name, doc := range map[string]string{
		"charset": "charset: \"a b\"\n",
		"blank":   "charset: a\nblank: \" \"\n",
		"tab":     "charset: \"a\\t\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := dsl.ParseYAML([]byte(doc))
			assert.ErrorIs(t, err, dsl.ErrSyntax)
		})
	}
}
