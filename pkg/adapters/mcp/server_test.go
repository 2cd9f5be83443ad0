package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unaryIncrement = `%charset 1 _
%blank _
%memory 111
> 0
1 A
0 1 -> 1 r 0
0 _ -> 1 - 1
`

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func newTestServer() *Server {
	return NewServer(turing.New(), logging.NewNop())
}

func TestValidateProgram(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleValidate(ctx, call(map[string]any{"source": unaryIncrement}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "ok: 2 states, 2 symbols", text(t, res))

	res, err = s.handleValidate(ctx, call(map[string]any{"source": "%charset a\n> 0\n0 a -> a r 5\n"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "undefined state 5")

	res, err = s.handleValidate(ctx, call(map[string]any{"source": "%blank x\n"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "line 1")

	res, err = s.handleValidate(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRunProgram(t *testing.T) {
	s := newTestServer()
	res, err := s.handleRun(context.Background(), call(map[string]any{
		"source": unaryIncrement,
		"input":  "11",
		"trace":  true,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var out turing.RunResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, "halted_accept", out.Status)
	assert.Equal(t, "111", out.Tape)
	assert.Len(t, out.Trace, 3)
}

func TestRunProgram_StepLimit(t *testing.T) {
	s := newTestServer()
	res, err := s.handleRun(context.Background(), call(map[string]any{
		"source":    unaryIncrement,
		"max_steps": float64(1),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out turing.RunResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, "active", out.Status)
	assert.Contains(t, out.Error, "step limit")
}

func TestSaveAndRunByName(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleSave(ctx, call(map[string]any{"name": "inc", "source": unaryIncrement}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	res, err = s.handleRun(ctx, call(map[string]any{"name": "inc"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), `"tape":"1111"`)

	res, err = s.handleRun(ctx, call(map[string]any{"name": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	contents, err := s.readPrograms(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, `["inc"]`, contents[0].(mcp.TextResourceContents).Text)
}

func TestFormatAndEncode(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	res, err := s.handleFormat(ctx, call(map[string]any{"source": "%CHARSET a\n>0 a\n"}))
	require.NoError(t, err)
	assert.Equal(t, "%charset a\n> 0 A\n", text(t, res))

	res, err = s.handleEncode(ctx, call(map[string]any{"source": unaryIncrement}))
	require.NoError(t, err)
	prog, err := turing.New().Parse(unaryIncrement)
	require.NoError(t, err)
	assert.Equal(t, prog.Base64(), text(t, res))
}
