package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
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

func newTestHandler(t *testing.T, opts ...turing.Option) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts = append(opts, turing.WithMetrics(observability.NewMetrics(reg)))
	return httpAdapter.NewHandler(turing.New(opts...),
		httpAdapter.WithLogger(logging.NewNop()),
		httpAdapter.WithGatherer(reg),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestProgramLifecycle(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "PUT", "/programs/inc", unaryIncrement)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "inc", created["name"])
	assert.Equal(t, float64(2), created["states"])
	assert.NotEmpty(t, created["encoded"])

	w = do(t, h, "GET", "/programs/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"inc"}, decode(t, w)["programs"])

	w = do(t, h, "GET", "/programs/inc", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Contains(t, got["source"], "0 _ -> 1 - 1")
	assert.Equal(t, created["encoded"], got["encoded"])

	w = do(t, h, "POST", "/programs/inc/runs", `{"trace": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode(t, w)
	assert.Equal(t, "halted_accept", run["status"])
	assert.Equal(t, "1111", run["tape"])
	assert.Len(t, run["trace"], 4)

	w = do(t, h, "POST", "/programs/inc/runs", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode(t, w)["trace"])

	w = do(t, h, "DELETE", "/programs/inc", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/programs/inc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/programs/inc/runs", "{}")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutProgram_ParseError(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, "PUT", "/programs/bad", "%charset 0 1\n%blank X\n")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["line"])
	assert.Contains(t, body["error"], "blank symbol not in charset")
}

func TestPutProgram_InvalidName(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, "PUT", "/programs/.hidden", unaryIncrement)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSource(t *testing.T) {
	h := newTestHandler(t)
	body, err := json.Marshal(map[string]any{"source": unaryIncrement, "input": "1"})
	require.NoError(t, err)

	w := do(t, h, "POST", "/runs", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode(t, w)
	assert.Equal(t, "11", run["tape"])
	assert.Equal(t, float64(2), run["steps"])
}

func TestRunSource_StepLimit(t *testing.T) {
	h := newTestHandler(t)
	body, err := json.Marshal(map[string]any{"source": unaryIncrement, "max_steps": 1})
	require.NoError(t, err)

	w := do(t, h, "POST", "/runs", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	run := decode(t, w)
	assert.Equal(t, "active", run["status"])
	assert.Contains(t, run["error"], "step limit")
}

func TestRunSource_BadRequests(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/runs", "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/runs", `{"source": "garbage line"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(map[string]any{"source": unaryIncrement, "policy": "lenient"})
	w = do(t, h, "POST", "/runs", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ = json.Marshal(map[string]any{"source": "%charset a\n> 4\n"})
	w = do(t, h, "POST", "/runs", string(body))
	assert.Equal(t, http.StatusOK, w.Code, "start state 4 exists")

	body, _ = json.Marshal(map[string]any{"source": "%charset a\n0 a -> a r 0\n> 4\n"})
	w = do(t, h, "POST", "/runs", string(body))
	assert.Equal(t, http.StatusOK, w.Code, "declared start state")

	body, _ = json.Marshal(map[string]any{"source": "%charset a\n1 a -> a r 1\n"})
	w = do(t, h, "POST", "/runs", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code, "start state 0 is not defined")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	body, _ := json.Marshal(map[string]any{"source": unaryIncrement})
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/runs", string(body)).Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_halts_total{status="halted_accept"} 1`)
}
