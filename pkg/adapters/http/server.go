package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Engine defines the operations the HTTP API needs from turing.Engine.
type Engine interface {
	Parse(src string) (*dsl.Program, error)
	Save(ctx context.Context, name string, prog *dsl.Program) error
	Load(ctx context.Context, name string) (*dsl.Program, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Run(ctx context.Context, prog *dsl.Program, req turing.RunRequest) (*turing.RunResult, error)
}

// Server serves the JSON API.
type Server struct {
	Engine   Engine
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer sets the registry exposed on /metrics.
// The default is prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(eng Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   eng,
		Logger:   slog.Default(),
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Put("/{name}", s.PutProgram)
		r.Get("/{name}", s.GetProgram)
		r.Delete("/{name}", s.DeleteProgram)
		r.Post("/{name}/runs", s.RunProgram)
	})
	r.Post("/runs", s.RunSource)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

// ProgramResponse describes a stored program.
type ProgramResponse struct {
	Name    string `json:"name"`
	States  int    `json:"states"`
	Source  string `json:"source,omitempty"`
	Encoded string `json:"encoded"`
}

// SourceRunRequest is the body of POST /runs.
type SourceRunRequest struct {
	Source string `json:"source"`
	turing.RunRequest
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var pe *dsl.ParseError
	if errors.As(err, &pe) {
		resp.Line = pe.Line
	}
	s.writeJSON(w, status, resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var aggr *domain.AggregateError
	switch {
	case errors.Is(err, ports.ErrProgramNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrInvalidName),
		errors.Is(err, dsl.ErrSyntax),
		errors.Is(err, dsl.ErrUnknownSymbol),
		errors.Is(err, dsl.ErrBlankNotInCharset),
		errors.Is(err, domain.ErrStateNotFound),
		errors.Is(err, engine.ErrUnknownPolicy),
		errors.As(err, &aggr):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(turing.Version),
	})
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.Logger.Error("list programs failed", "error", err)
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// PutProgram handles PUT /programs/{name}. The body is program source text.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ports.ValidateName(name); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	prog, err := s.Engine.Parse(string(body))
	if err != nil {
		s.Logger.Warn("PutProgram: parse failed", "name", name, "error", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Engine.Save(r.Context(), name, prog); err != nil {
		s.Logger.Error("PutProgram: save failed", "name", name, "error", err)
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ProgramResponse{
		Name:    name,
		States:  prog.Config.Len(),
		Encoded: prog.Base64(),
	})
}

// GetProgram handles GET /programs/{name}.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	prog, err := s.Engine.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProgramResponse{
		Name:    name,
		States:  prog.Config.Len(),
		Source:  prog.Format(),
		Encoded: prog.Base64(),
	})
}

// DeleteProgram handles DELETE /programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Engine.Delete(r.Context(), name); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunProgram handles POST /programs/{name}/runs.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	var req turing.RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			s.Logger.Warn("RunProgram: invalid request body", "error", err)
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	prog, err := s.Engine.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.run(w, r, prog, req)
}

// RunSource handles POST /runs.
func (s *Server) RunSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.Logger.Warn("RunSource: invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	prog, err := s.Engine.Parse(req.Source)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.run(w, r, prog, req.RunRequest)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, prog *dsl.Program, req turing.RunRequest) {
	res, err := s.Engine.Run(r.Context(), prog, req)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, res)
	case res != nil && (errors.Is(err, runner.ErrStepLimit) || errors.Is(err, runner.ErrStuck)):
		// The run itself is a valid answer; res.Error says why it stopped.
		s.writeJSON(w, http.StatusOK, res)
	default:
		s.Logger.Warn("run failed", "error", err)
		s.writeError(w, statusFor(err), err)
	}
}
