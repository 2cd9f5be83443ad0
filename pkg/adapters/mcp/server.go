package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine defines the operations the MCP server needs from turing.Engine.
type Engine interface {
	Parse(src string) (*dsl.Program, error)
	Save(ctx context.Context, name string, prog *dsl.Program) error
	Load(ctx context.Context, name string) (*dsl.Program, error)
	List(ctx context.Context) ([]string, error)
	Run(ctx context.Context, prog *dsl.Program, req turing.RunRequest) (*turing.RunResult, error)
}

// Server wraps the turing Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server, for embedding in other transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

const sourceHelp = "Program source: %charset/%blank/%memory directives, state lines like '> 0' or '1 A', transition lines like '0 1 -> 1 r 0'"

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("validate_program",
		mcp.WithDescription("Parse a Turing machine program and report syntax and structural problems."),
		mcp.WithString("source", mcp.Required(), mcp.Description(sourceHelp)),
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Run a Turing machine program until it halts and return the final tape. Give either source or the name of a stored program."),
		mcp.WithString("source", mcp.Description(sourceHelp)),
		mcp.WithString("name", mcp.Description("Name of a stored program")),
		mcp.WithString("input", mcp.Description("Initial tape content; defaults to the program's %memory")),
		mcp.WithString("policy", mcp.Description("Undefined-transition policy: strict (default) or permissive")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit")),
		mcp.WithBoolean("trace", mcp.Description("Include every transition in the result")),
	), s.handleRun)

	s.mcpServer.AddTool(mcp.NewTool("format_program",
		mcp.WithDescription("Rewrite a program in canonical form."),
		mcp.WithString("source", mcp.Required(), mcp.Description(sourceHelp)),
	), s.handleFormat)

	s.mcpServer.AddTool(mcp.NewTool("encode_program",
		mcp.WithDescription("Encode a program in its base64 binary form."),
		mcp.WithString("source", mcp.Required(), mcp.Description(sourceHelp)),
	), s.handleEncode)

	s.mcpServer.AddTool(mcp.NewTool("save_program",
		mcp.WithDescription("Parse a program and store it under a name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("source", mcp.Required(), mcp.Description(sourceHelp)),
	), s.handleSave)
}

func stringArg(request mcp.CallToolRequest, key string) string {
	v, _ := request.GetArguments()[key].(string)
	return v
}

func (s *Server) parse(request mcp.CallToolRequest) (*dsl.Program, *mcp.CallToolResult) {
	src := stringArg(request, "source")
	if src == "" {
		return nil, mcp.NewToolResultError("source is required")
	}
	prog, err := s.engine.Parse(src)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err))
	}
	return prog, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prog, failed := s.parse(request)
	if failed != nil {
		return failed, nil
	}
	if err := prog.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("ok: %d states, %d symbols", prog.Config.Len(), len(prog.Charset))), nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var prog *dsl.Program
	if name := stringArg(request, "name"); name != "" {
		loaded, err := s.engine.Load(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		prog = loaded
	} else {
		parsed, failed := s.parse(request)
		if failed != nil {
			return failed, nil
		}
		prog = parsed
	}

	req := turing.RunRequest{Policy: stringArg(request, "policy")}
	if input, ok := args["input"].(string); ok {
		req.Input = &input
	}
	if n, ok := args["max_steps"].(float64); ok && n > 0 {
		req.MaxSteps = uint64(n)
	}
	req.Trace, _ = args["trace"].(bool)

	res, err := s.engine.Run(ctx, prog, req)
	if err != nil && (res == nil || !(errors.Is(err, runner.ErrStepLimit) || errors.Is(err, runner.ErrStuck))) {
		s.logger.Warn("MCP run_program failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("run failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prog, failed := s.parse(request)
	if failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(prog.Format()), nil
}

func (s *Server) handleEncode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prog, failed := s.parse(request)
	if failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(prog.Base64()), nil
}

func (s *Server) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prog, failed := s.parse(request)
	if failed != nil {
		return failed, nil
	}
	name := stringArg(request, "name")
	if err := s.engine.Save(ctx, name, prog); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s", name)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("turing://programs", "Stored Programs",
		mcp.WithMIMEType("application/json"),
	), s.readPrograms)
}

func (s *Server) readPrograms(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	jsonBytes, _ := json.Marshal(names)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "turing://programs",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
