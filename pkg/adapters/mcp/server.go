package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/runner"
	"github.com/aretw0/delta/pkg/token"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// DefaultRunTimeout bounds run_algorithm.
const DefaultRunTimeout = 10 * time.Second

// Engine is the part of delta.Engine the MCP server needs.
type Engine interface {
	List(ctx context.Context) (*delta.Library, error)
	Load(ctx context.Context, id int64) (*algorithm.Algorithm, error)
	Start(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error)
}

// AlgorithmSummary is one entry of list_algorithms.
type AlgorithmSummary struct {
	ID       int64          `json:"id" jsonschema_description:"Local algorithm ID"`
	RemoteID int64          `json:"remote_id,omitempty" jsonschema_description:"ID in the shared catalog, 0 when never uploaded"`
	Name     string         `json:"name"`
	Icon     string         `json:"icon"`
	Owner    bool           `json:"owner" jsonschema_description:"False for downloaded, read-only algorithms"`
	Status   string         `json:"status"`
	Inputs   []domain.Input `json:"inputs"`
}

// ListResponse is the result of list_algorithms.
type ListResponse struct {
	Algorithms []AlgorithmSummary `json:"algorithms"`
}

// LinesResponse is the result of editor_lines.
type LinesResponse struct {
	Program  string              `json:"program"`
	Settings []domain.EditorLine `json:"settings"`
	Lines    []domain.EditorLine `json:"lines"`
}

// EvaluateResponse is the result of evaluate.
type EvaluateResponse struct {
	Result string `json:"result"`
	Holds  *bool  `json:"holds,omitempty" jsonschema_description:"Truth of a comparison, absent for other expressions"`
	Error  bool   `json:"error" jsonschema_description:"True when the expression is not computable"`
}

type idArgs struct {
	ID int64 `mapstructure:"id"`
}

type runArgs struct {
	ID     int64             `mapstructure:"id"`
	Values map[string]string `mapstructure:"values"`
}

type evaluateArgs struct {
	Expression string            `mapstructure:"expression"`
	Variables  map[string]string `mapstructure:"variables"`
}

// Server exposes a delta Engine as an MCP server.
type Server struct {
	engine     Engine
	mcpServer  *server.MCPServer
	logger     *slog.Logger
	runTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRunTimeout bounds how long run_algorithm waits before cancelling.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.runTimeout = d
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		mcpServer:  server.NewMCPServer("delta-mcp", strings.TrimSpace(delta.Version)),
		logger:     logging.NewNop(),
		runTimeout: DefaultRunTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_algorithms
	s.mcpServer.AddTool(mcp.NewTool("list_algorithms",
		mcp.WithDescription("List stored algorithms with their inputs. Owned algorithms come first, then downloads."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))

	// TOOL: editor_lines
	s.mcpServer.AddTool(mcp.NewTool("editor_lines",
		mcp.WithDescription("Get the program text and the flat editor lines of an algorithm."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Local algorithm ID")),
		mcp.WithOutputSchema[LinesResponse](),
	), mcp.NewStructuredToolHandler(s.handleLines))

	// TOOL: run_algorithm
	s.mcpServer.AddTool(mcp.NewTool("run_algorithm",
		mcp.WithDescription("Run an algorithm headlessly. Inputs not given take their default expressions."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Local algorithm ID")),
		mcp.WithString("values", mcp.Description("JSON object of input name to expression, e.g. {\"n\": \"7\"}")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: evaluate
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an expression, e.g. \"x * 2 > 5\", with optional variables."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression to evaluate")),
		mcp.WithString("variables", mcp.Description("JSON object of variable name to expression")),
		mcp.WithOutputSchema[EvaluateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	lib, err := s.engine.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	resp := ListResponse{Algorithms: []AlgorithmSummary{}}
	for _, a := range lib.All() {
		resp.Algorithms = append(resp.Algorithms, summarize(a))
	}
	return resp, nil
}

func (s *Server) handleLines(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (LinesResponse, error) {
	var in idArgs
	if err := decodeArgs(args, &in); err != nil {
		return LinesResponse{}, err
	}
	alg, err := s.engine.Load(ctx, in.ID)
	if err != nil {
		return LinesResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return LinesResponse{
		Program:  alg.String(),
		Settings: alg.Settings(),
		Lines:    alg.EditorLines(),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	var in runArgs
	if err := decodeArgs(args, &in); err != nil {
		return domain.Snapshot{}, err
	}
	for name, value := range in.Values {
		clean, err := runner.SanitizeInput(value)
		if err != nil {
			s.logger.Warn("MCP Run: Input rejected", "err", err, "size", len(value))
			return domain.Snapshot{}, fmt.Errorf("input %q rejected: %w", name, err)
		}
		in.Values[name] = clean
	}

	alg, err := s.engine.Load(ctx, in.ID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()
	p, err := s.engine.Start(ctx, alg, in.Values, domain.WithProcessLogger(s.logger))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("run failed: %w", err)
	}
	select {
	case <-p.Done():
	case <-ctx.Done():
		p.Cancel()
		<-p.Done()
	}
	return *p.Snapshot(), nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	var in evaluateArgs
	if err := decodeArgs(args, &in); err != nil {
		return EvaluateResponse{}, err
	}
	if strings.TrimSpace(in.Expression) == "" {
		return EvaluateResponse{}, errors.New("expression is required")
	}

	vars := token.Bind(in.Variables)

	res := token.Parse(in.Expression).Compute(vars, token.ModeEvaluate)
	resp := EvaluateResponse{Result: res.String(), Error: token.IsSyntaxError(res)}
	if eq, ok := res.(token.Equation); ok {
		holds := eq.IsTrue(vars)
		resp.Holds = &holds
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: delta://algorithms
	s.mcpServer.AddResource(mcp.NewResource("delta://algorithms", "Stored Algorithms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		resp, err := s.handleList(ctx, mcp.CallToolRequest{}, nil)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(resp)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "delta://algorithms",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func summarize(a *algorithm.Algorithm) AlgorithmSummary {
	inputs := a.Inputs
	if inputs == nil {
		inputs = []domain.Input{}
	}
	return AlgorithmSummary{
		ID:       a.LocalID,
		RemoteID: a.RemoteID,
		Name:     a.Name,
		Icon:     a.Icon,
		Owner:    a.Owner,
		Status:   string(a.Status),
		Inputs:   inputs,
	}
}

// decodeArgs decodes tool arguments into out. Object arguments may be given
// as JSON text; numbers are accepted where strings are expected.
func decodeArgs(args map[string]interface{}, out any) error {
	raw := make(map[string]interface{}, len(args))
	for k, v := range args {
		if text, ok := v.(string); ok && (k == "values" || k == "variables") {
			if strings.TrimSpace(text) == "" {
				continue
			}
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(text), &obj); err != nil {
				return fmt.Errorf("%s must be a JSON object: %w", k, err)
			}
			v = obj
		}
		raw[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
