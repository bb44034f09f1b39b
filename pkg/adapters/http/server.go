package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// Catalog is the shared set of published algorithms. registry.Registry
// implements it.
type Catalog interface {
	List(ctx context.Context) ([]*domain.Record, error)
	Check(ctx context.Context, remoteID int64) (*domain.Record, error)
	Download(ctx context.Context, remoteID int64) (*domain.Record, error)
	Upload(ctx context.Context, rec *domain.Record) (*domain.Record, error)
}

// DefaultRunTimeout bounds POST /algorithms/{id}/run.
const DefaultRunTimeout = 10 * time.Second

// Server serves a Catalog over HTTP.
type Server struct {
	Catalog    Catalog
	Streams    *StreamManager
	Executor   runner.Executor
	Logger     *slog.Logger
	RunTimeout time.Duration
	Metrics    http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithExecutor routes runs through exec, typically an engine that records
// hooks and metrics. Defaults to Algorithm.Run.
func WithExecutor(exec runner.Executor) Option {
	return func(s *Server) {
		s.Executor = exec
	}
}

// WithRunTimeout bounds how long a remote run may take before it is cancelled.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.RunTimeout = d
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates the HTTP handler for catalog.
func NewHandler(catalog Catalog, opts ...Option) http.Handler {
	s := &Server{
		Catalog:    catalog,
		Streams:    NewStreamManager(),
		Logger:     logging.NewNop(),
		RunTimeout: DefaultRunTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Executor == nil {
		s.Executor = func(_ context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error) {
			return alg.Run(values, nil, opts...), nil
		}
	}
	return enableCORS(s.Routes())
}

// Routes returns the bare router without CORS headers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Route("/algorithms", func(r chi.Router) {
		r.Get("/", s.ListAlgorithms)
		r.Post("/", s.UploadAlgorithm)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetAlgorithm)
			r.Put("/", s.UploadAlgorithm)
			r.Get("/check", s.CheckAlgorithm)
			r.Get("/lines", s.GetLines)
			r.Post("/run", s.RunAlgorithm)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunRequest is the body of POST /algorithms/{id}/run.
type RunRequest struct {
	Values map[string]string `json:"values,omitempty"`
}

// LinesResponse is the body of GET /algorithms/{id}/lines.
type LinesResponse struct {
	Settings []domain.EditorLine `json:"settings"`
	Lines    []domain.EditorLine `json:"lines"`
}

// CatalogEvent is broadcast on /events whenever an algorithm is published.
type CatalogEvent struct {
	Type       string    `json:"type"`
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	LastUpdate time.Time `json:"last_update"`
}

// ListAlgorithms handles GET /algorithms.
func (s *Server) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Catalog.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

// GetAlgorithm handles GET /algorithms/{id}.
func (s *Server) GetAlgorithm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.Catalog.Download(r.Context(), id)
	if err != nil {
		s.fail(w, "Download", err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// CheckAlgorithm handles GET /algorithms/{id}/check.
func (s *Server) CheckAlgorithm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.Catalog.Check(r.Context(), id)
	if err != nil {
		s.fail(w, "Check", err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// UploadAlgorithm handles POST /algorithms and PUT /algorithms/{id}.
func (s *Server) UploadAlgorithm(w http.ResponseWriter, r *http.Request) {
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Upload: Invalid request body", "err", err)
		return
	}
	status := http.StatusCreated
	if chi.URLParam(r, "id") != "" {
		id, ok := s.pathID(w, r)
		if !ok {
			return
		}
		rec.RemoteID = id
		status = http.StatusOK
	}

	stored, err := s.Catalog.Upload(r.Context(), &rec)
	if err != nil {
		s.fail(w, "Upload", err)
		return
	}
	s.Logger.Info("algorithm published", "id", stored.RemoteID, "name", stored.Name)

	if bytes, err := json.Marshal(CatalogEvent{
		Type:       "published",
		ID:         stored.RemoteID,
		Name:       stored.Name,
		LastUpdate: stored.LastUpdate,
	}); err == nil {
		s.Streams.Broadcast(string(bytes))
	}
	s.writeJSON(w, status, stored)
}

// GetLines handles GET /algorithms/{id}/lines.
func (s *Server) GetLines(w http.ResponseWriter, r *http.Request) {
	alg, ok := s.algorithm(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, LinesResponse{
		Settings: alg.Settings(),
		Lines:    alg.EditorLines(),
	})
}

// RunAlgorithm handles POST /algorithms/{id}/run. The run is headless: inputs
// not given in the body take their defaults.
func (s *Server) RunAlgorithm(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("Run: Invalid request body", "err", err)
			return
		}
	}
	for name, value := range body.Values {
		clean, err := runner.SanitizeInput(value)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input %q: %v", name, err), http.StatusBadRequest)
			s.Logger.Warn("Run: Input rejected", "err", err, "size", len(value))
			return
		}
		body.Values[name] = clean
	}

	alg, ok := s.algorithm(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.RunTimeout)
	defer cancel()

	p, err := s.Executor(ctx, alg, body.Values, domain.WithProcessLogger(s.Logger))
	if err != nil {
		s.fail(w, "Run", err)
		return
	}
	select {
	case <-p.Done():
	case <-ctx.Done():
		s.Logger.Warn("Run: cancelled", "run_id", p.ID, "err", ctx.Err())
		p.Cancel()
		<-p.Done()
	}
	s.writeJSON(w, http.StatusOK, p.Snapshot())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "delta-http",
		"version": strings.TrimSpace(delta.Version),
	})
}

// SubscribeEvents handles GET /events, a server-sent event stream of
// catalog changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.Streams.Subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// algorithm downloads and compiles the algorithm named by the path.
func (s *Server) algorithm(w http.ResponseWriter, r *http.Request) (*algorithm.Algorithm, bool) {
	id, ok := s.pathID(w, r)
	if !ok {
		return nil, false
	}
	rec, err := s.Catalog.Download(r.Context(), id)
	if err != nil {
		s.fail(w, "Download", err)
		return nil, false
	}
	alg, err := algorithm.FromRecord(rec)
	if err != nil {
		s.fail(w, "Compile", err)
		return nil, false
	}
	return alg, true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid algorithm id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	var parseErr *compiler.ParseError
	switch {
	case errors.Is(err, domain.ErrAlgorithmNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &parseErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.Logger.Error(op+" failed", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
