package domain

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/delta/pkg/token"
	"github.com/google/uuid"
)

// Process is the environment of a single algorithm run.
//
// Variables are guarded by a mutex so that observers (a CLI printing progress,
// an HTTP handler serving a snapshot) may read them while the run goroutine
// writes. The cancellation flag is write-once.
type Process struct {
	ID string

	mu     sync.RWMutex
	vars   map[string]token.Token
	output []string

	printer   func(string)
	logger    *slog.Logger
	cancelled atomic.Bool

	done     chan struct{}
	doneOnce sync.Once
}

// ProcessOption configures a Process.
type ProcessOption func(*Process)

// WithPrinter registers a sink receiving every printed line as it is produced.
func WithPrinter(fn func(string)) ProcessOption {
	return func(p *Process) {
		p.printer = fn
	}
}

// WithProcessLogger sets the logger actions trace through.
func WithProcessLogger(logger *slog.Logger) ProcessOption {
	return func(p *Process) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProcessID overrides the generated run ID.
func WithProcessID(id string) ProcessOption {
	return func(p *Process) {
		if id != "" {
			p.ID = id
		}
	}
}

// NewProcess creates an empty process with a fresh run ID.
func NewProcess(opts ...ProcessOption) *Process {
	p := &Process{
		ID:     uuid.NewString(),
		vars:   make(map[string]token.Token),
		logger: slog.New(slog.DiscardHandler),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("run_id", p.ID)
	return p
}

// Lookup implements token.Variables.
func (p *Process) Lookup(name string) (token.Token, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.vars[name]
	return t, ok
}

// Get returns the value bound to name.
func (p *Process) Get(name string) (token.Token, bool) {
	return p.Lookup(name)
}

// Set binds name to value, replacing any previous binding.
func (p *Process) Set(name string, value token.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vars[name] = value
}

// Variables returns a copy of the current bindings.
func (p *Process) Variables() map[string]token.Token {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]token.Token, len(p.vars))
	for k, v := range p.vars {
		out[k] = v
	}
	return out
}

// Print appends a line to the process output.
func (p *Process) Print(text string) {
	p.mu.Lock()
	p.output = append(p.output, text)
	p.mu.Unlock()
	if p.printer != nil {
		p.printer(text)
	}
}

// Output returns every line printed so far.
func (p *Process) Output() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.output...)
}

// Cancel requests the run to stop. Loops observe it before each iteration.
func (p *Process) Cancel() {
	p.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called.
func (p *Process) Cancelled() bool {
	return p.cancelled.Load()
}

// Logger returns the run-scoped logger.
func (p *Process) Logger() *slog.Logger {
	return p.logger
}

// Finish marks the run as ended. Safe to call more than once.
func (p *Process) Finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Done is closed when the run ends, whether it completed or was cancelled.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Snapshot captures the current state of the process.
func (p *Process) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := &Snapshot{
		RunID:     p.ID,
		Variables: make(map[string]string, len(p.vars)),
		Output:    append([]string(nil), p.output...),
		Cancelled: p.cancelled.Load(),
	}
	for k, v := range p.vars {
		s.Variables[k] = v.String()
	}
	select {
	case <-p.done:
		s.Finished = true
	default:
	}
	return s
}
