package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
)

// Executor starts a run of alg seeded with values.
type Executor func(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error)

// Runner handles one interactive execution of an algorithm.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging. Defaults to a no-op logger.
	Logger *slog.Logger

	// Headless disables prompting.
	Headless bool

	// Values are preset input values.
	Values map[string]string

	// Executor starts the run. Defaults to Algorithm.Run.
	Executor Executor

	// InterruptSource cancels the run when it fires or is closed.
	InterruptSource <-chan struct{}
}

// NewRunner creates a Runner configured by opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func directExecutor(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error) {
	return alg.Run(values, nil, opts...), nil
}

// Run prompts for the algorithm's inputs, executes it and waits for the end.
// An interrupt (OS signal, ctx or InterruptSource) cancels the run; the
// returned snapshot then reports Cancelled and err is nil.
func (r *Runner) Run(ctx context.Context, alg *algorithm.Algorithm) (*domain.Snapshot, error) {
	handler := r.resolveHandler()
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	exec := r.Executor
	if exec == nil {
		exec = directExecutor
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	values, err := r.collect(signals, handler, alg.Inputs)
	if err != nil {
		return nil, err
	}

	sigCtx := signals.Context()
	p, err := exec(sigCtx, alg, values,
		domain.WithProcessLogger(logger),
		domain.WithPrinter(func(line string) {
			if err := handler.Output(sigCtx, line); err != nil {
				logger.Warn("output failed", "err", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	logger.Debug("run started", "run_id", p.ID, "algorithm", alg.Name)

	select {
	case <-p.Done():
	case <-sigCtx.Done():
		r.cancel(p, logger, "signal")
	case <-r.InterruptSource:
		r.cancel(p, logger, "interrupt")
	}

	snap := p.Snapshot()
	// The run may already be gone while the caller's context is cancelled.
	if err := handler.Done(context.WithoutCancel(ctx), snap); err != nil {
		return snap, fmt.Errorf("output error: %w", err)
	}
	return snap, nil
}

func (r *Runner) cancel(p *domain.Process, logger *slog.Logger, cause string) {
	logger.Debug("cancelling run", "run_id", p.ID, "cause", cause)
	p.Cancel()
	<-p.Done()
}

// collect merges preset values with answers to prompts. EOF stops prompting;
// remaining inputs keep their defaults.
func (r *Runner) collect(signals *SignalManager, handler IOHandler, inputs []domain.Input) (map[string]string, error) {
	values := make(map[string]string, len(r.Values)+len(inputs))
	maps.Copy(values, r.Values)
	if r.Headless {
		return values, nil
	}

	for _, in := range inputs {
		if _, ok := values[in.Name]; ok {
			continue
		}
		val, err := handler.Prompt(signals.Context(), in)
		if err != nil {
			signals.CheckRace()
			if signals.Context().Err() != nil {
				return nil, fmt.Errorf("interrupted: %w", signals.Context().Err())
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("input error: %w", err)
		}
		if val != "" {
			values[in.Name] = val
		}
	}
	return values, nil
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}
