package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless skips prompting; unset inputs take their defaults.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithValues presets input values. Preset inputs are never prompted.
func WithValues(values map[string]string) Option {
	return func(r *Runner) {
		r.Values = values
	}
}

// WithExecutor replaces how a run is started, e.g. to go through an engine
// that records hooks and metrics.
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		r.Executor = exec
	}
}

// WithInterruptSource sets a channel that cancels the current run when signalled.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}
