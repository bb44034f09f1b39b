package runner

import (
	"context"

	"github.com/aretw0/delta/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Prompt asks for the value of an input. An empty answer keeps the default.
	Prompt(ctx context.Context, in domain.Input) (string, error)

	// Output presents one printed line. It is called from the run goroutine.
	Output(ctx context.Context, line string) error

	// SystemOutput presents a meta-message (cancellation, warnings).
	SystemOutput(ctx context.Context, msg string) error

	// Done reports the final state of the run.
	Done(ctx context.Context, snap *domain.Snapshot) error
}

// ContentRenderer transforms a printed line before it is written.
// This allows terminal styling without coupling the runner to a TUI package.
type ContentRenderer func(string) (string, error)
