package logging

import (
	"context"
	"log/slog"

	"github.com/aretw0/delta/pkg/domain"
)

// Hooks returns lifecycle hooks that log every engine event on logger.
func Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "algorithm_id", e.AlgorithmID, "run_id", e.RunID)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_end",
				"algorithm_id", e.AlgorithmID,
				"run_id", e.RunID,
				"duration", e.Duration,
				"cancelled", e.Cancelled,
			)
		},
		OnEdit: func(ctx context.Context, e *domain.EditEvent) {
			logger.InfoContext(ctx, "edit", "algorithm_id", e.AlgorithmID, "operation", e.Operation, "index", e.Index)
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			logger.InfoContext(ctx, "sync", "algorithm_id", e.AlgorithmID, "from", e.From, "to", e.To)
		},
	}
}
