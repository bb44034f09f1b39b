package cli

import (
	"context"
	"crypto/md5"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/delta"
)

// WatchInterval is how often a watched program file is checked for changes.
var WatchInterval = 500 * time.Millisecond

// RunWatch runs the program at path headlessly every time its content changes,
// until ctx is done. Compile errors are reported and the previous run stands.
func RunWatch(ctx context.Context, eng *delta.Engine, logger *slog.Logger, path string, opts RunOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	opts.Headless = true
	opts.Quiet = true

	logger.Info("starting watcher", "path", path)
	printSystemMessage(opts.Out, "Watching '%s'.", path)

	ticker := time.NewTicker(WatchInterval)
	defer ticker.Stop()

	var last [md5.Size]byte
	for {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("watch read failed", "path", path, "err", err)
		} else if sum := md5.Sum(data); sum != last {
			last = sum
			runWatchIteration(ctx, eng, logger, path, opts)
		}

		select {
		case <-ctx.Done():
			printSystemMessage(opts.Out, "Watcher stopped.")
			return nil
		case <-ticker.C:
		}
	}
}

func runWatchIteration(ctx context.Context, eng *delta.Engine, logger *slog.Logger, path string, opts RunOptions) {
	alg, err := LoadFile(path)
	if err != nil {
		printSystemMessage(opts.Out, "Compile error: %v", err)
		return
	}
	printSystemMessage(opts.Out, "Running '%s'.", alg.Name)
	if _, err := Execute(ctx, eng, logger, alg, opts); err != nil {
		printSystemMessage(opts.Out, "Run failed: %v", err)
	}
}
