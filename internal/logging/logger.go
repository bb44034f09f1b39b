package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures New.
type Options struct {
	// Writer defaults to Stderr, keeping Stdout free for program output and JSON-RPC.
	Writer io.Writer
	// JSON selects the JSON handler instead of text.
	JSON bool
	// Extra handlers receive every record too (e.g. a file sink).
	Extra []slog.Handler
}

// New creates a configured application logger.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, opts ...Options) *slog.Logger {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}

	hopts := HandlerOptions(level)
	var primary slog.Handler = slog.NewTextHandler(w, hopts)
	if o.JSON {
		primary = slog.NewJSONHandler(w, hopts)
	}
	if len(o.Extra) == 0 {
		return slog.New(primary)
	}
	handlers := append([]slog.Handler{primary}, o.Extra...)
	return slog.New(slogmulti.Fanout(handlers...))
}

// HandlerOptions returns the options shared by every handler New builds, so
// that extra sinks use the same keys.
func HandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
