package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/internal/metrics"
	"github.com/aretw0/delta/pkg/adapters/file"
	httpadapter "github.com/aretw0/delta/pkg/adapters/http"
	loamadapter "github.com/aretw0/delta/pkg/adapters/loam"
	"github.com/aretw0/delta/pkg/adapters/memory"
	redisadapter "github.com/aretw0/delta/pkg/adapters/redis"
	"github.com/aretw0/delta/pkg/persistence/middleware"
	"github.com/aretw0/delta/pkg/ports"
)

// Stack is the wiring shared by every command: one engine over the
// configured store, with logging and metrics hooked in.
type Stack struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Engine  *delta.Engine
	Remote  *httpadapter.Client // nil without a remote URL

	closers []func() error
}

// Close releases store connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewLogger builds the application logger from cfg. Logs go to w and, when
// cfg.LogFile is set, to that file as JSON. The returned closer is never nil.
func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	opts := logging.Options{Writer: w, JSON: cfg.LogFormat == "json"}
	closer := func() error { return nil }

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		opts.Extra = append(opts.Extra, slog.NewJSONHandler(f, logging.HandlerOptions(level)))
		closer = f.Close
	}
	return logging.New(level, opts), closer, nil
}

// Build wires a Stack from cfg.
func Build(cfg *config.Config, logWriter io.Writer) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, closeLog, err := NewLogger(cfg, logWriter)
	if err != nil {
		return nil, err
	}

	store, locker, closer, err := OpenStore(cfg.Store)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	s := &Stack{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(true),
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	s.closers = append(s.closers, closeLog)

	opts := []delta.Option{
		delta.WithStore(store),
		delta.WithLogger(logger),
		delta.WithLifecycleHooks(metrics.Chain(s.Metrics.Hooks(), logging.Hooks(logger))),
	}
	if locker != nil {
		opts = append(opts, delta.WithLocker(locker), delta.WithLockTTL(cfg.Store.Redis.LockTTL))
	}
	if cfg.Remote.URL != "" {
		s.Remote = httpadapter.NewClient(cfg.Remote.URL, cfg.Remote.Timeout)
		opts = append(opts, delta.WithRemote(s.Remote))
	}
	s.Engine = delta.New(opts...)

	logger.Debug("stack ready", "backend", cfg.Store.Backend, "remote", cfg.Remote.URL)
	return s, nil
}

// OpenStore opens the configured backend. The redis backend also provides a
// distributed locker and a closer; the others return nil for both.
func OpenStore(cfg config.StoreConfig) (ports.AlgorithmStore, ports.DistributedLocker, func() error, error) {
	var (
		store  ports.AlgorithmStore
		locker ports.DistributedLocker
		closer func() error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Path)
	case config.BackendLoam:
		s, err := loamadapter.Open(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		store = s
	case config.BackendRedis:
		s := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithPrefix(cfg.Redis.Prefix),
			redisadapter.WithTTL(cfg.Redis.TTL),
		)
		store = s
		locker = redisadapter.NewLocker(s.Client(), cfg.Redis.Prefix+"lock:")
		closer = s.Close
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			if closer != nil {
				_ = closer()
			}
			return nil, nil, nil, err
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return store, locker, closer, nil
}
