package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/pkg/adapters/file"
	httpadapter "github.com/aretw0/delta/pkg/adapters/http"
	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/persistence/middleware"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/aretw0/delta/pkg/registry"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync server",
	Long: `Serves the published algorithm catalog over HTTP: list, download, upload,
update checks, editor lines and headless runs. An empty catalog is seeded with
the default algorithms.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		catalog := registry.NewRegistry(catalogStore(cfg.Server))
		if err := catalog.Seed(ctx, defaultRecords()...); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		srv := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: httpadapter.NewHandler(catalog,
				httpadapter.WithLogger(s.Logger),
				httpadapter.WithExecutor(s.Engine.Start),
				httpadapter.WithMetrics(s.Metrics.Handler()),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			s.Logger.Info("starting delta server", "addr", srv.Addr, "catalog", cfg.Server.CatalogPath)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			s.Logger.Info("shutting down delta server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

// catalogStore keeps published algorithms on disk when a path is configured.
// Notes are redacted before they are stored.
func catalogStore(sc config.ServerConfig) ports.AlgorithmStore {
	var store ports.AlgorithmStore = memory.NewStore()
	if sc.CatalogPath != "" {
		store = file.New(sc.CatalogPath)
	}
	if len(sc.Redact) > 0 {
		store = middleware.Chain(store, middleware.NewPIIMiddleware(sc.Redact))
	}
	return store
}

func defaultRecords() []*domain.Record {
	defaults := algorithm.Defaults()
	recs := make([]*domain.Record, len(defaults))
	for i, a := range defaults {
		recs[i] = a.Record()
	}
	return recs
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
