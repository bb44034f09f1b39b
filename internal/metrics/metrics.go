// Package metrics exposes engine activity as Prometheus metrics, fed by
// lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several engines (and tests) never clash
// on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	Cancellations *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	Edits         *prometheus.CounterVec
	Syncs         *prometheus.CounterVec
}

// New creates and registers the delta metrics. Go runtime and process
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delta_runs_total",
			Help: "Total number of algorithm runs started",
		}, []string{"algorithm_id"}),
		Cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delta_run_cancellations_total",
			Help: "Total number of runs that ended cancelled",
		}, []string{"algorithm_id"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "delta_run_duration_seconds",
			Help:    "Duration of algorithm runs",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"algorithm_id"}),
		Edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delta_edits_total",
			Help: "Total number of structural and value edits",
		}, []string{"operation"}),
		Syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delta_sync_transitions_total",
			Help: "Synchronization status transitions",
		}, []string{"status"}),
	}
	m.Registry.MustRegister(m.Runs, m.Cancellations, m.RunDuration, m.Edits, m.Syncs)
	if withRuntime {
		m.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.AlgorithmID).Inc()
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			m.RunDuration.WithLabelValues(e.AlgorithmID).Observe(e.Duration.Seconds())
			if e.Cancelled {
				m.Cancellations.WithLabelValues(e.AlgorithmID).Inc()
			}
		},
		OnEdit: func(ctx context.Context, e *domain.EditEvent) {
			m.Edits.WithLabelValues(e.Operation).Inc()
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			m.Syncs.WithLabelValues(string(e.To)).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Chain merges hooks so each event reaches every non-nil callback in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
		OnEdit: func(ctx context.Context, e *domain.EditEvent) {
			for _, h := range hooks {
				if h.OnEdit != nil {
					h.OnEdit(ctx, e)
				}
			}
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			for _, h := range hooks {
				if h.OnSync != nil {
					h.OnSync(ctx, e)
				}
			}
		},
	}
}
