// Package metrics exposes Prometheus counters for the account operations
// and serves them over HTTP.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gophauth",
			Name:      "requests_total",
			Help:      "Account operations by method and outcome.",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gophauth",
			Name:      "request_duration_seconds",
			Help:      "Account operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one finished call. outcome is a short label such as "ok"
// or an error kind.
func (m *Metrics) Observe(method, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, l logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		l.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	l.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
