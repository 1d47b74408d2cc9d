// Package metrics holds the prometheus collectors for catalog calls and
// stream extraction.
package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "anistream"

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeError  = "error"
	OutcomeShape  = "malformed"
	OutcomeBypass = "bypass"
)

var (
	Registry = prometheus.NewRegistry()

	CatalogRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_requests_total",
		Help:      "Catalog queries by operation and outcome.",
	}, []string{"op", "outcome"})

	Extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Source extractions by provider, response shape and outcome.",
	}, []string{"provider", "shape", "outcome"})

	ResolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "resolve_duration_seconds",
		Help:      "Time to resolve all sources of one episode.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
	})
)

func init() {
	Registry.MustRegister(CatalogRequests, Extractions, ResolveDuration)
}

func ObserveCatalog(op, outcome string) {
	CatalogRequests.WithLabelValues(op, outcome).Inc()
}

func ObserveExtraction(provider, shape, outcome string) {
	Extractions.WithLabelValues(provider, shape, outcome).Inc()
}

func ObserveResolve(start time.Time) {
	ResolveDuration.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background. An empty addr is a no-op.
func Serve(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics server stopped", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
	slog.Debug("metrics listening", slog.String("addr", addr))
	return srv
}
