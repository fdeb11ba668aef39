package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather client core.
type Metrics struct {
	APIRequests        *prometheus.CounterVec   // labels: operation, outcome={success,<error tag>}
	APIRequestDuration *prometheus.HistogramVec // labels: operation

	// Controller metrics.
	Searches          *prometheus.CounterVec // labels: outcome={success,<error tag>,stale}
	ControllerLoading prometheus.Gauge

	// Autocomplete cache and auto-refresh.
	SearchCache        *prometheus.CounterVec // labels: result={hit,miss}
	AutoRefreshEnabled prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.Searches,
		m.ControllerLoading,
		m.SearchCache,
		m.AutoRefreshEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdeck",
			Name:      "api_requests_total",
			Help:      "Backend API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weatherdeck",
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"operation"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdeck",
			Name:      "searches_total",
			Help:      "User search resolutions by outcome.",
		}, []string{"outcome"}),
		ControllerLoading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherdeck",
			Name:      "controller_loading",
			Help:      "1 while a search request is in flight, 0 otherwise.",
		}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdeck",
			Name:      "search_cache_total",
			Help:      "City-search cache lookups by result.",
		}, []string{"result"}),
		AutoRefreshEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherdeck",
			Name:      "auto_refresh_enabled",
			Help:      "1 when the auto-refresh ticker is armed, 0 otherwise.",
		}),
	}
}
