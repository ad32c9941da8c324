package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disaster_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Upstream fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	FetchCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Normalization metrics.
	EventsNormalized prometheus.Counter
	EventsDropped    *prometheus.CounterVec // labels: reason={no_geometry,missing_coordinates,missing_date,invalid_date}
	TableRows        prometheus.Gauge

	// Presentation metrics.
	ViewRenders *prometheus.CounterVec // labels: status={ok,fetch_error,empty,no_match}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all dashboard metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Upstream EONET requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream EONET request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cache_total",
			Help:      "Event cache lookups by result.",
		}, []string{"result"}),
		EventsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_normalized_total",
			Help:      "Raw events converted into table rows.",
		}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Raw events dropped during normalization by reason.",
		}, []string{"reason"}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows in the most recently built event table.",
		}),
		ViewRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_renders_total",
			Help:      "Dashboard views rendered by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.FetchCache,
		m.EventsNormalized,
		m.EventsDropped,
		m.TableRows,
		m.ViewRenders,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds"}),
		FetchCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_cache_total"}, []string{"result"}),
		EventsNormalized: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "events_normalized_total"}),
		EventsDropped:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "events_dropped_total"}, []string{"reason"}),
		TableRows:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "table_rows"}),
		ViewRenders:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "view_renders_total"}, []string{"status"}),
	}
}
