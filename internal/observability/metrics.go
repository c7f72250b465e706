package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tourism"

// Metrics holds the Prometheus collectors for seeding, storage and the dashboard.
type Metrics struct {
	PointsGenerated  *prometheus.CounterVec // labels: city
	SeedRuns         *prometheus.CounterVec // labels: dataset={tourism,snapshots}, outcome={success,skipped,error}
	SeedDuration     *prometheus.HistogramVec
	StoreErrors      *prometheus.CounterVec // labels: op
	MessagesProduced prometheus.Counter

	DashboardRenders *prometheus.CounterVec // labels: view={page,sse,api,chart}
	SnapshotsLoaded  prometheus.Gauge
	SnapshotFallback prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		PointsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_generated_total",
			Help:      "Month points produced by the series generator, by city.",
		}, []string{"city"}),
		SeedRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_runs_total",
			Help:      "Seeding runs by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		SeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "seed_duration_seconds",
			Help:      "Duration of a complete seeding run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store operations that failed, by operation.",
		}, []string{"op"}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Month points published to Kafka.",
		}),
		DashboardRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_renders_total",
			Help:      "Dashboard responses rendered, by view.",
		}, []string{"view"}),
		SnapshotsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_snapshots_loaded",
			Help:      "Number of city snapshots held by the dashboard.",
		}),
		SnapshotFallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_snapshot_fallback",
			Help:      "1 when the dashboard serves built-in snapshots because the store was unavailable.",
		}),
	}
}

// NewMetrics creates all metrics and registers them with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all metrics and registers them with reg.
// One-shot commands pass a private registry since nothing scrapes them.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.PointsGenerated,
		m.SeedRuns,
		m.SeedDuration,
		m.StoreErrors,
		m.MessagesProduced,
		m.DashboardRenders,
		m.SnapshotsLoaded,
		m.SnapshotFallback,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
