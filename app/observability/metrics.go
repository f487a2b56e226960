package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for overlay sessions.
type Metrics struct {
	SessionsActive prometheus.Gauge

	// Earthquake metrics.
	QuakePolls         *prometheus.CounterVec   // labels: outcome={shown,suppressed,unchanged,stale,empty,error,disabled}
	QuakeFetchAttempts *prometheus.CounterVec   // labels: route={proxy,direct,fallback}, result={ok,error}
	QuakeFetchDuration prometheus.Histogram

	// News metrics.
	NewsFetches *prometheus.CounterVec // labels: outcome={ok,error,unchanged}

	// Playback and delivery.
	AlertsPlayed  *prometheus.CounterVec // labels: level={1,2}
	FramesDropped prometheus.Counter
	TasksSkipped  *prometheus.CounterVec // labels: task
}

// NewMetrics creates and registers all overlay metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SessionsActive,
		m.QuakePolls,
		m.QuakeFetchAttempts,
		m.QuakeFetchDuration,
		m.NewsFetches,
		m.AlertsPlayed,
		m.FramesDropped,
		m.TasksSkipped,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obs_overlay",
			Name:      "sessions_active",
			Help:      "Overlay pages currently connected.",
		}),
		QuakePolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "quake_polls_total",
			Help:      "Earthquake poll cycles by outcome.",
		}, []string{"outcome"}),
		QuakeFetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "quake_fetch_attempts_total",
			Help:      "Earthquake history requests by route and result.",
		}, []string{"route", "result"}),
		QuakeFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "obs_overlay",
			Name:      "quake_fetch_duration_seconds",
			Help:      "Earthquake history fetch duration including fallbacks.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		NewsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "news_fetches_total",
			Help:      "RSS refreshes by outcome.",
		}, []string{"outcome"}),
		AlertsPlayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "alerts_played_total",
			Help:      "Alert sound playbacks by level.",
		}, []string{"level"}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "frames_dropped_total",
			Help:      "Display frames dropped for slow overlay pages.",
		}),
		TasksSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_overlay",
			Name:      "tasks_skipped_total",
			Help:      "Task runs dropped because the worker queue was full.",
		}, []string{"task"}),
	}
}
