package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Feed ingestion metrics.
	FeedFetches        *prometheus.CounterVec // labels: outcome={success,network,status,decode}
	FeedFetchDuration  prometheus.Histogram
	FeedSkippedRecords prometheus.Counter
	FeedStaleDiscarded prometheus.Counter
	FeedEvents         prometheus.Gauge
	PipelineRunning    prometheus.Gauge

	// Snapshot publishing metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Insight metrics.
	InsightRequests   *prometheus.CounterVec // labels: outcome={pending,ignored,no_data,missing_credential}
	InsightResponses  *prometheus.CounterVec // labels: outcome={success,network,quota_or_auth,unknown,stale}
	ModelCallDuration prometheus.Histogram
	InsightAvailable  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all metrics and registers them with reg.
// It panics if any of them is already registered there.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.FeedSkippedRecords,
		m.FeedStaleDiscarded,
		m.FeedEvents,
		m.PipelineRunning,
		m.EventsPublished,
		m.PublishErrors,
		m.InsightRequests,
		m.InsightResponses,
		m.ModelCallDuration,
		m.InsightAvailable,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by outcome.",
		}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a feed fetch including decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeedSkippedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "feed_skipped_records_total",
			Help:      "Feed features dropped because they failed validation.",
		}),
		FeedStaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "feed_stale_discarded_total",
			Help:      "Fetch completions rejected because a newer fetch was already applied.",
		}),
		FeedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "feed_events",
			Help:      "Number of events in the current snapshot.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "events_published_total",
			Help:      "Events written to the snapshot topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "publish_errors_total",
			Help:      "Snapshot publish failures.",
		}),
		InsightRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "insight_requests_total",
			Help:      "Insight submissions by outcome.",
		}, []string{"outcome"}),
		InsightResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "insight_responses_total",
			Help:      "Language-model completions by outcome.",
		}, []string{"outcome"}),
		ModelCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "model_call_duration_seconds",
			Help:      "Language-model request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}),
		InsightAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "insight_available",
			Help:      "1 when a language-model credential is configured, 0 otherwise.",
		}),
	}
}
