package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	lookups       *prometheus.CounterVec
	ingested      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastSync      prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New registers the recorder on the default registry served at /metrics.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrobot_lookups_total",
				Help: "Indicator lookups by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		ingested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrobot_observations_ingested_total",
				Help: "Observations written by sync, by series and upsert result",
			},
			[]string{"series", "result"},
		),
		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrobot_notifications_total",
				Help: "Digest notification cycles by result",
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrobot_errors_total",
				Help: "Errors encountered, by kind",
			},
			[]string{"type"},
		),
		lastSync: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "macrobot_last_sync_timestamp_seconds",
				Help: "Unix time of the last completed sync run",
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macrobot_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordLookup counts a lookup. outcome is ok, no_data, not_recognized or error.
func (r *Recorder) RecordLookup(strategy, outcome string) {
	r.lookups.WithLabelValues(strategy, outcome).Inc()
}

// RecordIngested counts one upsert. result is inserted, updated or unchanged.
func (r *Recorder) RecordIngested(series, result string) {
	r.ingested.WithLabelValues(series, result).Inc()
}

func (r *Recorder) RecordNotification(result string) {
	r.notifications.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordSync(at time.Time) {
	r.lastSync.Set(float64(at.Unix()))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
