// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"day-buckets/internal/domain"
)

// Run statuses used as label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Aggregation metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	SamplesIngested   prometheus.Counter
	DuplicatesDropped prometheus.Counter

	// Storage metrics
	PointsStored *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "buckets"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "runs_total",
			Help:      "Total number of aggregation runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "run_duration_seconds",
			Help:      "Aggregation run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SamplesIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "samples_ingested_total",
			Help:      "Total number of raw samples accepted",
		}),
		DuplicatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "duplicates_dropped_total",
			Help:      "Total number of samples dropped for a repeated timestamp",
		}),

		PointsStored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "points_stored_total",
			Help:      "Total number of series points stored by resolution",
		}, []string{"resolution"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful aggregation run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordRun records a finished run. A nil err counts as success.
func (m *Metrics) RecordRun(duration time.Duration, finishedAt time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
	if err == nil {
		m.LastSuccessfulRun.Set(float64(finishedAt.Unix()))
	}
}

// RecordIngestion records accepted samples and dropped duplicates.
func (m *Metrics) RecordIngestion(samples, duplicates int) {
	m.SamplesIngested.Add(float64(samples))
	m.DuplicatesDropped.Add(float64(duplicates))
}

// RecordPointsStored records points written for one resolution.
func (m *Metrics) RecordPointsStored(res domain.Resolution, points int) {
	m.PointsStored.WithLabelValues(res.String()).Add(float64(points))
}
