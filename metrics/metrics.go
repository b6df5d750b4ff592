package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for FetchAttempts.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "status_error"
	OutcomeFormat    = "format_error"
)

var (
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jstclock_fetch_attempts_total",
			Help: "Total number of requests made to a time authority",
		},
		[]string{"endpoint", "outcome"}, // endpoint: primary, fallback
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jstclock_fetch_duration_seconds",
			Help:    "Time spent fetching and parsing a timestamp",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	Offset = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jstclock_offset_seconds",
			Help: "Offset added to the local clock by the most recently built resolver",
		},
	)
)

// RecordAttempt records one fetch attempt against an endpoint.
func RecordAttempt(endpoint, outcome string, seconds float64) {
	FetchAttempts.WithLabelValues(endpoint, outcome).Inc()
	FetchDuration.WithLabelValues(endpoint).Observe(seconds)
}

// SetOffset publishes the resolver offset.
func SetOffset(seconds float64) {
	Offset.Set(seconds)
}
