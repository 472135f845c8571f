package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sweep run results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the inventory service's Prometheus collectors
type Metrics struct {
	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	RequestSummary *prometheus.SummaryVec

	SweepRuns        *prometheus.CounterVec
	SweepItemsMarked prometheus.Counter
	SweepDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_requests_total",
				Help: "Total number of requests to inventory service",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_service_request_duration_seconds",
				Help:    "Duration of inventory service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// Summary metric for percentile calculation (p50, p90, p95, p99)
		RequestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "inventory_service_request_duration_summary",
				Help: "Summary of request durations with percentiles (client-side quantiles)",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
		SweepRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_sweep_runs_total",
				Help: "Total number of near-expiry sweep runs",
			},
			[]string{"result"},
		),
		SweepItemsMarked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_sweep_items_marked_total",
				Help: "Total number of items moved to near-expiry by the sweep",
			},
		),
		SweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inventory_sweep_duration_seconds",
				Help:    "Duration of near-expiry sweep runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		m.RequestCounter,
		m.RequestLatency,
		m.RequestSummary,
		m.SweepRuns,
		m.SweepItemsMarked,
		m.SweepDuration,
	)

	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, endpoint, status string, duration time.Duration) {
	m.RequestCounter.WithLabelValues(method, endpoint, status).Inc()
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.RequestSummary.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveSweep records one sweep run; marked is ignored for failed runs
func (m *Metrics) ObserveSweep(marked int64, duration time.Duration, err error) {
	m.SweepDuration.Observe(duration.Seconds())
	if err != nil {
		m.SweepRuns.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.SweepRuns.WithLabelValues(ResultSuccess).Inc()
	m.SweepItemsMarked.Add(float64(marked))
}
