package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "wifiscan"

// Metrics counts what the poll loop does. A nil Registerer builds
// unregistered collectors.
type Metrics struct {
	Cycles        prometheus.Counter
	Failures      prometheus.Counter
	Skipped       prometheus.Counter
	RejectedLines prometheus.Counter
	Networks      prometheus.Gauge
	CycleDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Cycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scan_cycles_total",
			Help:      "Scan cycles that produced a snapshot.",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scan_failures_total",
			Help:      "Scan cycles that failed and emitted nothing.",
		}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scan_skipped_total",
			Help:      "Scan cycles skipped for lack of a usable adapter.",
		}),
		RejectedLines: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scan_rejected_lines_total",
			Help:      "Scanner output lines dropped for having too few fields.",
		}),
		Networks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "networks_visible",
			Help:      "Access points in the most recent snapshot.",
		}),
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scan_cycle_duration_seconds",
			Help:      "Time spent in external scan queries per cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
