// Package metrics provides Prometheus metrics for the Lumen shell.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check results recorded by ObserveCheck.
const (
	CheckUpToDate  = "up_to_date"
	CheckAvailable = "available"
	CheckFailed    = "failed"
)

// Metrics holds the update-cycle metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UpdateChecks     *prometheus.CounterVec
	StageTransitions *prometheus.CounterVec
	DownloadBytes    prometheus.Counter
	DownloadDuration prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a Metrics instance with all metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.UpdateChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_update_checks_total",
			Help: "Update manifest checks by result",
		},
		[]string{"result"},
	)

	m.StageTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_update_stage_transitions_total",
			Help: "Update cycle stage transitions by target stage",
		},
		[]string{"to"},
	)

	m.DownloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lumen_update_download_bytes_total",
		Help: "Installer bytes written to disk",
	})

	m.DownloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lumen_update_download_duration_seconds",
		Help:    "Duration of installer downloads",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	m.registry.MustRegister(
		m.UpdateChecks,
		m.StageTransitions,
		m.DownloadBytes,
		m.DownloadDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCheck counts one manifest check.
func (m *Metrics) ObserveCheck(result string) {
	if m == nil {
		return
	}
	m.UpdateChecks.WithLabelValues(result).Inc()
}

// ObserveStage counts a transition into stage.
func (m *Metrics) ObserveStage(stage string) {
	if m == nil {
		return
	}
	m.StageTransitions.WithLabelValues(stage).Inc()
}

// ObserveDownload records a finished installer download.
func (m *Metrics) ObserveDownload(bytes int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	if bytes > 0 {
		m.DownloadBytes.Add(float64(bytes))
	}
	m.DownloadDuration.Observe(elapsed.Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
