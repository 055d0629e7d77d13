// Package metrics holds the prometheus collectors for model resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "modelload"

// Metrics groups every collector exported by modelload.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions     *prometheus.CounterVec
	DownloadBytes   *prometheus.CounterVec
	DownloadErrors  *prometheus.CounterVec
	RegistryLookups *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them in a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Model references resolved, by reference kind.",
		}, []string{"kind"}),
		DownloadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Bytes written to temporary model files, by reference kind.",
		}, []string{"kind"}),
		DownloadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_errors_total",
			Help:      "Failed downloads, by reference kind.",
		}, []string{"kind"}),
		RegistryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_lookups_total",
			Help:      "Model registry download-info lookups, by outcome.",
		}, []string{"outcome"}),
		ResolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent resolving a model reference to a local file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.Resolutions,
		m.DownloadBytes,
		m.DownloadErrors,
		m.RegistryLookups,
		m.ResolveDuration,
	)

	return m
}

// ObserveResolve records one resolution of the given kind.
func (m *Metrics) ObserveResolve(kind string, started time.Time) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind).Inc()
	m.ResolveDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// AddDownloaded records bytes written for a download of the given kind.
func (m *Metrics) AddDownloaded(kind string, n int64) {
	if m == nil {
		return
	}
	m.DownloadBytes.WithLabelValues(kind).Add(float64(n))
}

// DownloadFailed records a failed download of the given kind.
func (m *Metrics) DownloadFailed(kind string) {
	if m == nil {
		return
	}
	m.DownloadErrors.WithLabelValues(kind).Inc()
}

// RegistryLookup records a registry lookup outcome ("ok" or "error").
func (m *Metrics) RegistryLookup(outcome string) {
	if m == nil {
		return
	}
	m.RegistryLookups.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes every metric in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
