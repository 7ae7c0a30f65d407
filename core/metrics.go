package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the loader's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	ArtifactsScanned prometheus.Counter
	ModulesLoaded    prometheus.Counter
	ModulesUnloaded  prometheus.Counter
	ModulesActive    prometheus.Gauge
	Failures         *prometheus.CounterVec
	HookDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ArtifactsScanned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fracton",
			Name:      "artifacts_scanned_total",
			Help:      "Artifacts opened and scanned for module candidates.",
		}),
		ModulesLoaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fracton",
			Name:      "modules_loaded_total",
			Help:      "Modules that completed their enable hooks.",
		}),
		ModulesUnloaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fracton",
			Name:      "modules_unloaded_total",
			Help:      "Modules removed from the registry by unload or rollback.",
		}),
		ModulesActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "fracton",
			Name:      "modules_active",
			Help:      "Modules currently registered.",
		}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fracton",
			Name:      "failures_total",
			Help:      "Load and unload failures by stage.",
		}, []string{"stage"}),
		HookDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fracton",
			Name:      "hook_duration_seconds",
			Help:      "Time spent in module lifecycle hooks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"phase"}),
	}
}

func (m *Metrics) observeHook(p Phase, d time.Duration) {
	if m == nil {
		return
	}
	m.HookDuration.WithLabelValues(string(p)).Observe(d.Seconds())
}

func (m *Metrics) failed(s Stage) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) scanned() {
	if m == nil {
		return
	}
	m.ArtifactsScanned.Inc()
}

func (m *Metrics) loaded() {
	if m == nil {
		return
	}
	m.ModulesLoaded.Inc()
	m.ModulesActive.Inc()
}

func (m *Metrics) unloaded() {
	if m == nil {
		return
	}
	m.ModulesUnloaded.Inc()
	m.ModulesActive.Dec()
}
