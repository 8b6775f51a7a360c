package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"AgriPulse/internal/domain/models"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agripulse",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of forecast endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agripulse",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by forecast endpoint",
		},
		[]string{"endpoint"},
	)

	SignalScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agripulse",
			Subsystem: "engine",
			Name:      "signal_score",
			Help:      "Latest raw score per crisis signal",
		},
		[]string{"signal"},
	)

	SignalDegraded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agripulse",
			Subsystem: "engine",
			Name:      "signal_degraded",
			Help:      "1 when the signal fell back to its neutral default",
		},
		[]string{"signal"},
	)

	CrisisIntensity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agripulse",
			Subsystem: "engine",
			Name:      "crisis_intensity",
			Help:      "Latest crisis intensity on the 0-100 scale",
		},
	)

	CompositeScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agripulse",
			Subsystem: "engine",
			Name:      "composite_score",
			Help:      "Latest composite market score in [0, 1]",
		},
	)

	ActiveRegime = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agripulse",
			Subsystem: "engine",
			Name:      "active_regime",
			Help:      "1 for the currently classified regime, 0 otherwise",
		},
		[]string{"regime"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			EndpointLatency,
			EndpointErrors,
			SignalScore,
			SignalDegraded,
			CrisisIntensity,
			CompositeScore,
			ActiveRegime,
		)
	})
}

// ObserveReport publishes one evaluation's outcome to the engine gauges.
func ObserveReport(r *models.ForecastReport) {
	if r == nil {
		return
	}
	for name, snap := range r.Signals {
		SignalScore.WithLabelValues(string(name)).Set(snap.Score)
		degraded := 0.0
		if snap.Degraded {
			degraded = 1
		}
		SignalDegraded.WithLabelValues(string(name)).Set(degraded)
	}
	CompositeScore.Set(r.CompositeScore)
	CrisisIntensity.Set(r.CrisisIntensity)
	for _, regime := range models.AllRegimes() {
		active := 0.0
		if regime == r.Regime {
			active = 1
		}
		ActiveRegime.WithLabelValues(string(regime)).Set(active)
	}
}
