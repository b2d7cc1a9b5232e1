package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the onboarding module.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	// Hydrate phase latency
	HydrateLatency prometheus.Histogram

	// Prefill contributions and failures by source
	PrefillFieldsFilled  *prometheus.CounterVec
	PrefillSourceFailure *prometheus.CounterVec

	// Step transitions by direction and intent
	StepTransitions *prometheus.CounterVec

	// Finish outcomes by intent and result
	FinishOutcome  *prometheus.CounterVec
	FinishLatency  prometheus.Histogram
	VettingFlagged *prometheus.CounterVec
}

// New registers the onboarding metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HydrateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "village_onboarding_hydrate_duration_seconds",
			Help:    "Duration of the hydrate phase (restore and prefill)",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		PrefillFieldsFilled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_onboarding_prefill_fields_total",
			Help: "Draft fields filled by prefill, by source",
		}, []string{"source"}), // source: "profile", "legacy", "identity"

		PrefillSourceFailure: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_onboarding_prefill_source_failures_total",
			Help: "Upstream read failures during prefill, by source",
		}, []string{"source"}),

		StepTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_onboarding_step_transitions_total",
			Help: "Step transitions by direction and intent",
		}, []string{"direction", "intent"}),

		FinishOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_onboarding_finish_total",
			Help: "Finish attempts by intent and result",
		}, []string{"intent", "result"}),

		FinishLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "village_onboarding_finish_duration_seconds",
			Help:    "Duration of finish including the profile upsert",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		VettingFlagged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_onboarding_vetting_types_total",
			Help: "Vetting types recorded on completed profiles",
		}, []string{"type"}),
	}
}

func (m *Metrics) ObserveHydrateLatency(d time.Duration) {
	if m != nil {
		m.HydrateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) AddPrefillFields(source string, n int) {
	if m != nil && n > 0 {
		m.PrefillFieldsFilled.WithLabelValues(source).Add(float64(n))
	}
}

func (m *Metrics) IncrementPrefillFailure(source string) {
	if m != nil {
		m.PrefillSourceFailure.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncrementTransition(direction, intent string) {
	if m != nil {
		m.StepTransitions.WithLabelValues(direction, intent).Inc()
	}
}

// ObserveFinish records a finish attempt and its duration.
func (m *Metrics) ObserveFinish(intent, result string, d time.Duration) {
	if m != nil {
		m.FinishOutcome.WithLabelValues(intent, result).Inc()
		m.FinishLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementVettingTypes(types []string) {
	if m == nil {
		return
	}
	for _, t := range types {
		m.VettingFlagged.WithLabelValues(t).Inc()
	}
}
