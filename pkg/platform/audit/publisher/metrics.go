package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Dropped         *prometheus.CounterVec
	PersistFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

// NewMetrics registers the audit publisher metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_audit_events_emitted_total",
			Help: "Audit events persisted, by action",
		}, []string{"action"}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "village_audit_events_dropped_total",
			Help: "Audit events dropped before persistence, by reason",
		}, []string{"reason"}), // reason: "buffer_full", "breaker_open"
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "village_audit_persist_failures_total",
			Help: "Audit store append failures",
		}),
		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "village_audit_breaker_open",
			Help: "Audit store breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncEmitted(action string) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(action).Inc()
}

func (m *Metrics) IncDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
