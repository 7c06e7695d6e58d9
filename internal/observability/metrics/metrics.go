package metrics

import "github.com/prometheus/client_golang/prometheus"

// Intake outcomes recorded by LeadMetrics.
const (
	OutcomeStored         = "stored"
	OutcomeHoneypot       = "honeypot"
	OutcomeInvalidPayload = "invalid_payload"
	OutcomeMissingContact = "missing_contact"
	OutcomeStoreError     = "store_error"
)

// LeadMetrics exposes counters/histograms for the lead intake endpoint.
type LeadMetrics struct {
	intakeTotal  *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
}

// NewLeadMetrics registers the lead collectors with reg, or with the default
// registerer when reg is nil.
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lodge",
			Subsystem: "leads",
			Name:      "intake_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lodge",
			Subsystem: "leads",
			Name:      "store_latency_seconds",
			Help:      "Latency of the lead store insert",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakeTotal, m.storeLatency)
	return m
}

// ObserveIntake counts one submission under the given outcome label.
func (m *LeadMetrics) ObserveIntake(outcome string) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(outcome).Inc()
}

// ObserveStoreLatency records how long a store insert took, labelled ok or error.
func (m *LeadMetrics) ObserveStoreLatency(ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.storeLatency.WithLabelValues(status).Observe(seconds)
}
