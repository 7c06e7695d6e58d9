package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, m *LeadMetrics, outcome string) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.intakeTotal.WithLabelValues(outcome).Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return out.GetCounter().GetValue()
}

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveIntake(OutcomeStored)
	m.ObserveIntake(OutcomeStored)
	m.ObserveIntake(OutcomeHoneypot)
	m.ObserveStoreLatency(true, 0.02)
	m.ObserveStoreLatency(false, 0.5)

	if got := counterValue(t, m, OutcomeStored); got != 2 {
		t.Fatalf("expected 2 stored, got %v", got)
	}
	if got := counterValue(t, m, OutcomeHoneypot); got != 1 {
		t.Fatalf("expected 1 honeypot, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"lodge_leads_intake_total", "lodge_leads_store_latency_seconds"} {
		if !names[want] {
			t.Fatalf("expected %s to be registered", want)
		}
	}
}

func TestLeadMetricsNilSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveIntake(OutcomeStored)
	m.ObserveStoreLatency(true, 0.1)
}
