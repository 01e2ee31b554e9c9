package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordDispatch(time.Second)
	m.RecordAgent("Web Browser", "ok", time.Second)
	m.RecordProvider("openai", false)
}

func TestRecordCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordDispatch(100 * time.Millisecond)
	m.RecordDispatch(200 * time.Millisecond)
	m.RecordAgent("Web Browser", "ok", time.Millisecond)
	m.RecordAgent("Web Browser", "failed", time.Millisecond)
	m.RecordProvider("openai", true)
	m.RecordProvider("openai", false)

	if got := testutil.ToFloat64(m.dispatches); got != 2 {
		t.Fatalf("dispatches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.agentExecutions.WithLabelValues("Web Browser", "ok")); got != 1 {
		t.Fatalf("agent ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.providerRequests.WithLabelValues("openai", "error")); got != 1 {
		t.Fatalf("provider error = %v, want 1", got)
	}
}

func TestRegisterBusDrops(t *testing.T) {
	reg := prometheus.NewRegistry()
	var drops uint64 = 7
	RegisterBusDrops(reg, func() uint64 { return drops })

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "taskforce_notify_dropped_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 7 {
				t.Fatalf("dropped = %v, want 7", got)
			}
			return
		}
	}
	t.Fatalf("taskforce_notify_dropped_total not registered")
}
