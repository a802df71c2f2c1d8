package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.Inserts.Inc()
	m.Inserts.Inc()
	m.Queries.Inc()
	m.QueryErrors.Inc()

	if got := counterValue(t, m.Inserts); got != 2 {
		t.Fatalf("Inserts = %v, want 2", got)
	}
	if got := counterValue(t, m.Queries); got != 1 {
		t.Fatalf("Queries = %v, want 1", got)
	}
	if got := counterValue(t, m.QueryErrors); got != 1 {
		t.Fatalf("QueryErrors = %v, want 1", got)
	}
}

func TestMetricsIsolatedRegistries(t *testing.T) {
	regA := prometheus.NewRegistry()
	regB := prometheus.NewRegistry()

	a := NewMetricsWith(regA)
	b := NewMetricsWith(regB)

	a.Inserts.Inc()

	if got := counterValue(t, a.Inserts); got != 1 {
		t.Fatalf("a.Inserts = %v, want 1", got)
	}
	if got := counterValue(t, b.Inserts); got != 0 {
		t.Fatalf("b.Inserts = %v, want 0 (registries must not share state)", got)
	}
}

func TestGraphSizeGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.GraphSize.Set(42)

	var out dto.Metric
	if err := m.GraphSize.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := out.GetGauge().GetValue(); got != 42 {
		t.Fatalf("GraphSize = %v, want 42", got)
	}
}
