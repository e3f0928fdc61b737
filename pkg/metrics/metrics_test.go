package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

func TestRecorder_WithTracker(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	width := 500
	tr := breakpoints.New(nil, viewport.Func(func() int { return width }), breakpoints.Options{
		Observers: []breakpoints.Observer{rec},
	}).Init(breakpoints.Default)

	width = 1300
	tr.Refresh()
	width = 700
	tr.Refresh()

	if got := testutil.ToFloat64(rec.Crossings.WithLabelValues("md", "up")); got != 1 {
		t.Errorf("md up = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.Crossings.WithLabelValues("lg", "down")); got != 1 {
		t.Errorf("lg down = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.Width); got != 700 {
		t.Errorf("width = %v, want 700", got)
	}

	active := activeLabels(t, reg)
	if len(active) != 1 || active[0] != "sm" {
		t.Errorf("active breakpoints = %v, want [sm]", active)
	}
}

func activeLabels(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var out []string
	for _, mf := range families {
		if mf.GetName() != "bpwatch_active_breakpoint" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetGauge().GetValue() != 1 {
				continue
			}
			out = append(out, labelValue(m, "breakpoint"))
		}
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
