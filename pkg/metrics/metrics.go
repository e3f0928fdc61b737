// Package metrics exports breakpoint activity as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// Recorder is a breakpoints.Observer backed by Prometheus collectors.
type Recorder struct {
	// Crossings counts threshold crossings by breakpoint and direction.
	Crossings *prometheus.CounterVec

	// Width is the last observed viewport width.
	Width prometheus.Gauge

	// Active is 1 for the current breakpoint and absent for the others.
	Active *prometheus.GaugeVec

	mu   sync.Mutex
	last string
}

// NewRecorder creates a Recorder and registers it with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Crossings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpwatch_crossings_total",
				Help: "Breakpoint crossings",
			},
			[]string{"breakpoint", "direction"},
		),
		Width: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bpwatch_viewport_width",
				Help: "Last observed viewport width",
			},
		),
		Active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bpwatch_active_breakpoint",
				Help: "Current breakpoint (1 = active)",
			},
			[]string{"breakpoint"},
		),
	}
	reg.MustRegister(r.Crossings, r.Width, r.Active)
	return r
}

// ObserveWidth implements breakpoints.Observer.
func (r *Recorder) ObserveWidth(width int, active string) {
	r.Width.Set(float64(width))

	r.mu.Lock()
	defer r.mu.Unlock()
	if active == r.last {
		return
	}
	if r.last != "" {
		r.Active.DeleteLabelValues(r.last)
	}
	if active != "" {
		r.Active.WithLabelValues(active).Set(1)
	}
	r.last = active
}

// ObserveCrossing implements breakpoints.Observer.
func (r *Recorder) ObserveCrossing(c breakpoints.Crossing) {
	r.Crossings.WithLabelValues(c.Name, c.Direction.String()).Inc()
}
