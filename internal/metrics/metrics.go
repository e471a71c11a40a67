// Package metrics exports run-loop counters and state gauges in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/areawm/internal/platform"
	"github.com/1broseidon/areawm/internal/wm"
)

const namespace = "areawm"

// Recorder implements wm.Recorder and wm.Observer on a private registry.
type Recorder struct {
	reg *prometheus.Registry

	events   *prometheus.CounterVec
	actions  *prometheus.CounterVec
	gestures *prometheus.CounterVec

	clients *prometheus.GaugeVec
	desktop prometheus.Gauge
	layout  *prometheus.GaugeVec
}

var (
	_ wm.Recorder = (*Recorder)(nil)
	_ wm.Observer = (*Recorder)(nil)
)

// New registers every collector, plus the Go runtime and process
// collectors.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Protocol events handled by the run loop, by kind.",
		}, []string{"kind"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions run from bindings or commands, by name.",
		}, []string{"action"}),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_total",
			Help:      "Completed pointer gestures, by gesture and whether they changed anything.",
		}, []string{"gesture", "applied"}),
		clients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clients",
			Help:      "Managed clients, by area.",
		}, []string{"area"}),
		desktop: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_desktop",
			Help:      "The 1-based current desktop.",
		}),
		layout: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "desktop_layout",
			Help:      "Set to 1 for the active layout of each desktop.",
		}, []string{"desktop", "layout"}),
	}
	r.reg.MustRegister(
		r.events, r.actions, r.gestures, r.clients, r.desktop, r.layout,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) EventHandled(kind platform.Kind) {
	r.events.WithLabelValues(kind.String()).Inc()
}

func (r *Recorder) ActionRun(name string) {
	r.actions.WithLabelValues(name).Inc()
}

func (r *Recorder) GestureDone(name string, applied bool) {
	r.gestures.WithLabelValues(name, strconv.FormatBool(applied)).Inc()
}

// Publish refreshes the state gauges from a snapshot.
func (r *Recorder) Publish(s wm.Snapshot) {
	r.desktop.Set(float64(s.Desktop))

	r.clients.Reset()
	for _, c := range s.Clients {
		r.clients.WithLabelValues(c.Area).Inc()
	}

	r.layout.Reset()
	for _, d := range s.Desktops {
		r.layout.WithLabelValues(strconv.Itoa(d.Number), d.Layout).Set(1)
	}
}

// Handler serves the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }
