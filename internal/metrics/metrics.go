// Package metrics defines the Prometheus instruments for the
// simulation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instruments updated by the session registry.
type Metrics struct {
	SimulationsStarted   prometheus.Counter
	SimulationsCompleted prometheus.Counter
	SimulationsErrored   prometheus.Counter
	InputsReceived       prometheus.Counter
	MessagesEmitted      prometheus.Counter
	ActiveSessions       prometheus.Gauge
}

// New registers the instruments with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SimulationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botwalk",
			Name:      "simulations_started_total",
			Help:      "Simulations started (including restarts).",
		}),
		SimulationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botwalk",
			Name:      "simulations_completed_total",
			Help:      "Simulations that reached the completed status.",
		}),
		SimulationsErrored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botwalk",
			Name:      "simulations_errored_total",
			Help:      "Simulations that reached the error status.",
		}),
		InputsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botwalk",
			Name:      "inputs_received_total",
			Help:      "User inputs applied to waiting simulations.",
		}),
		MessagesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botwalk",
			Name:      "messages_emitted_total",
			Help:      "Messages appended to simulation transcripts.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "botwalk",
			Name:      "active_sessions",
			Help:      "Sessions currently held by the registry.",
		}),
	}
}

// NewNop returns instruments bound to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
