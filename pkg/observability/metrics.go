package observability

import (
	"log/slog"
	"net/http"

	"github.com/asgeY/poet/pkg/step"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one process. Each Metrics owns its own
// registry so tests can create as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	intents     *prometheus.CounterVec
	sessions    prometheus.Gauge
}

// NewMetrics creates and registers the poet collectors. With runtime set, the
// Go and process collectors are registered too.
func NewMetrics(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poet_step_transitions_total",
				Help: "Total number of step transitions",
			},
			[]string{"screen", "from", "to"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poet_step_rejections_total",
				Help: "Transitions refused by a screen's transition table",
			},
			[]string{"screen"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poet_alerts_total",
				Help: "Alerts raised by screens",
			},
			[]string{"screen"},
		),
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poet_intents_total",
				Help: "Intents delivered to screens",
			},
			[]string{"screen", "intent"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poet_sessions_active",
			Help: "Open screen sessions",
		}),
	}
	m.registry.MustRegister(m.transitions, m.rejections, m.alerts, m.intents, m.sessions)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// StepHooks returns hooks that log and count transitions. A nil logger only counts.
func (m *Metrics) StepHooks(logger *slog.Logger) step.Hooks {
	return step.Hooks{
		OnTransition: func(t step.Transition) {
			if logger != nil {
				logger.Debug("step_transition", "screen", t.Screen, "from", t.From, "to", t.To)
			}
			m.transitions.WithLabelValues(t.Screen, t.From, t.To).Inc()
		},
		OnRejected: func(t step.Transition) {
			if logger != nil {
				logger.Warn("step_rejected", "screen", t.Screen, "from", t.From, "to", t.To)
			}
			m.rejections.WithLabelValues(t.Screen).Inc()
		},
	}
}

// AlertRaised counts an alert on screen.
func (m *Metrics) AlertRaised(screen string) {
	m.alerts.WithLabelValues(screen).Inc()
}

// IntentReceived counts an intent delivered to screen.
func (m *Metrics) IntentReceived(screen, intent string) {
	m.intents.WithLabelValues(screen, intent).Inc()
}

// SessionOpened and SessionClosed track the active session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
