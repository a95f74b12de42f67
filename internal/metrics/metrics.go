// Package metrics holds the Prometheus collectors of the bot process.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command outcomes
const (
	OutcomeOK      = "ok"
	OutcomeUsage   = "usage"
	OutcomeError   = "error"
	OutcomeLimited = "limited"
)

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	expensesAdded   prometheus.Counter
	publishFailures prometheus.Counter
}

func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetbot_commands_total",
				Help: "How many chat commands were dispatched, partitioned by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "budgetbot_command_duration_seconds",
				Help: "Time from dispatch to reply, in seconds.",
			},
			[]string{"command"},
		),
		expensesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "budgetbot_expenses_added_total",
			Help: "How many expenses were recorded.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "budgetbot_event_publish_failures_total",
			Help: "How many ledger events could not be published.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.commands,
		m.commandDuration,
		m.expensesAdded,
		m.publishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveCommand records one dispatched command.
func (m *Metrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) ExpenseAdded() {
	if m == nil {
		return
	}
	m.expensesAdded.Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
