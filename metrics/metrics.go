// Package metrics exposes Prometheus counters for tracker activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the tracker's Prometheus collectors. It satisfies the
// recorder interfaces in the status and ticket packages.
type Metrics struct {
	registry *prometheus.Registry

	startsRecorded *prometheus.CounterVec
	testsRecorded  *prometheus.CounterVec
	tickets        *prometheus.CounterVec
	a2aRequests    *prometheus.CounterVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		startsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmstrack",
			Name:      "starts_recorded_total",
			Help:      "Component start attempts recorded, by result.",
		}, []string{"result"}),
		testsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmstrack",
			Name:      "test_runs_recorded_total",
			Help:      "Component test runs recorded, by result.",
		}, []string{"result"}),
		tickets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmstrack",
			Name:      "work_tickets_generated_total",
			Help:      "Work tickets generated, by priority.",
		}, []string{"priority"}),
		a2aRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmstrack",
			Name:      "a2a_requests_total",
			Help:      "A2A requests handled, by action and result.",
		}, []string{"action", "result"}),
	}

	registry.MustRegister(m.startsRecorded, m.testsRecorded, m.tickets, m.a2aRequests)
	return m
}

// StartRecorded counts a recorded start attempt.
func (m *Metrics) StartRecorded(success bool) {
	m.startsRecorded.WithLabelValues(result(success)).Inc()
}

// TestRecorded counts a recorded test run.
func (m *Metrics) TestRecorded(success bool) {
	m.testsRecorded.WithLabelValues(result(success)).Inc()
}

// TicketGenerated counts a generated work ticket.
func (m *Metrics) TicketGenerated(priority string) {
	m.tickets.WithLabelValues(priority).Inc()
}

// RequestHandled counts an A2A request.
func (m *Metrics) RequestHandled(action string, success bool) {
	m.a2aRequests.WithLabelValues(action, result(success)).Inc()
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
