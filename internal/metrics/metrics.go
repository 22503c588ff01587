package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	evaluations        *prometheus.CounterVec
	categoryOutcomes   *prometheus.CounterVec
	decisionOutcomes   *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	notifications      *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pitch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"method", "path"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitch",
			Subsystem: "evaluation",
			Name:      "total",
			Help:      "Pitch deck evaluations by result.",
		}, []string{"result"}),
		categoryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitch",
			Subsystem: "evaluation",
			Name:      "category_outcomes_total",
			Help:      "Category scores by how they were obtained (scored, defaulted, unavailable).",
		}, []string{"category", "outcome"}),
		decisionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitch",
			Subsystem: "evaluation",
			Name:      "decision_outcomes_total",
			Help:      "Investability decisions by how they were obtained.",
		}, []string{"outcome", "investible"}),
		completionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pitch",
			Subsystem: "llm",
			Name:      "completion_duration_seconds",
			Help:      "Latency of remote completion calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
		}, []string{"provider", "status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitch",
			Subsystem: "notification",
			Name:      "total",
			Help:      "Evaluation emails by result.",
		}, []string{"provider", "result"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.evaluations,
		m.categoryOutcomes,
		m.decisionOutcomes,
		m.completionDuration,
		m.notifications,
	)
	return m
}

// Gatherer exposes the registry for scraping and tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveEvaluation(result string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCategory(category, outcome string) {
	if m == nil {
		return
	}
	m.categoryOutcomes.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) ObserveDecision(outcome, investible string) {
	if m == nil {
		return
	}
	m.decisionOutcomes.WithLabelValues(outcome, investible).Inc()
}

func (m *Metrics) ObserveCompletion(provider, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.completionDuration.WithLabelValues(provider, status).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveNotification(provider, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(provider, result).Inc()
}
