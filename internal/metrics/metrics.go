// Package metrics exposes Prometheus counters for searches, provider calls and
// AI requests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "job_scraper"

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry      *prometheus.Registry
	searches      *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	aiRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total job searches by outcome (live, fallback, cache).",
		}, []string{"outcome"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Total source provider calls by source and outcome.",
		}, []string{"source", "outcome"}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total AI generation requests by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.searches,
		m.providerCalls,
		m.aiRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Search implements jobs.Recorder.
func (m *Metrics) Search(outcome string) {
	m.searches.WithLabelValues(outcome).Inc()
}

// ProviderCall matches sources.CallObserver.
func (m *Metrics) ProviderCall(source, outcome string) {
	m.providerCalls.WithLabelValues(source, outcome).Inc()
}

// AIRequest implements ai.Recorder.
func (m *Metrics) AIRequest(outcome string) {
	m.aiRequests.WithLabelValues(outcome).Inc()
}

// Register adds extra collectors to the registry.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
