package server

import (
	"net/http"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assessment outcomes.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Metrics holds the collectors of one server on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewMetrics registers the assessment collectors and the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiorisk",
			Name:      "assessments_total",
			Help:      "Number of assessment requests by outcome and risk tier.",
		}, []string{"outcome", "tier"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cardiorisk",
			Name:      "assessment_duration_seconds",
			Help:      "Time spent producing an assessment.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
	}
	m.registry.MustRegister(
		m.assessments,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// observe records one finished assessment.
func (m *Metrics) observe(outcome string, tier schema.RiskTier, elapsed time.Duration) {
	m.assessments.WithLabelValues(outcome, string(tier)).Inc()
	if outcome == outcomeOK {
		m.latency.Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
