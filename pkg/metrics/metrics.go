package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus instrumentation for the scheduling engine.
// The embedding application decides where (or whether) to mount the handler.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	solveDuration      *prometheus.HistogramVec
	solveTotal         *prometheus.CounterVec
	variablesBuilt     prometheus.Histogram
	violationsDetected *prometheus.CounterVec
	repairsTotal       *prometheus.CounterVec
}

// New registers the engine collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Wall-clock duration of constraint solve runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	solveTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solves_total",
		Help: "Total solve invocations by outcome",
	}, []string{"status"})

	variablesBuilt := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_model_variables",
		Help:    "Decision variables surviving a-priori pruning per model build",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	})

	violationsDetected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_violations_detected_total",
		Help: "Schedule violations found by the detector",
	}, []string{"type"})

	repairsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_repairs_total",
		Help: "Repair attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	registry.MustRegister(solveDuration, solveTotal, variablesBuilt, violationsDetected, repairsTotal)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solveDuration:      solveDuration,
		solveTotal:         solveTotal,
		variablesBuilt:     variablesBuilt,
		violationsDetected: violationsDetected,
		repairsTotal:       repairsTotal,
	}
}

// Handler exposes the scrape endpoint for the embedding application.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry exposes the underlying registry for callers that aggregate
// collectors from multiple subsystems.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSolve records one solve run.
func (m *Metrics) ObserveSolve(status string, duration time.Duration, variables int) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.solveTotal.WithLabelValues(status).Inc()
	m.variablesBuilt.Observe(float64(variables))
}

// ObserveViolations records detector output by violation type.
func (m *Metrics) ObserveViolations(counts map[string]int) {
	if m == nil {
		return
	}
	for violationType, count := range counts {
		m.violationsDetected.WithLabelValues(violationType).Add(float64(count))
	}
}

// ObserveRepair records one repair attempt.
func (m *Metrics) ObserveRepair(strategy, outcome string) {
	if m == nil {
		return
	}
	m.repairsTotal.WithLabelValues(strategy, outcome).Inc()
}
