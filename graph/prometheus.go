package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics is the production-facing metrics sink, wired in
// alongside the in-process MetricsCollector via WithPrometheusMetrics. It
// adapts the teacher's PrometheusMetrics to this engine's cooperative,
// single-node-in-flight-per-run execution model: there is no concurrent
// frontier to report queue depth for, so that gauge collapses to a single
// "node currently executing" gauge, while step latency and error counters
// carry over unchanged.
type PrometheusMetrics struct {
	nodeInFlight prometheus.Gauge
	stepLatency  *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	interrupts   prometheus.Counter
	enabled      bool
}

// NewPrometheusMetrics registers the engine's metric families against
// registry using promauto, the same factory pattern the teacher uses.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		nodeInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agentgraph_node_in_flight",
			Help: "1 while a node is executing, 0 otherwise.",
		}),
		stepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentgraph_step_latency_ms",
			Help:    "Node execution latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentgraph_node_errors_total",
			Help: "Count of node executions that returned an error.",
		}, []string{"node"}),
		interrupts: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentgraph_interrupts_total",
			Help: "Count of runs that paused on an interrupt.",
		}),
		enabled: true,
	}
}

// RecordStepLatency observes one node execution's latency.
func (m *PrometheusMetrics) RecordStepLatency(node string, ms float64) {
	if !m.enabled {
		return
	}
	m.stepLatency.WithLabelValues(node).Observe(ms)
}

// IncrementErrors records a node execution that returned an error.
func (m *PrometheusMetrics) IncrementErrors(node string) {
	if !m.enabled {
		return
	}
	m.errors.WithLabelValues(node).Inc()
}

// IncrementInterrupts records a run pausing on an interrupt.
func (m *PrometheusMetrics) IncrementInterrupts() {
	if !m.enabled {
		return
	}
	m.interrupts.Inc()
}

// SetNodeInFlight marks whether a node is currently executing.
func (m *PrometheusMetrics) SetNodeInFlight(inFlight bool) {
	if !m.enabled {
		return
	}
	if inFlight {
		m.nodeInFlight.Set(1)
	} else {
		m.nodeInFlight.Set(0)
	}
}

// Disable stops all recording methods from touching the underlying
// collectors, useful for tests that want to exercise the executor without
// asserting on Prometheus state.
func (m *PrometheusMetrics) Disable() { m.enabled = false }

// Enable re-enables recording after Disable.
func (m *PrometheusMetrics) Enable() { m.enabled = true }
