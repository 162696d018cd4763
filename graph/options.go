package graph

import (
	"fmt"
	"time"

	"github.com/agentgraph/agentgraph/graph/emit"
)

// engineConfig holds the compile-time settings a CompiledGraph carries for
// every run, as distinct from ExecutionConfig which a caller can vary
// per-Invoke (masking, overrides, per-run metrics collection).
type engineConfig struct {
	maxIterations      int
	defaultNodeTimeout time.Duration
	emitter            emit.Emitter
	prometheus         *PrometheusMetrics
	costTracker        *CostTracker
}

func newEngineConfig() *engineConfig {
	return &engineConfig{
		maxIterations: defaultMaxIterations,
		emitter:       emit.NewNullEmitter(),
	}
}

// Option configures a CompiledGraph at Compile time, the same functional
// options pattern the teacher uses for its Engine.
type Option func(*engineConfig) error

// WithMaxIterations sets the default iteration ceiling a run is allowed
// before it fails with KindMaxIterationsExceeded. Overridden per-run by
// ExecutionConfig.MaxIterations when that field is non-zero.
func WithMaxIterations(n int) Option {
	return func(c *engineConfig) error {
		if n <= 0 {
			return fmt.Errorf("graph: max iterations must be positive, got %d", n)
		}
		c.maxIterations = n
		return nil
	}
}

// WithDefaultNodeTimeout stores a default per-node timeout in the compiled
// graph's configuration. The executor does not read it: each node's Run
// receives the caller's context with no deadline added. Negative values
// are rejected.
func WithDefaultNodeTimeout(d time.Duration) Option {
	return func(c *engineConfig) error {
		if d < 0 {
			return fmt.Errorf("graph: default node timeout must not be negative")
		}
		c.defaultNodeTimeout = d
		return nil
	}
}

// WithEmitter wires an observability sink. Defaults to emit.NewNullEmitter().
func WithEmitter(e emit.Emitter) Option {
	return func(c *engineConfig) error {
		if e == nil {
			return fmt.Errorf("graph: emitter must not be nil")
		}
		c.emitter = e
		return nil
	}
}

// WithPrometheusMetrics wires a production-facing Prometheus sink alongside
// the in-process MetricsCollector. Nil (the default) disables Prometheus
// reporting entirely.
func WithPrometheusMetrics(m *PrometheusMetrics) Option {
	return func(c *engineConfig) error {
		c.prometheus = m
		return nil
	}
}

// WithCostTracker wires a CostTracker that accumulates dollar cost from
// usage reported through ReportModelUsage; counts reported only through
// ReportTokens carry no model name and add no cost.
func WithCostTracker(tracker *CostTracker) Option {
	return func(c *engineConfig) error {
		c.costTracker = tracker
		return nil
	}
}

const defaultMaxIterations = 25
