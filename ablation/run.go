package ablation

import (
	"context"

	"github.com/agentgraph/agentgraph/graph"
)

// QualityFunc scores a completed run's output against a test case's
// expectations, returning nil when no quality signal applies (for example,
// a run that was interrupted or errored rather than completing).
type QualityFunc[S graph.State] func(output S, tc TestCase[S]) *float64

// Run executes every test case against every configuration in configs on
// compiled, recording one RunMetrics per (config, test case) pair into
// collector. Run never returns an error itself - a node error or interrupt
// within one (config, test case) pair is recorded as a failed run and the
// study continues, since an ablation study's whole point is to observe how
// often and how badly a masked configuration fails.
//
// quality may be nil if the study has no independent way to score output
// quality.
func Run[S graph.State](ctx context.Context, compiled *graph.CompiledGraph[S], configs []Config[S], cases []TestCase[S], collector *graph.MetricsCollector, quality QualityFunc[S]) {
	for _, cfg := range configs {
		execCfg := cfg.ExecutionConfig()
		for _, tc := range cases {
			result, metrics, err := compiled.InvokeWithMetrics(ctx, tc.Input, execCfg)
			if metrics == nil {
				continue
			}
			if err == nil && result.Complete && quality != nil {
				if score := quality(result.State, tc); score != nil {
					metrics.QualityScore = score
				}
			}
			collector.AddRun(metrics)
		}
	}
}
