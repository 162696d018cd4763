package graph

import "sync"

// ModelPricing is the per-million-token price for a model, split between
// input (prompt) and output (completion) tokens.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// defaultModelPricing carries forward the teacher's static pricing table,
// the same snapshot-pricing approach (no live pricing API) used across the
// retrieval pack's LLM-facing examples.
var defaultModelPricing = map[string]ModelPricing{
	"gpt-4o":             {InputPer1M: 2.50, OutputPer1M: 10.00},
	"gpt-4o-mini":        {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4-turbo":        {InputPer1M: 10.00, OutputPer1M: 30.00},
	"gpt-3.5-turbo":      {InputPer1M: 0.50, OutputPer1M: 1.50},
	"claude-3-5-sonnet":  {InputPer1M: 3.00, OutputPer1M: 15.00},
	"claude-3-opus":      {InputPer1M: 15.00, OutputPer1M: 75.00},
	"claude-3-sonnet":    {InputPer1M: 3.00, OutputPer1M: 15.00},
	"claude-3-haiku":     {InputPer1M: 0.25, OutputPer1M: 1.25},
	"gemini-1.5-pro":     {InputPer1M: 1.25, OutputPer1M: 5.00},
	"gemini-1.5-flash":   {InputPer1M: 0.075, OutputPer1M: 0.30},
}

// CostTracker accumulates dollar cost from token usage, keyed by run id, so
// a host can report "this run cost $0.014" alongside its RunMetrics.
//
// Like MetricsCollector, it favors a mutex-guarded map over channels: cost
// recording is infrequent (once per model call) and needs a simple running
// total, not a pipeline.
type CostTracker struct {
	mu      sync.Mutex
	pricing map[string]ModelPricing
	byRun   map[string]float64
	total   float64
}

// NewCostTracker creates a tracker using pricing. A nil pricing map uses
// defaultModelPricing.
func NewCostTracker(pricing map[string]ModelPricing) *CostTracker {
	if pricing == nil {
		pricing = defaultModelPricing
	}
	return &CostTracker{
		pricing: pricing,
		byRun:   make(map[string]float64),
	}
}

// RecordUsage prices inputTokens/outputTokens against model's pricing and
// adds the result to both the run's running total and the tracker's grand
// total. Returns the incremental cost in USD. An unrecognized model is
// priced at zero - RecordUsage never errors, since a node mid-execution has
// no good way to react to a pricing-table miss.
func (c *CostTracker) RecordUsage(runID, model string, inputTokens, outputTokens int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	pricing, ok := c.pricing[model]
	if !ok {
		return 0
	}

	cost := float64(inputTokens)/1_000_000*pricing.InputPer1M +
		float64(outputTokens)/1_000_000*pricing.OutputPer1M

	c.byRun[runID] += cost
	c.total += cost
	return cost
}

// RunUSD returns the accumulated cost for runID.
func (c *CostTracker) RunUSD(runID string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byRun[runID]
}

// TotalUSD returns the accumulated cost across every run.
func (c *CostTracker) TotalUSD() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Reset clears all accumulated cost.
func (c *CostTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byRun = make(map[string]float64)
	c.total = 0
}
