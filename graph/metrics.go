package graph

import (
	"sort"
	"sync"
	"time"
)

// NodeMetrics accumulates execution statistics for a single node across the
// calls it received within one run.
type NodeMetrics struct {
	Name           string  `json:"name"`
	CallCount      int     `json:"call_count"`
	TotalLatencyMS int64   `json:"total_latency_ms"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	TotalTokens    int     `json:"total_tokens"`
	ErrorCount     int     `json:"error_count"`
	Skipped        bool    `json:"skipped"`
}

func newNodeMetrics(name string) *NodeMetrics {
	return &NodeMetrics{Name: name}
}

func (m *NodeMetrics) recordExecution(latencyMS int64, tokens int) {
	m.CallCount++
	m.TotalLatencyMS += latencyMS
	m.AvgLatencyMS = float64(m.TotalLatencyMS) / float64(m.CallCount)
	m.TotalTokens += tokens
}

func (m *NodeMetrics) recordError() {
	m.ErrorCount++
}

func (m *NodeMetrics) markSkipped() {
	m.Skipped = true
}

// RunMetrics holds everything recorded over a single Invoke call: per-node
// breakdowns, the order nodes executed in, and overall outcome.
type RunMetrics struct {
	RunID          string                  `json:"run_id"`
	ConfigID       string                  `json:"config_id"`
	TotalLatencyMS int64                   `json:"total_latency_ms"`
	TotalTokens    int                     `json:"total_tokens"`
	Success        bool                    `json:"success"`
	QualityScore   *float64                `json:"quality_score,omitempty"`
	NodeMetrics    map[string]*NodeMetrics `json:"node_metrics"`
	MaskedNodes    []string                `json:"masked_nodes"`
	ExecutionPath  []string                `json:"execution_path"`
	Error          string                  `json:"error,omitempty"`
	StartedAt      time.Time               `json:"started_at"`
}

func newRunMetrics(runID, configID string) *RunMetrics {
	return &RunMetrics{
		RunID:       runID,
		ConfigID:    configID,
		NodeMetrics: make(map[string]*NodeMetrics),
		StartedAt:   time.Now(),
	}
}

func (r *RunMetrics) nodeMetrics(node string) *NodeMetrics {
	nm, ok := r.NodeMetrics[node]
	if !ok {
		nm = newNodeMetrics(node)
		r.NodeMetrics[node] = nm
	}
	return nm
}

func (r *RunMetrics) recordNode(node string, latencyMS int64, tokens int) {
	r.ExecutionPath = append(r.ExecutionPath, node)
	r.TotalLatencyMS += latencyMS
	r.TotalTokens += tokens
	r.nodeMetrics(node).recordExecution(latencyMS, tokens)
}

func (r *RunMetrics) recordSkip(node string) {
	r.MaskedNodes = append(r.MaskedNodes, node)
	r.nodeMetrics(node).markSkipped()
}

func (r *RunMetrics) recordError(node, message string) {
	r.Error = node + ": " + message
	r.nodeMetrics(node).recordError()
}

func (r *RunMetrics) setQualityScore(score float64) {
	r.QualityScore = &score
}

// runMetricsBuilder times node execution within a single run and folds the
// result into a RunMetrics as each node completes.
type runMetricsBuilder struct {
	metrics       *RunMetrics
	startTime     time.Time
	currentNode   string
	currentStart  time.Time
	hasCurrent    bool
}

func newRunMetricsBuilder(runID, configID string) *runMetricsBuilder {
	return &runMetricsBuilder{
		metrics:   newRunMetrics(runID, configID),
		startTime: time.Now(),
	}
}

func (b *runMetricsBuilder) startNode(node string) {
	b.currentNode = node
	b.currentStart = time.Now()
	b.hasCurrent = true
}

func (b *runMetricsBuilder) endNode(tokens int) {
	if !b.hasCurrent {
		return
	}
	latencyMS := time.Since(b.currentStart).Milliseconds()
	b.metrics.recordNode(b.currentNode, latencyMS, tokens)
	b.hasCurrent = false
}

func (b *runMetricsBuilder) skipNode(node string) {
	b.metrics.recordSkip(node)
}

func (b *runMetricsBuilder) error(node, message string) {
	b.metrics.recordError(node, message)
}

func (b *runMetricsBuilder) build(success bool) *RunMetrics {
	b.metrics.TotalLatencyMS = time.Since(b.startTime).Milliseconds()
	b.metrics.Success = success
	return b.metrics
}

// MetricsCollector accumulates RunMetrics across many Invoke calls,
// typically one per ablation configuration, and derives AggregateStats from
// them. It is safe for concurrent use - appends are the common case, so a
// plain Mutex guards a slice rather than anything more elaborate.
type MetricsCollector struct {
	mu   sync.Mutex
	runs []*RunMetrics
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// AddRun records one run's metrics.
func (c *MetricsCollector) AddRun(m *RunMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, m)
}

// Runs returns every collected run, in insertion order.
func (c *MetricsCollector) Runs() []*RunMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*RunMetrics, len(c.runs))
	copy(out, c.runs)
	return out
}

// RunsByConfig returns every collected run whose ConfigID matches configID.
func (c *MetricsCollector) RunsByConfig(configID string) []*RunMetrics {
	all := c.Runs()
	out := make([]*RunMetrics, 0, len(all))
	for _, r := range all {
		if r.ConfigID == configID {
			out = append(out, r)
		}
	}
	return out
}

// AggregateStats computes aggregate statistics over every collected run
// whose ConfigID matches configID.
func (c *MetricsCollector) AggregateStats(configID string) *AggregateStats {
	return NewAggregateStats(c.RunsByConfig(configID))
}

// Clear discards every collected run.
func (c *MetricsCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = nil
}

// RunCount returns the number of collected runs.
func (c *MetricsCollector) RunCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.runs)
}

// NodeAggregateStats summarizes one node's behavior across a set of runs.
type NodeAggregateStats struct {
	Name         string  `json:"name"`
	CallRate     float64 `json:"call_rate"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	AvgTokens    float64 `json:"avg_tokens"`
	ErrorRate    float64 `json:"error_rate"`
	SkipRate     float64 `json:"skip_rate"`
}

// AggregateStats summarizes a set of runs sharing one ConfigID: success
// rate, latency percentiles, token usage, and per-node breakdowns. This is
// the statistic ablation.Report compares across configurations.
type AggregateStats struct {
	ConfigID        string                         `json:"config_id"`
	RunCount        int                            `json:"run_count"`
	SuccessRate     float64                        `json:"success_rate"`
	AvgLatencyMS    float64                        `json:"avg_latency_ms"`
	P50LatencyMS    int64                          `json:"p50_latency_ms"`
	P95LatencyMS    int64                          `json:"p95_latency_ms"`
	AvgTokens       float64                        `json:"avg_tokens"`
	AvgQualityScore *float64                       `json:"avg_quality_score,omitempty"`
	NodeStats       map[string]NodeAggregateStats  `json:"node_stats"`
}

// NewAggregateStats computes AggregateStats from a set of runs. An empty
// slice yields a zero-valued AggregateStats with an empty ConfigID - callers
// that need the config id preserved for an empty group should set it
// themselves afterward.
func NewAggregateStats(runs []*RunMetrics) *AggregateStats {
	if len(runs) == 0 {
		return &AggregateStats{NodeStats: make(map[string]NodeAggregateStats)}
	}

	configID := runs[0].ConfigID
	runCount := len(runs)

	successCount := 0
	latencies := make([]int64, 0, runCount)
	var tokenSum float64
	var qualitySum float64
	qualityCount := 0

	for _, r := range runs {
		if r.Success {
			successCount++
		}
		latencies = append(latencies, r.TotalLatencyMS)
		tokenSum += float64(r.TotalTokens)
		if r.QualityScore != nil {
			qualitySum += *r.QualityScore
			qualityCount++
		}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var latencySum int64
	for _, l := range latencies {
		latencySum += l
	}

	var avgQuality *float64
	if qualityCount > 0 {
		q := qualitySum / float64(qualityCount)
		avgQuality = &q
	}

	allNodes := make(map[string]struct{})
	for _, r := range runs {
		for name := range r.NodeMetrics {
			allNodes[name] = struct{}{}
		}
	}

	nodeStats := make(map[string]NodeAggregateStats, len(allNodes))
	for name := range allNodes {
		var callCount, errorCount, skipCount int
		var totalLatency int64
		var totalTokens int

		for _, r := range runs {
			nm, ok := r.NodeMetrics[name]
			if !ok {
				continue
			}
			if nm.Skipped {
				skipCount++
			} else if nm.CallCount > 0 {
				callCount++
				totalLatency += nm.TotalLatencyMS
				totalTokens += nm.TotalTokens
				errorCount += nm.ErrorCount
			}
		}

		var avgLatency, avgTokens, errorRate float64
		if callCount > 0 {
			avgLatency = float64(totalLatency) / float64(callCount)
			avgTokens = float64(totalTokens) / float64(callCount)
			errorRate = float64(errorCount) / float64(callCount)
		}

		nodeStats[name] = NodeAggregateStats{
			Name:         name,
			CallRate:     float64(callCount) / float64(runCount),
			AvgLatencyMS: avgLatency,
			AvgTokens:    avgTokens,
			ErrorRate:    errorRate,
			SkipRate:     float64(skipCount) / float64(runCount),
		}
	}

	return &AggregateStats{
		ConfigID:        configID,
		RunCount:        runCount,
		SuccessRate:     float64(successCount) / float64(runCount),
		AvgLatencyMS:    float64(latencySum) / float64(runCount),
		P50LatencyMS:    percentile(latencies, 50),
		P95LatencyMS:    percentile(latencies, 95),
		AvgTokens:       tokenSum / float64(runCount),
		AvgQualityScore: avgQuality,
		NodeStats:       nodeStats,
	}
}

// percentile returns the value at the given percentile of a sorted slice,
// using the same index formula as the original implementation
// (len*p/100, not interpolated).
func percentile(sorted []int64, p int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
