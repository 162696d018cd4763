package ablation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agentgraph/agentgraph/graph"
)

// Recommendation is the verdict an ablation study reaches about one node.
type Recommendation int

const (
	// Unknown means there wasn't enough data to judge the node (no masked
	// variant was run for it).
	Unknown Recommendation = iota
	// Keep means the node is worth its cost as-is.
	Keep
	// Simplify means the node has some value but costs more than it should.
	Simplify
	// ConsiderRemoving means the node costs a lot for little measured value.
	ConsiderRemoving
	// Optimize means the node is valuable but expensive enough to deserve
	// direct optimization rather than removal.
	Optimize
)

func (r Recommendation) String() string {
	switch r {
	case Keep:
		return "keep"
	case Simplify:
		return "simplify"
	case ConsiderRemoving:
		return "consider_removing"
	case Optimize:
		return "optimize"
	default:
		return "unknown"
	}
}

// ConfigResult pairs one configuration with the aggregate stats of its runs.
type ConfigResult[S graph.State] struct {
	Config Config[S]
	Stats  *graph.AggregateStats
}

// ConfigComparison is one non-baseline configuration's stats measured
// against the baseline's.
type ConfigComparison struct {
	ConfigName        string
	LatencyDeltaPct   float64
	TokenDeltaPct     float64
	SuccessRateDelta  float64
	QualityDelta      *float64
	Assessment        string
}

// NodeContribution summarizes how much of the baseline's cost one node
// accounts for, and what removing it costs in success rate.
type NodeContribution struct {
	Node                  string
	LatencyContributionPct float64
	TokenContributionPct   float64
	SuccessRateImpact      float64
	QualityImpact          *float64
	ImportanceScore        float64
	Recommendation         Recommendation
}

// Report is the full output of an ablation study: per-config stats,
// baseline comparisons, per-node contribution analysis, and a short list of
// plain-language recommendations.
type Report[S graph.State] struct {
	Configs           []ConfigResult[S]
	Comparisons       []ConfigComparison
	NodeContributions []NodeContribution
	Recommendations   []string
}

// FromMetrics builds a Report from a collector that has already accumulated
// runs for every config in configs (normally via Run).
func FromMetrics[S graph.State](collector *graph.MetricsCollector, configs []Config[S]) Report[S] {
	configResults := make([]ConfigResult[S], 0, len(configs))
	var baselineStats *graph.AggregateStats

	for _, cfg := range configs {
		stats := collector.AggregateStats(cfg.ConfigID())
		if cfg.IsBaseline {
			baselineStats = stats
		}
		configResults = append(configResults, ConfigResult[S]{Config: cfg, Stats: stats})
	}

	var comparisons []ConfigComparison
	var contributions []NodeContribution
	if baselineStats != nil {
		for _, r := range configResults {
			if r.Config.IsBaseline {
				continue
			}
			comparisons = append(comparisons, compareToBaseline(r.Stats, baselineStats, r.Config.Name))
		}
		contributions = analyzeNodeContributions(baselineStats, configResults)
	}

	return Report[S]{
		Configs:           configResults,
		Comparisons:       comparisons,
		NodeContributions: contributions,
		Recommendations:   generateRecommendations(comparisons, contributions),
	}
}

func compareToBaseline(stats, baseline *graph.AggregateStats, name string) ConfigComparison {
	var latencyDelta, tokenDelta float64
	if baseline.AvgLatencyMS > 0 {
		latencyDelta = (stats.AvgLatencyMS - baseline.AvgLatencyMS) / baseline.AvgLatencyMS * 100
	}
	if baseline.AvgTokens > 0 {
		tokenDelta = (stats.AvgTokens - baseline.AvgTokens) / baseline.AvgTokens * 100
	}
	successDelta := stats.SuccessRate - baseline.SuccessRate

	var qualityDelta *float64
	if stats.AvgQualityScore != nil && baseline.AvgQualityScore != nil {
		d := *stats.AvgQualityScore - *baseline.AvgQualityScore
		qualityDelta = &d
	}

	var assessment string
	switch {
	case successDelta < -0.10:
		assessment = "significant quality degradation"
	case successDelta < -0.05:
		assessment = "minor quality degradation"
	case latencyDelta < -20 && tokenDelta < -20:
		assessment = "strong simplification candidate"
	case latencyDelta < -10 || tokenDelta < -10:
		assessment = "potential optimization opportunity"
	default:
		assessment = "minimal impact"
	}

	return ConfigComparison{
		ConfigName:       name,
		LatencyDeltaPct:  latencyDelta,
		TokenDeltaPct:    tokenDelta,
		SuccessRateDelta: successDelta,
		QualityDelta:     qualityDelta,
		Assessment:       assessment,
	}
}

func analyzeNodeContributions[S graph.State](baseline *graph.AggregateStats, results []ConfigResult[S]) []NodeContribution {
	contributions := make([]NodeContribution, 0, len(baseline.NodeStats))

	for nodeName, nodeStats := range baseline.NodeStats {
		var masked *ConfigResult[S]
		for i := range results {
			if results[i].Config.MaskedNodes[nodeName] {
				masked = &results[i]
				break
			}
		}

		var successImpact float64
		var qualityImpact *float64
		if masked != nil {
			successImpact = baseline.SuccessRate - masked.Stats.SuccessRate
			if baseline.AvgQualityScore != nil && masked.Stats.AvgQualityScore != nil {
				d := *baseline.AvgQualityScore - *masked.Stats.AvgQualityScore
				qualityImpact = &d
			}
		}

		var latencyContribution, tokenContribution float64
		if baseline.AvgLatencyMS > 0 {
			latencyContribution = nodeStats.AvgLatencyMS * nodeStats.CallRate / baseline.AvgLatencyMS * 100
		}
		if baseline.AvgTokens > 0 {
			tokenContribution = nodeStats.AvgTokens * nodeStats.CallRate / baseline.AvgTokens * 100
		}

		qualityAbs := 0.0
		if qualityImpact != nil {
			qualityAbs = abs(*qualityImpact)
		}
		importance := minF(abs(successImpact)*2+qualityAbs, 1.0)

		contributions = append(contributions, NodeContribution{
			Node:                   nodeName,
			LatencyContributionPct: latencyContribution,
			TokenContributionPct:   tokenContribution,
			SuccessRateImpact:      successImpact,
			QualityImpact:          qualityImpact,
			ImportanceScore:        importance,
			Recommendation:         recommendForNode(latencyContribution, tokenContribution, successImpact),
		})
	}

	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].ImportanceScore > contributions[j].ImportanceScore
	})

	return contributions
}

func recommendForNode(latencyPct, tokenPct, successImpact float64) Recommendation {
	cost := (latencyPct + tokenPct) / 2

	switch {
	case successImpact > 0.10:
		if cost > 30 {
			return Optimize
		}
		return Keep
	case successImpact > 0.02:
		if cost > 25 {
			return Simplify
		}
		return Keep
	default:
		if cost > 15 {
			return ConsiderRemoving
		}
		if cost > 5 {
			return Simplify
		}
		return Keep
	}
}

func generateRecommendations(comparisons []ConfigComparison, contributions []NodeContribution) []string {
	var recs []string

	var best *ConfigComparison
	for i := range comparisons {
		c := &comparisons[i]
		if c.SuccessRateDelta <= -0.05 {
			continue
		}
		if best == nil || c.LatencyDeltaPct < best.LatencyDeltaPct {
			best = c
		}
	}
	if best != nil && best.LatencyDeltaPct < -15 {
		recs = append(recs, fmt.Sprintf(
			"configuration %q reduces latency by %.1f%% with minimal quality impact",
			best.ConfigName, -best.LatencyDeltaPct))
	}

	for _, c := range contributions {
		if c.Recommendation == Optimize {
			recs = append(recs, fmt.Sprintf(
				"node %q uses %.1f%% of resources but is critical - consider optimizing",
				c.Node, c.LatencyContributionPct+c.TokenContributionPct))
		}
	}

	for _, c := range contributions {
		if c.Recommendation == ConsiderRemoving {
			recs = append(recs, fmt.Sprintf(
				"node %q uses %.1f%% of resources with low impact (%.1f%% success rate change)",
				c.Node, c.LatencyContributionPct+c.TokenContributionPct, c.SuccessRateImpact*100))
		}
	}

	simplifyCount := 0
	for _, c := range contributions {
		if c.Recommendation == Simplify {
			simplifyCount++
		}
	}
	if simplifyCount > 0 {
		recs = append(recs, fmt.Sprintf("%d node(s) could be simplified for better efficiency", simplifyCount))
	}

	if len(recs) == 0 {
		recs = append(recs, "current configuration appears well-optimized")
	}

	return recs
}

// ToMarkdown renders the report as a pair of tables plus a recommendations
// list, suitable for embedding in a PR description or a run log.
func (r Report[S]) ToMarkdown() string {
	var b strings.Builder

	b.WriteString("# Ablation Study Report\n\n")

	b.WriteString("## Configuration Comparison\n\n")
	b.WriteString("| Configuration | Latency Δ | Token Δ | Success Rate Δ | Assessment |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range r.Comparisons {
		fmt.Fprintf(&b, "| %s | %+.1f%% | %+.1f%% | %+.1f%% | %s |\n",
			c.ConfigName, c.LatencyDeltaPct, c.TokenDeltaPct, c.SuccessRateDelta*100, c.Assessment)
	}

	b.WriteString("\n## Node Contribution Analysis\n\n")
	b.WriteString("| Node | Latency % | Token % | Success Impact | Recommendation |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range r.NodeContributions {
		fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %+.1f%% | %s |\n",
			c.Node, c.LatencyContributionPct, c.TokenContributionPct, c.SuccessRateImpact*100, c.Recommendation)
	}

	b.WriteString("\n## Recommendations\n\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	return b.String()
}

// jsonReport is Report's JSON shape - Recommendation needs a string
// rendering since the numeric enum isn't meaningful to a reader of the
// serialized report.
type jsonReport struct {
	Configs           []jsonConfigResult   `json:"configs"`
	Comparisons       []ConfigComparison   `json:"comparisons"`
	NodeContributions []jsonNodeContrib    `json:"node_contributions"`
	Recommendations   []string             `json:"recommendations"`
}

type jsonConfigResult struct {
	ConfigName string                `json:"config_name"`
	IsBaseline bool                  `json:"is_baseline"`
	Stats      *graph.AggregateStats `json:"stats"`
}

type jsonNodeContrib struct {
	Node                   string   `json:"node"`
	LatencyContributionPct float64  `json:"latency_contribution_pct"`
	TokenContributionPct   float64  `json:"token_contribution_pct"`
	SuccessRateImpact      float64  `json:"success_rate_impact"`
	QualityImpact          *float64 `json:"quality_impact,omitempty"`
	ImportanceScore        float64  `json:"importance_score"`
	Recommendation         string   `json:"recommendation"`
}

// ToJSON renders the report as indented JSON.
func (r Report[S]) ToJSON() (string, error) {
	jr := jsonReport{
		Comparisons:     r.Comparisons,
		Recommendations: r.Recommendations,
	}
	for _, c := range r.Configs {
		jr.Configs = append(jr.Configs, jsonConfigResult{
			ConfigName: c.Config.Name,
			IsBaseline: c.Config.IsBaseline,
			Stats:      c.Stats,
		})
	}
	for _, c := range r.NodeContributions {
		jr.NodeContributions = append(jr.NodeContributions, jsonNodeContrib{
			Node:                   c.Node,
			LatencyContributionPct: c.LatencyContributionPct,
			TokenContributionPct:   c.TokenContributionPct,
			SuccessRateImpact:      c.SuccessRateImpact,
			QualityImpact:          c.QualityImpact,
			ImportanceScore:        c.ImportanceScore,
			Recommendation:         c.Recommendation.String(),
		})
	}

	data, err := json.MarshalIndent(jr, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
