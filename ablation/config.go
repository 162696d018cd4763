// Package ablation runs the same compiled graph under several node-masking
// configurations and compares their metrics against a baseline, to answer
// "what does each node actually buy us" without changing the graph itself.
//
// It is grounded directly in the teacher's original ablation study module:
// a config declares which nodes to mask or override, a shared
// graph.MetricsCollector gathers one RunMetrics per (config, test case)
// pair, and Report derives deltas and per-node recommendations from
// the aggregate.
package ablation

import (
	"sort"
	"strings"

	"github.com/agentgraph/agentgraph/graph"
)

// Config describes one ablation variant: a named set of masked nodes and/or
// overrides to run the same test cases through.
type Config[S graph.State] struct {
	Name        string
	MaskedNodes map[string]bool
	Overrides   map[string]graph.Override[S]
	IsBaseline  bool
}

// Baseline returns the unmasked configuration every other config is
// compared against.
func Baseline[S graph.State](name string) Config[S] {
	return Config[S]{
		Name:        name,
		MaskedNodes: make(map[string]bool),
		Overrides:   make(map[string]graph.Override[S]),
		IsBaseline:  true,
	}
}

// Mask returns a configuration that masks every node in nodes.
func Mask[S graph.State](name string, nodes []string) Config[S] {
	masked := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		masked[n] = true
	}
	return Config[S]{
		Name:        name,
		MaskedNodes: masked,
		Overrides:   make(map[string]graph.Override[S]),
	}
}

// MaskOne returns a configuration that masks a single node.
func MaskOne[S graph.State](name, node string) Config[S] {
	return Mask[S](name, []string{node})
}

// WithOverride attaches a node override to c and returns it for chaining.
func (c Config[S]) WithOverride(node string, override graph.Override[S]) Config[S] {
	c.Overrides[node] = override
	return c
}

// ConfigID returns the identifier used to group this configuration's runs in
// a MetricsCollector: "baseline" for the baseline config, otherwise
// "mask_<sorted masked node names joined by _>".
func (c Config[S]) ConfigID() string {
	if len(c.MaskedNodes) == 0 && len(c.Overrides) == 0 {
		return "baseline"
	}
	names := make([]string, 0, len(c.MaskedNodes))
	for n := range c.MaskedNodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return "mask_" + strings.Join(names, "_")
}

// ExecutionConfig converts c into a graph.ExecutionConfig ready to pass to
// CompiledGraph.InvokeWithMetrics.
func (c Config[S]) ExecutionConfig() graph.ExecutionConfig[S] {
	cfg := graph.NewExecutionConfig[S]().WithConfigID(c.ConfigID()).WithMetrics()
	for node := range c.MaskedNodes {
		cfg = cfg.MaskNode(node)
	}
	for node, override := range c.Overrides {
		cfg = cfg.WithOverride(node, override)
	}
	return cfg
}

// TestCase is one input run through every configuration in a study.
type TestCase[S graph.State] struct {
	Name          string
	Input         S
	Expected      *S
	ExpectedNodes []string
	MaxLatencyMS  *int64
	MaxTokens     *int
}

// NewTestCase returns a TestCase with no optional fields set.
func NewTestCase[S graph.State](name string, input S) TestCase[S] {
	return TestCase[S]{Name: name, Input: input}
}

// WithExpected sets the expected output, used by quality scoring.
func (tc TestCase[S]) WithExpected(expected S) TestCase[S] {
	tc.Expected = &expected
	return tc
}

// WithExpectedNodes records which nodes a correct run should visit.
func (tc TestCase[S]) WithExpectedNodes(nodes []string) TestCase[S] {
	tc.ExpectedNodes = nodes
	return tc
}

// WithMaxLatency sets a latency budget in milliseconds.
func (tc TestCase[S]) WithMaxLatency(ms int64) TestCase[S] {
	tc.MaxLatencyMS = &ms
	return tc
}

// WithMaxTokens sets a token budget.
func (tc TestCase[S]) WithMaxTokens(tokens int) TestCase[S] {
	tc.MaxTokens = &tokens
	return tc
}

// StudyBuilder assembles the configs and test cases for one ablation run.
type StudyBuilder[S graph.State] struct {
	configs   []Config[S]
	testCases []TestCase[S]
}

// NewStudyBuilder returns an empty builder.
func NewStudyBuilder[S graph.State]() *StudyBuilder[S] {
	return &StudyBuilder[S]{}
}

// Baseline adds the baseline configuration.
func (b *StudyBuilder[S]) Baseline() *StudyBuilder[S] {
	b.configs = append(b.configs, Baseline[S]("baseline"))
	return b
}

// Mask adds a configuration masking the given nodes.
func (b *StudyBuilder[S]) Mask(name string, nodes []string) *StudyBuilder[S] {
	b.configs = append(b.configs, Mask[S](name, nodes))
	return b
}

// MaskOne adds a configuration masking a single node, named "without_<node>".
func (b *StudyBuilder[S]) MaskOne(node string) *StudyBuilder[S] {
	b.configs = append(b.configs, MaskOne[S]("without_"+node, node))
	return b
}

// MaskEach adds one masked configuration per node in nodes, each masking
// only that node.
func (b *StudyBuilder[S]) MaskEach(nodes []string) *StudyBuilder[S] {
	for _, node := range nodes {
		b.MaskOne(node)
	}
	return b
}

// TestCase adds a single test case.
func (b *StudyBuilder[S]) TestCase(tc TestCase[S]) *StudyBuilder[S] {
	b.testCases = append(b.testCases, tc)
	return b
}

// TestCases adds several test cases at once.
func (b *StudyBuilder[S]) TestCases(cases []TestCase[S]) *StudyBuilder[S] {
	b.testCases = append(b.testCases, cases...)
	return b
}

// Configs returns the configurations assembled so far.
func (b *StudyBuilder[S]) Configs() []Config[S] { return b.configs }

// TestCasesList returns the test cases assembled so far.
func (b *StudyBuilder[S]) TestCasesList() []TestCase[S] { return b.testCases }

// Build returns the assembled configs and test cases.
func (b *StudyBuilder[S]) Build() ([]Config[S], []TestCase[S]) {
	return b.configs, b.testCases
}
