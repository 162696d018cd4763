package graph

// OverrideKind selects how a NodeOverride replaces a node's normal
// execution for one run.
type OverrideKind int

const (
	// OverrideSkip passes the incoming state through unchanged, exactly
	// like masking, but is declared through NodeOverrides rather than
	// MaskedNodes - useful when a config wants to record the skip under a
	// specific override identity rather than the generic masked-node path.
	OverrideSkip OverrideKind = iota

	// OverrideMockOutput replaces the node's output with a fixed value,
	// ignoring both the node's Run method and the incoming state.
	OverrideMockOutput

	// OverrideMockFn looks up a replacement Node by name in the
	// ExecutionConfig's MockFns table and runs that instead of the
	// registered node.
	OverrideMockFn
)

// Override describes a per-run replacement for one node's behavior.
type Override[S State] struct {
	Kind       OverrideKind
	MockOutput S
	MockFnName string
}

// SkipOverride returns an Override that passes state through unchanged.
func SkipOverride[S State]() Override[S] {
	return Override[S]{Kind: OverrideSkip}
}

// MockOutputOverride returns an Override that replaces a node's output with
// value.
func MockOutputOverride[S State](value S) Override[S] {
	return Override[S]{Kind: OverrideMockOutput, MockOutput: value}
}

// MockFnOverride returns an Override that runs the node registered under
// name in ExecutionConfig.MockFns instead of the graph's node.
func MockFnOverride[S State](name string) Override[S] {
	return Override[S]{Kind: OverrideMockFn, MockFnName: name}
}

// ExecutionConfig governs one Invoke/Stream/InvokeResumable call. It
// belongs to a run, not to the graph: the same CompiledGraph is reusable
// across many configs, which is exactly what the ablation harness exploits
// to run baseline and masked variants side by side.
type ExecutionConfig[S State] struct {
	MaxIterations  int
	Debug          bool
	MaskedNodes    map[string]bool
	NodeOverrides  map[string]Override[S]
	MockFns        map[string]Node[S]
	ConfigID       string
	CollectMetrics bool
}

// NewExecutionConfig returns a config with an empty mask/override set and
// config id "default".
func NewExecutionConfig[S State]() ExecutionConfig[S] {
	return ExecutionConfig[S]{
		ConfigID:      "default",
		MaskedNodes:   make(map[string]bool),
		NodeOverrides: make(map[string]Override[S]),
		MockFns:       make(map[string]Node[S]),
	}
}

// ForAblation returns a config with metrics collection enabled and the
// given nodes masked, ready to pass to an ablation run.
func ForAblation[S State](configID string, masked []string) ExecutionConfig[S] {
	c := NewExecutionConfig[S]()
	c.ConfigID = configID
	c.CollectMetrics = true
	for _, n := range masked {
		c.MaskedNodes[n] = true
	}
	return c
}

// MaskNode adds node to the masked set and returns c for chaining.
func (c ExecutionConfig[S]) MaskNode(node string) ExecutionConfig[S] {
	c.MaskedNodes[node] = true
	return c
}

// MaskNodes adds every node in nodes to the masked set.
func (c ExecutionConfig[S]) MaskNodes(nodes []string) ExecutionConfig[S] {
	for _, n := range nodes {
		c.MaskedNodes[n] = true
	}
	return c
}

// WithOverride registers an override for node and returns c for chaining.
func (c ExecutionConfig[S]) WithOverride(node string, override Override[S]) ExecutionConfig[S] {
	c.NodeOverrides[node] = override
	return c
}

// WithMockFn registers a replacement node under name, for use with
// MockFnOverride.
func (c ExecutionConfig[S]) WithMockFn(name string, node Node[S]) ExecutionConfig[S] {
	c.MockFns[name] = node
	return c
}

// WithConfigID sets the config id used to group metrics.
func (c ExecutionConfig[S]) WithConfigID(id string) ExecutionConfig[S] {
	c.ConfigID = id
	return c
}

// WithMetrics enables metrics collection for runs using this config.
func (c ExecutionConfig[S]) WithMetrics() ExecutionConfig[S] {
	c.CollectMetrics = true
	return c
}

// IsMasked reports whether node is in the masked set.
func (c ExecutionConfig[S]) IsMasked(node string) bool {
	return c.MaskedNodes[node]
}
