package graph

import (
	"context"
	"fmt"
	"maps"
)

// Builder assembles nodes and edges into a CompiledGraph. It mirrors
// StateGraph from the original langgraph implementation: register nodes,
// wire edges (direct or conditional), then Compile to validate and freeze
// the structure.
//
// A Builder is not safe for concurrent use; build the graph once, from one
// goroutine, before handing the compiled result to as many callers as you
// like.
type Builder[S State] struct {
	nodes      map[string]NodeSpec[S]
	edges      map[string]edge[S]
	duplicates map[string]bool
	branches   map[string]branchSpec[S]
	branchSeq  int
}

// NewBuilder creates an empty graph builder.
func NewBuilder[S State]() *Builder[S] {
	return &Builder[S]{
		nodes:      make(map[string]NodeSpec[S]),
		edges:      make(map[string]edge[S]),
		duplicates: make(map[string]bool),
		branches:   make(map[string]branchSpec[S]),
	}
}

// AddNode registers a node function under name.
//
// It panics if name is empty, reserved (START or END), contains a reserved
// character, or has already been registered - these are programmer errors
// caught at graph-construction time, the same way the original
// implementation panics on add_node misuse.
func (b *Builder[S]) AddNode(name string, fn func(ctx context.Context, state S) (S, error)) *Builder[S] {
	return b.AddNodeSpec(NewNodeSpec(name, fn))
}

// AddNodeSpec registers a pre-built NodeSpec. Use this when a Node
// implementation needs state beyond a plain closure (for example, a node
// backed by a ChatModel client).
func (b *Builder[S]) AddNodeSpec(spec NodeSpec[S]) *Builder[S] {
	if reason := ValidateName(spec.Name); reason != "" {
		panic("graph: " + reason)
	}
	if _, exists := b.nodes[spec.Name]; exists {
		panic(fmt.Sprintf("graph: node %q already exists", spec.Name))
	}
	b.nodes[spec.Name] = spec
	return b
}

// AddEdge registers a direct edge from one node to another. Use START as
// from to declare the entry point, and END as to to declare a finish point.
//
// Registering a second edge from the same source does not panic - it
// replaces the previous edge and marks the source as having had a
// duplicate, which Compile rejects with a KindDuplicateEdge GraphError. This mirrors
// add_edge's signature (infallible, chainable) while still surfacing the
// conflict at Compile.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	if from == END {
		panic("graph: END cannot be a source node")
	}
	if to == START {
		panic("graph: START cannot be a destination node")
	}
	b.registerEdge(from, edge[S]{kind: edgeDirect, to: to})
	return b
}

// AddConditionalEdges registers a branch-resolved edge from a node. path
// inspects state and returns a routing key; pathMap, if non-nil, maps that
// key onto a destination node name. A nil pathMap means the key IS the
// destination name.
func (b *Builder[S]) AddConditionalEdges(from string, path BranchFunc[S], pathMap map[string]string) *Builder[S] {
	if from == END {
		panic("graph: END cannot be a source node")
	}
	name := fmt.Sprintf("branch_%d", b.branchSeq)
	b.branchSeq++
	b.branches[name] = branchSpec[S]{name: name, fn: path, pathMap: pathMap}
	b.registerEdge(from, edge[S]{kind: edgeConditional, branch: name})
	return b
}

// AddConditionalEdgesSync is a convenience wrapper for routing functions
// that can't fail and don't need a context, mirroring
// add_conditional_edges_sync.
func (b *Builder[S]) AddConditionalEdgesSync(from string, path func(state S) string, pathMap map[string]string) *Builder[S] {
	return b.AddConditionalEdges(from, BranchFuncSync(path), pathMap)
}

// SetEntryPoint is shorthand for AddEdge(START, node).
func (b *Builder[S]) SetEntryPoint(node string) *Builder[S] {
	return b.AddEdge(START, node)
}

// SetConditionalEntryPoint is shorthand for AddConditionalEdges(START, ...).
func (b *Builder[S]) SetConditionalEntryPoint(path BranchFunc[S], pathMap map[string]string) *Builder[S] {
	return b.AddConditionalEdges(START, path, pathMap)
}

// SetFinishPoint is shorthand for AddEdge(node, END).
func (b *Builder[S]) SetFinishPoint(node string) *Builder[S] {
	return b.AddEdge(node, END)
}

// AddSequence registers a list of nodes and wires a direct edge from each
// to the next, in order. It does not connect the first node to START or
// the last node to END - callers still call SetEntryPoint/SetFinishPoint
// (or AddEdge) themselves.
func (b *Builder[S]) AddSequence(specs ...NodeSpec[S]) *Builder[S] {
	var prev string
	for i, spec := range specs {
		b.AddNodeSpec(spec)
		if i > 0 {
			b.AddEdge(prev, spec.Name)
		}
		prev = spec.Name
	}
	return b
}

func (b *Builder[S]) registerEdge(from string, e edge[S]) {
	if _, exists := b.edges[from]; exists {
		b.duplicates[from] = true
	}
	b.edges[from] = e
}

// validate checks graph well-formedness: an entry point exists, every edge
// source (other than START) is a registered node, every edge target (other
// than END) is a registered node, and no source has more than one edge.
func (b *Builder[S]) validate() error {
	if _, ok := b.edges[START]; !ok {
		return newGraphError(KindNoEntryPoint, "", "no entry point: call SetEntryPoint or AddEdge(graph.START, ...)", nil)
	}

	for from := range b.duplicates {
		return newGraphError(KindDuplicateEdge, from, "more than one outgoing edge registered for this source", nil)
	}

	for from := range b.edges {
		if from != START {
			if _, ok := b.nodes[from]; !ok {
				return newGraphError(KindNodeNotFound, from, "edge source is not a registered node", nil)
			}
		}
	}

	targets := make(map[string]struct{})
	for _, e := range b.edges {
		switch e.kind {
		case edgeDirect:
			targets[e.to] = struct{}{}
		case edgeConditional:
			for _, d := range b.branches[e.branch].destinations() {
				targets[d] = struct{}{}
			}
		}
	}
	for t := range targets {
		if t == END {
			continue
		}
		if _, ok := b.nodes[t]; !ok {
			return newGraphError(KindNodeNotFound, t, "edge target is not a registered node", nil)
		}
	}

	return nil
}

// Compile validates the graph and returns an immutable CompiledGraph ready
// for Invoke, Stream, or InvokeResumable. The Builder may be discarded
// afterward; CompiledGraph holds its own copy of the node/edge/branch maps.
func (b *Builder[S]) Compile(opts ...Option) (*CompiledGraph[S], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	cfg := newEngineConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &CompiledGraph[S]{
		nodes:    maps.Clone(b.nodes),
		edges:    maps.Clone(b.edges),
		branches: maps.Clone(b.branches),
		config:   cfg,
	}, nil
}
