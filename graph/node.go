package graph

import "context"

// Node is a single unit of work in a graph. Run receives the state produced
// by whichever node routed to it and returns the state the next node should
// receive.
//
// A node that needs to pause execution (for example, to wait on a human
// decision or an external callback) returns a zero S and an *Interrupted
// error built with NewInterrupt. CompiledGraph.InvokeResumable and Resume
// surface this as a Checkpoint rather than treating it as failure;
// Invoke and Stream return a KindUnexpectedInterrupt error instead.
type Node[S State] interface {
	Run(ctx context.Context, state S) (S, error)
}

// NodeFunc adapts a plain function to the Node interface, the same pattern
// the teacher uses for its own node functions.
type NodeFunc[S State] func(ctx context.Context, state S) (S, error)

// Run calls f.
func (f NodeFunc[S]) Run(ctx context.Context, state S) (S, error) {
	return f(ctx, state)
}

// NodeSpec pairs a node with the name it was registered under. Builder.AddNode
// constructs one of these internally; AddNodeSpec lets callers build and
// register one directly, useful when a node needs to be constructed
// elsewhere (for example in a table of nodes shared across graphs).
type NodeSpec[S State] struct {
	Name string
	Node Node[S]
}

// NewNodeSpec builds a NodeSpec from a plain function.
func NewNodeSpec[S State](name string, fn func(ctx context.Context, state S) (S, error)) NodeSpec[S] {
	return NodeSpec[S]{Name: name, Node: NodeFunc[S](fn)}
}
