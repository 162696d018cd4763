package graph

// State is the constraint every workflow state type must satisfy.
//
// Unlike the teacher's delta-merge Reducer model, a CompiledGraph passes a
// single value of S from node to node: each node receives the state its
// predecessor produced and returns the state its successor will receive.
// There is no concurrent merge step, so S does not need to be commutative
// or associative under any reducer - it only needs to be copyable and
// JSON-serializable for checkpointing.
//
// NextHint lets a node request a specific successor, bypassing edge
// evaluation entirely. This mirrors a routing decision baked into the
// state itself (e.g. a planner node that already knows which tool node
// handles its output). Return ("", false) to fall through to the graph's
// registered edges.
//
// IsComplete signals that the run is finished regardless of what the edge
// table says - the executor checks it after every node and treats true as
// an immediate route to END. The runtime never inspects state fields
// beyond these two methods.
type State interface {
	NextHint() (node string, ok bool)
	IsComplete() bool
}
