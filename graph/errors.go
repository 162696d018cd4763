package graph

import "fmt"

// Kind classifies a GraphError so callers can branch on failure category
// without parsing error strings.
type Kind int

const (
	// KindOther covers errors that don't fit a more specific kind, such as
	// a node override naming a mock function that was never registered.
	KindOther Kind = iota

	// KindNodeNotFound is returned when an edge or branch references a
	// node name that was never registered with AddNode.
	KindNodeNotFound

	// KindBranchError is returned when a branch function returns a result
	// string that isn't a key in its path map (when one is configured),
	// when the branch function itself returns an error, or when an edge
	// names a branch that was never registered.
	KindBranchError

	// KindExecutionError wraps a node's Run error, attaching the node name
	// that produced it.
	KindExecutionError

	// KindMaxIterationsExceeded is returned when a run crosses its
	// configured iteration ceiling without reaching END.
	KindMaxIterationsExceeded

	// KindNoEntryPoint is returned by Compile when the graph has no edge
	// from START.
	KindNoEntryPoint

	// KindDuplicateEdge is returned by Compile when a node has more than
	// one outgoing edge registered against it.
	KindDuplicateEdge

	// KindInterrupted names the state of execution paused at a node
	// awaiting a resume value. No function in this package returns it:
	// InvokeResumable and Resume hand back the Checkpoint with a nil error,
	// and Invoke and Stream return KindUnexpectedInterrupt.
	KindInterrupted

	// KindUnexpectedInterrupt is returned by Invoke and Stream (but not
	// InvokeResumable) when a node interrupts but the caller used a
	// non-resumable entry point, so there is nowhere to hand the
	// checkpoint back to.
	KindUnexpectedInterrupt
)

func (k Kind) String() string {
	switch k {
	case KindNodeNotFound:
		return "node_not_found"
	case KindBranchError:
		return "branch_error"
	case KindExecutionError:
		return "execution_error"
	case KindMaxIterationsExceeded:
		return "max_iterations_exceeded"
	case KindNoEntryPoint:
		return "no_entry_point"
	case KindDuplicateEdge:
		return "duplicate_edge"
	case KindInterrupted:
		return "interrupted"
	case KindUnexpectedInterrupt:
		return "unexpected_interrupt"
	default:
		return "other"
	}
}

// GraphError is the error type returned by every package-level operation.
//
// Node is empty when the error isn't attributable to a single node (e.g.
// KindNoEntryPoint). Cause holds the underlying error when a node's Run
// (KindExecutionError) or a branch function (KindBranchError) returned one,
// so errors.Unwrap works with the standard library's error tree helpers.
type GraphError struct {
	Kind    Kind
	Node    string
	Message string
	Cause   error
}

func (e *GraphError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("graph: %s: %s: %s", e.Kind, e.Node, e.Message)
	}
	return fmt.Sprintf("graph: %s: %s", e.Kind, e.Message)
}

func (e *GraphError) Unwrap() error {
	return e.Cause
}

func newGraphError(kind Kind, node, message string, cause error) *GraphError {
	return &GraphError{Kind: kind, Node: node, Message: message, Cause: cause}
}
