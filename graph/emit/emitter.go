// Package emit provides event emission and observability for graph execution.
package emit

import "context"

// Emitter receives observability events from graph execution: node starts
// and ends, routing decisions, interrupts, errors. Implementations should be
// non-blocking, thread-safe (a node may run on any goroutine), and resilient
// - a failing sink should log internally rather than crash the run.
type Emitter interface {
	// Emit sends a single event. Should not panic or block execution.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation, for sinks where
	// batching events (ordered by creation time) reduces overhead.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until all buffered events are sent or ctx expires.
	// Should be safe to call more than once.
	Flush(ctx context.Context) error
}
