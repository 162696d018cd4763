package emit

// Event is one observability record emitted during graph execution: a node
// starting or ending, a routing decision, an interrupt, an error.
type Event struct {
	// RunID identifies the run that emitted this event.
	RunID string

	// Step is the sequential step number (1-indexed). Zero for run-level
	// events (start, complete, error).
	Step int

	// NodeID identifies which node emitted this event. Empty for run-level
	// events.
	NodeID string

	// Msg is a short human-readable description of the event.
	Msg string

	// Meta carries event-specific data: "duration_ms", "error", "tokens",
	// "checkpoint_id", "retryable", and similar keys depending on Msg.
	Meta map[string]interface{}
}
