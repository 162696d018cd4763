package tool

import "context"

// Tool defines the interface for executable tools that a node can invoke on
// an LLM's behalf: web searches, API calls, database queries, calculations,
// anything the model itself can't do directly.
//
// Implementations should validate their input, respect context cancellation,
// and return structured output the model can reason about.
type Tool interface {
	// Name returns the unique identifier for this tool, matching the
	// ToolSpec.Name the model was offered it under.
	Name() string

	// Call executes the tool with the provided input and returns the
	// result. input may be nil for parameterless tools; its shape should
	// match the corresponding ToolSpec.Schema.
	Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}
