// Package model provides LLM integration adapters.
package model

import "context"

// ChatModel defines the interface for LLM chat providers.
//
// This interface abstracts the differences between various LLM providers
// (OpenAI, Anthropic, Google, local models), giving nodes a single API for
// chat-based interactions regardless of which one they're backed by.
//
// Implementations should handle provider-specific authentication, convert
// Message into the provider's wire format, parse the response back into
// ChatOut, and respect context cancellation.
type ChatModel interface {
	// Chat sends messages to the LLM and returns the response.
	//
	// tools is nil when the caller isn't offering any tool calls. The LLM
	// may respond with text only, tool calls only, or both.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Message represents a single message in an LLM conversation, following the
// common chat format used by OpenAI, Anthropic, Google, and other providers.
type Message struct {
	// Role identifies the message sender. Use the Role* constants.
	Role string

	// Content contains the message text. May be empty for messages that
	// only contain tool calls.
	Content string
}

// Standard role constants for LLM conversations.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolSpec describes a tool that an LLM can call. Schema follows JSON
// Schema format and describes the expected input parameters.
type ToolSpec struct {
	// Name uniquely identifies the tool; must match a Tool.Name() the host
	// will dispatch to.
	Name string

	// Description explains what the tool does; the LLM uses this to decide
	// when to call it.
	Description string

	// Schema defines the tool's input parameters. Optional for tools with
	// no parameters.
	Schema map[string]interface{}
}

// ChatOut represents the output from an LLM chat completion: a direct text
// answer, one or more tool calls, or both.
type ChatOut struct {
	Text      string
	ToolCalls []ToolCall
}

// ToolCall represents a request from the LLM to invoke a specific tool. The
// caller executes it and sends the result back in a follow-up message.
type ToolCall struct {
	// Name identifies which tool to call; matches a ToolSpec.Name from the
	// tools offered in the request.
	Name string

	// Input contains the parameters for the call, shaped like the
	// corresponding ToolSpec.Schema. May be nil for parameterless tools.
	Input map[string]interface{}
}
