package graph

import (
	"fmt"
	"strings"
)

// START is the sentinel source node representing the graph's entry point.
// Use it with AddEdge or SetEntryPoint to declare which node runs first.
const START = "__start__"

// END is the sentinel destination node representing graph completion.
// Routing a node to END stops execution and returns the accumulated state.
const END = "__end__"

// reservedChars are characters disallowed in node and branch names because
// they collide with internal key formats (composite checkpoint keys,
// metrics map keys, markdown table rendering).
const reservedChars = " \t\n:|"

// isReservedName reports whether name collides with a sentinel node name.
func isReservedName(name string) bool {
	return name == START || name == END
}

// hasReservedChars reports whether name contains a character this package
// reserves for internal use.
func hasReservedChars(name string) bool {
	return strings.ContainsAny(name, reservedChars)
}

// ValidateName reports the reason name cannot be used as a node name, or ""
// if it's valid: non-empty, not a sentinel (START/END), and free of
// reserved characters.
func ValidateName(name string) string {
	if name == "" {
		return "node name must not be empty"
	}
	if isReservedName(name) {
		return fmt.Sprintf("node name %q is reserved", name)
	}
	if hasReservedChars(name) {
		return fmt.Sprintf("node name %q contains a reserved character", name)
	}
	return ""
}
