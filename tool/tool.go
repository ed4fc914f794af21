// Package tool exposes an injected autonomous agent as a single callable
// tool: one invocation accepts a prompt plus an optional step budget and
// returns either an aggregated terminal result or a live sequence of
// progress events, depending on the configured streaming mode.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface a host tool registry consumes.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does, provided to the host so callers know when to use it.
	Description() string

	// Parameters returns a JSON schema describing the expected input.
	Parameters() map[string]any

	// Call executes the tool with structured arguments. Arguments are
	// validated against the tool's schema before any work begins.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ToolError represents errors that occur at the tool boundary.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
