// Package models defines the shared types used across the vibe system.
package models

// Handler identifies the logical receiver of a routed task.
type Handler string

const (
	// HandlerAPI is the analysis handler backed by the Anthropic API.
	// It is also the default when routing is ambiguous.
	HandlerAPI Handler = "api"
	// HandlerCLI is the code-execution handler backed by the claude CLI.
	HandlerCLI Handler = "cli"
	// HandlerScaffold is the project scaffolding and templating handler.
	HandlerScaffold Handler = "scaffold"
	// HandlerBatch is the bulk file-operation handler.
	HandlerBatch Handler = "batch"
)

// Handlers is the canonical handler ordering. Routing score ties resolve
// to the earliest entry, so this order is behaviorally significant and
// must not be rearranged.
var Handlers = []Handler{HandlerAPI, HandlerCLI, HandlerScaffold, HandlerBatch}

// Valid returns true if the handler is a known value.
func (h Handler) Valid() bool {
	switch h {
	case HandlerAPI, HandlerCLI, HandlerScaffold, HandlerBatch:
		return true
	default:
		return false
	}
}

// Description returns a human-readable summary of the handler's capabilities.
func (h Handler) Description() string {
	switch h {
	case HandlerAPI:
		return "Strategic analysis, planning, research, and explanation"
	case HandlerCLI:
		return "Code implementation, debugging, testing, and execution"
	case HandlerScaffold:
		return "Project scaffolding and template generation"
	case HandlerBatch:
		return "Parallel batch operations, pipelines, sync, and bulk processing"
	default:
		return "Unknown handler"
	}
}
