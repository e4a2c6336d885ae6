// Package agent provides the execution backends tasks are dispatched to:
// the Anthropic API, the claude CLI, and the project scaffolder.
package agent

// Usage reports token consumption for one API call.
type Usage struct {
	// InputTokens is the number of input tokens billed.
	InputTokens int64
	// OutputTokens is the number of output tokens billed.
	OutputTokens int64
	// CacheReadTokens is the number of input tokens served from the
	// prompt cache.
	CacheReadTokens int64
	// CacheWriteTokens is the number of input tokens written to the
	// prompt cache.
	CacheWriteTokens int64
}

// Response is the outcome of one agent execution.
type Response struct {
	// Text is the agent's output.
	Text string
	// Model is the model that produced the response, empty for
	// non-API agents.
	Model string
	// Usage is the token usage for the call, zero for non-API agents.
	Usage Usage
}
