package models

import "time"

// TaskResult is the outcome of one dispatched task.
type TaskResult struct {
	// Success indicates whether the task completed without error.
	Success bool `json:"success"`
	// Result holds the agent's output when Success is true.
	Result string `json:"result,omitempty"`
	// Error holds the failure reason when Success is false.
	Error string `json:"error,omitempty"`
	// Handler is the handler that executed the task.
	Handler Handler `json:"handler"`
	// Confidence is the routing confidence in [0,1], zero when forced.
	Confidence float64 `json:"confidence,omitempty"`
	// Elapsed is how long execution took.
	Elapsed time.Duration `json:"elapsed"`
}

// CompletedTask is one recorded task or workflow run in the context store.
type CompletedTask struct {
	// ID is the unique identifier for this record.
	ID string `json:"id"`
	// Kind distinguishes plain tasks from workflow runs.
	Kind TaskKind `json:"kind"`
	// Description is a short (truncated) description of the work.
	Description string `json:"description"`
	// Handler is the handler that performed the work, if any.
	Handler Handler `json:"handler,omitempty"`
	// Success indicates whether the work succeeded.
	Success bool `json:"success"`
	// Elapsed is how long the work took.
	Elapsed time.Duration `json:"elapsed"`
	// CompletedAt is when the record was written.
	CompletedAt time.Time `json:"completed_at"`
}

// TaskKind identifies what produced a history record.
type TaskKind string

const (
	// TaskKindTask marks a single routed task.
	TaskKindTask TaskKind = "task"
	// TaskKindWorkflow marks a workflow run.
	TaskKindWorkflow TaskKind = "workflow"
)

// Valid returns true if the kind is a known value.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindTask, TaskKindWorkflow:
		return true
	default:
		return false
	}
}
