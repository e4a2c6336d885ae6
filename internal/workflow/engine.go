package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vibecodehq/vibe/pkg/models"
)

// StepStatus represents the runtime state of a step within one run.
type StepStatus string

const (
	// StepPending indicates the step has not been attempted.
	StepPending StepStatus = "pending"
	// StepRunning indicates the step is executing.
	StepRunning StepStatus = "running"
	// StepCompleted indicates the step finished successfully.
	StepCompleted StepStatus = "completed"
	// StepFailed indicates the step exhausted its attempt budget.
	StepFailed StepStatus = "failed"
	// StepSkipped indicates the step was not attempted because a
	// dependency did not complete or an earlier step failed.
	StepSkipped StepStatus = "skipped"
)

// Valid returns true if the status is a known value.
func (s StepStatus) Valid() bool {
	switch s {
	case StepPending, StepRunning, StepCompleted, StepFailed, StepSkipped:
		return true
	default:
		return false
	}
}

// Dispatcher executes a single step prompt on a handler. Retries and
// timeouts are the engine's responsibility, not the dispatcher's.
// Handler is empty when the step requested auto-routing.
type Dispatcher interface {
	Dispatch(ctx context.Context, handler models.Handler, prompt string) (string, error)
}

// Recorder receives one completion event per finished workflow run.
type Recorder interface {
	RecordWorkflow(name string, success bool, elapsed time.Duration) error
}

// StepResult is the final state of one step after a run.
type StepResult struct {
	// ID is the step identifier.
	ID string
	// Status is the step's terminal status.
	Status StepStatus
	// Result is the dispatched output when the step completed.
	Result string
	// Error is the last attempt's error when the step failed.
	Error string
	// Attempts is the number of dispatch calls made.
	Attempts int
	// Elapsed is the total time across all attempts.
	Elapsed time.Duration
}

// Summary is the outcome of a workflow run.
type Summary struct {
	// Workflow is the workflow name.
	Workflow string
	// Success is true iff no step ended failed.
	Success bool
	// TotalSteps is the number of steps in the definition.
	TotalSteps int
	// Completed, Failed, and Skipped count terminal step states.
	Completed int
	Failed    int
	Skipped   int
	// Elapsed is the wall time for the whole run.
	Elapsed time.Duration
	// Steps holds per-step results in declaration order.
	Steps []StepResult
	// Outputs maps save_output keys to published step results.
	Outputs map[string]string
}

// RunOptions controls a single workflow run.
type RunOptions struct {
	// DryRun walks the dependency and skip logic but marks attempted
	// steps completed without dispatching.
	DryRun bool
	// Vars overrides definition variable defaults.
	Vars map[string]string
	// StepTimeout bounds attempts of steps that declare no timeout of
	// their own. Zero falls back to DefaultStepTimeout.
	StepTimeout time.Duration
}

// Engine executes workflow definitions against a dispatcher.
type Engine struct {
	dispatcher Dispatcher
	recorder   Recorder
}

// NewEngine creates an Engine. The recorder may be nil when run completion
// should not be persisted.
func NewEngine(dispatcher Dispatcher, recorder Recorder) *Engine {
	return &Engine{dispatcher: dispatcher, recorder: recorder}
}

// Run executes a workflow definition and returns its summary.
//
// Steps run strictly in declaration order. A step is attempted only when
// every dependency completed; otherwise it is skipped without consuming a
// retry. Once any step fails, all later steps are skipped (no step opts
// into run-on-failure today). The run itself succeeds iff no step failed.
func (e *Engine) Run(ctx context.Context, def *Definition, opts RunOptions) (*Summary, error) {
	if def == nil {
		return nil, fmt.Errorf("no workflow loaded")
	}
	if e.dispatcher == nil && !opts.DryRun {
		return nil, fmt.Errorf("engine has no dispatcher")
	}

	vars := make(map[string]string, len(def.Variables)+len(opts.Vars))
	for k, v := range def.Variables {
		vars[k] = v
	}
	for k, v := range opts.Vars {
		vars[k] = v
	}

	stepTimeout := opts.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = DefaultStepTimeout
	}

	run := &runState{
		status:      make(map[string]StepStatus, len(def.Steps)),
		outputs:     make(map[string]string),
		vars:        vars,
		stepTimeout: stepTimeout,
	}
	for _, s := range def.Steps {
		run.status[s.ID] = StepPending
	}

	start := time.Now()
	results := make([]StepResult, 0, len(def.Steps))
	failed := false

	for i := range def.Steps {
		step := &def.Steps[i]

		if failed {
			run.status[step.ID] = StepSkipped
			results = append(results, StepResult{ID: step.ID, Status: StepSkipped})
			continue
		}
		if !run.depsCompleted(step) {
			run.status[step.ID] = StepSkipped
			results = append(results, StepResult{ID: step.ID, Status: StepSkipped})
			continue
		}

		if opts.DryRun {
			log.Printf("[workflow] dry run: would execute step %q", step.ID)
			run.status[step.ID] = StepCompleted
			results = append(results, StepResult{ID: step.ID, Status: StepCompleted})
			continue
		}

		res := e.executeStep(ctx, step, run)
		run.status[step.ID] = res.Status
		if res.Status == StepFailed {
			failed = true
		} else if step.SaveOutput != "" {
			run.outputs[step.SaveOutput] = res.Result
		}
		results = append(results, res)
	}

	summary := &Summary{
		Workflow:   def.Name,
		TotalSteps: len(def.Steps),
		Elapsed:    time.Since(start),
		Steps:      results,
		Outputs:    run.outputs,
	}
	for _, r := range results {
		switch r.Status {
		case StepCompleted:
			summary.Completed++
		case StepFailed:
			summary.Failed++
		case StepSkipped:
			summary.Skipped++
		}
	}
	summary.Success = summary.Failed == 0

	if e.recorder != nil {
		if err := e.recorder.RecordWorkflow(def.Name, summary.Success, summary.Elapsed); err != nil {
			log.Printf("[workflow] record run: %v", err)
		}
	}

	return summary, nil
}

// executeStep drives one step through its attempt budget. Each attempt is
// bounded by the step timeout; the budget as a whole is not.
func (e *Engine) executeStep(ctx context.Context, step *Step, run *runState) StepResult {
	run.status[step.ID] = StepRunning
	start := time.Now()

	prompt := Interpolate(step.Prompt, run.vars, run.outputs)

	var handler models.Handler
	if step.Agent != AgentAuto {
		handler = models.Handler(step.Agent)
	}

	res := StepResult{ID: step.ID}
	maxAttempts := 1 + step.Retry

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res.Attempts = attempt

		attemptCtx, cancel := context.WithTimeout(ctx, run.timeoutFor(step))
		out, err := e.dispatcher.Dispatch(attemptCtx, handler, prompt)
		cancel()

		if err == nil {
			res.Status = StepCompleted
			res.Result = out
			res.Elapsed = time.Since(start)
			return res
		}

		lastErr = err
		if attempt < maxAttempts {
			log.Printf("[workflow] step %q attempt %d/%d failed: %v, retrying", step.ID, attempt, maxAttempts, err)
		}
	}

	res.Status = StepFailed
	res.Error = lastErr.Error()
	res.Elapsed = time.Since(start)
	log.Printf("[workflow] step %q failed after %d attempts: %v", step.ID, res.Attempts, lastErr)
	return res
}

// runState is the mutable per-run bookkeeping. It is owned by exactly one
// Run call and never shared across runs.
type runState struct {
	status      map[string]StepStatus
	outputs     map[string]string
	vars        map[string]string
	stepTimeout time.Duration
}

// timeoutFor picks the per-attempt bound: the step's own timeout when
// declared, otherwise the run default.
func (r *runState) timeoutFor(step *Step) time.Duration {
	if step.Timeout > 0 {
		return step.Timeout
	}
	return r.stepTimeout
}

func (r *runState) depsCompleted(step *Step) bool {
	for _, dep := range step.DependsOn {
		if r.status[dep] != StepCompleted {
			return false
		}
	}
	return true
}
