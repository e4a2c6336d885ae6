package batch

import (
	"fmt"
	"log"
)

// PipelineStep is one sub-operation spec within a pipeline.
type PipelineStep struct {
	// Name is the display name, defaulting to "step N".
	Name string `yaml:"name" json:"name"`
	// Operation is the batch operation to run.
	Operation Operation `yaml:"operation" json:"operation"`
	// Targets are the step's glob patterns.
	Targets []string `yaml:"targets" json:"targets"`
	// Options are the step's operation options.
	Options Options `yaml:"options" json:"options"`
	// ContinueOnError keeps the pipeline going past this step's failure.
	ContinueOnError bool `yaml:"continue_on_error" json:"continue_on_error"`
}

// PipelineDetails reports a pipeline run.
type PipelineDetails struct {
	// StepsCompleted counts steps that ran, successfully or not.
	StepsCompleted int
	// FailedStep is the 1-based index of the step that aborted the
	// pipeline, or 0 when none did.
	FailedStep int
	// Results holds the per-step results in order.
	Results []PipelineStepResult
}

// PipelineStepResult pairs a pipeline step with its result.
type PipelineStepResult struct {
	// Index is the 1-based step position.
	Index int
	// Name is the step's display name.
	Name string
	// Operation is the operation the step ran.
	Operation Operation
	// Result is the step's batch result, nil when Execute itself
	// rejected the step.
	Result *Result
	// Err is set when Execute rejected the step outright
	// (unknown operation, failed precondition).
	Err string
}

// pipeline executes the step list strictly sequentially through the same
// Execute entry point. A failed step aborts the remainder unless it opts
// into continue_on_error; only the inner parallel transform ever runs
// concurrently.
func (e *Executor) pipeline(_ []string, opts Options) (*Result, error) {
	if len(opts.Steps) == 0 {
		return nil, precondition("no pipeline steps provided")
	}

	res := &Result{DryRun: opts.DryRun, Pipeline: &PipelineDetails{}}

	for i, step := range opts.Steps {
		index := i + 1
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", index)
		}

		stepOpts := step.Options
		if opts.DryRun {
			// Pipeline-level dry run overrides every step.
			stepOpts.DryRun = true
		}

		stepRes, err := e.Execute(step.Operation, step.Targets, stepOpts)
		sr := PipelineStepResult{Index: index, Name: name, Operation: step.Operation, Result: stepRes}
		if err != nil {
			sr.Err = err.Error()
		}
		res.Pipeline.Results = append(res.Pipeline.Results, sr)
		res.Pipeline.StepsCompleted++

		failed := err != nil || (stepRes != nil && !stepRes.Success)
		if failed && !step.ContinueOnError {
			log.Printf("[batch] pipeline aborted at step %d (%s)", index, name)
			res.Pipeline.FailedStep = index
			res.Success = false
			return res, nil
		}
	}

	res.Success = true
	return res, nil
}
