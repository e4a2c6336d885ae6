// Package orchestrator routes tasks to agents and records outcomes in
// the project's context store.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/vibecodehq/vibe/internal/agent"
	"github.com/vibecodehq/vibe/internal/batch"
	"github.com/vibecodehq/vibe/internal/config"
	"github.com/vibecodehq/vibe/internal/contextstore"
	"github.com/vibecodehq/vibe/internal/cost"
	"github.com/vibecodehq/vibe/internal/exec"
	"github.com/vibecodehq/vibe/internal/fsutil"
	"github.com/vibecodehq/vibe/internal/router"
	"github.com/vibecodehq/vibe/pkg/models"
)

// descriptionCap bounds how much of a task description is persisted.
const descriptionCap = 100

// Options tune a single task execution.
type Options struct {
	// ForceHandler skips routing when it names a valid handler. An
	// unknown value falls back to auto-routing with a warning.
	ForceHandler string
	// NoContext skips the project context block.
	NoContext bool
}

// Orchestrator wires the router, agents, store, and cost tracker
// together. Agents are constructed lazily so a CLI-only session never
// needs an API key.
type Orchestrator struct {
	root    string
	cfg     *config.Config
	store   *contextstore.Store
	tracker *cost.Tracker
	runner  exec.CommandRunner

	mu       sync.Mutex
	api      *agent.APIAgent
	cli      *agent.CLIAgent
	scaffold *agent.ScaffoldAgent
	executor *batch.Executor

	tasksExecuted int
	sessionStart  time.Time
}

// New creates an orchestrator rooted at root.
func New(root string, cfg *config.Config, store *contextstore.Store, tracker *cost.Tracker, runner exec.CommandRunner) *Orchestrator {
	return &Orchestrator{
		root:         root,
		cfg:          cfg,
		store:        store,
		tracker:      tracker,
		runner:       runner,
		sessionStart: time.Now(),
	}
}

// ExecuteTask routes the task, dispatches it, and records the outcome.
// Failures land in the result; the error path is reserved for the
// orchestrator's own wiring going wrong.
func (o *Orchestrator) ExecuteTask(ctx context.Context, text string, opts Options) models.TaskResult {
	handler, confidence := o.resolveHandler(text, opts.ForceHandler)

	projectContext := ""
	if !opts.NoContext {
		var err error
		projectContext, err = o.store.ContextForAgent()
		if err != nil {
			log.Printf("[orchestrator] context unavailable: %v", err)
		}
	}

	start := time.Now()
	output, err := o.dispatch(ctx, handler, text, projectContext)
	elapsed := time.Since(start)

	result := models.TaskResult{
		Success:    err == nil,
		Result:     output,
		Handler:    handler,
		Confidence: confidence,
		Elapsed:    elapsed,
	}
	if err != nil {
		result.Error = err.Error()
	}

	o.mu.Lock()
	o.tasksExecuted++
	o.mu.Unlock()

	if recErr := o.store.RecordTask(models.CompletedTask{
		Kind:        models.TaskKindTask,
		Description: truncate(text, descriptionCap),
		Handler:     handler,
		Success:     result.Success,
		Elapsed:     elapsed,
	}); recErr != nil {
		log.Printf("[orchestrator] record task: %v", recErr)
	}

	return result
}

// Dispatch lets the workflow engine drive the orchestrator. An empty
// handler means auto-routing on the prompt.
func (o *Orchestrator) Dispatch(ctx context.Context, handler models.Handler, prompt string) (string, error) {
	if handler == "" {
		handler, _ = router.Classify(prompt)
	}

	projectContext, err := o.store.ContextForAgent()
	if err != nil {
		log.Printf("[orchestrator] context unavailable: %v", err)
	}
	return o.dispatch(ctx, handler, prompt, projectContext)
}

// resolveHandler applies a forced handler when valid, otherwise routes.
func (o *Orchestrator) resolveHandler(text, force string) (models.Handler, float64) {
	if force != "" {
		forced := models.Handler(force)
		if forced.Valid() {
			return forced, 1.0
		}
		log.Printf("[orchestrator] unknown handler %q, using auto-routing", force)
	}
	return router.Classify(text)
}

func (o *Orchestrator) dispatch(ctx context.Context, handler models.Handler, text, projectContext string) (string, error) {
	switch handler {
	case models.HandlerAPI:
		a, err := o.apiAgent()
		if err != nil {
			return "", err
		}
		resp, err := a.Execute(ctx, text, projectContext)
		if err != nil {
			return "", err
		}
		if c, err := o.tracker.Track(resp.Model, resp.Usage); err != nil {
			log.Printf("[orchestrator] track cost: %v", err)
		} else {
			log.Printf("[orchestrator] api cost $%.4f (session $%.4f)", c, o.tracker.SessionCost())
		}
		return resp.Text, nil

	case models.HandlerCLI:
		a := o.cliAgent()
		if err := a.CheckCLI(); err != nil {
			return "", err
		}
		resp, err := a.Execute(ctx, text, projectContext)
		if err != nil {
			return "", err
		}
		return resp.Text, nil

	case models.HandlerScaffold:
		return o.runScaffoldTask(text)

	case models.HandlerBatch:
		return o.runBatchTask(text)

	default:
		return "", fmt.Errorf("handler %q not implemented", handler)
	}
}

// runScaffoldTask maps a natural-language scaffold task onto the
// scaffold agent. Anything it cannot parse yields usage help.
func (o *Orchestrator) runScaffoldTask(text string) (string, error) {
	lowered := strings.ToLower(text)
	a := o.scaffoldAgent()

	switch {
	case strings.Contains(lowered, "scaffold") || strings.Contains(lowered, "create project"):
		res, err := a.Scaffold("new-project", "basic", false)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("scaffolded %s from the %s template (%d entries)", res.ProjectPath, res.Template, len(res.Created)), nil

	case strings.Contains(lowered, "find") || strings.Contains(lowered, "search"):
		files, err := fsutil.ExpandPatterns(o.root, []string{"**/*"})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("found %d file(s) under %s", len(files), o.root), nil

	default:
		return "scaffold agent ready. Available templates: " + strings.Join(a.Templates(), ", "), nil
	}
}

// runBatchTask maps a natural-language batch task onto a batch
// operation. Mutating operations run as dry runs; the batch CLI is the
// explicit path for real changes.
func (o *Orchestrator) runBatchTask(text string) (string, error) {
	lowered := strings.ToLower(text)
	e := o.batchExecutor()

	run := func(op batch.Operation, targets []string, opts batch.Options) (string, error) {
		res, err := e.Execute(op, targets, opts)
		if err != nil {
			return "", err
		}
		return res.Summary(), nil
	}

	switch {
	case strings.Contains(lowered, "rollback"):
		return run(batch.OpRollback, nil, batch.Options{})
	case strings.Contains(lowered, "status"):
		return run(batch.OpStatus, nil, batch.Options{})
	case strings.Contains(lowered, "deduplicate") || strings.Contains(lowered, "duplicate"):
		return run(batch.OpDeduplicate, []string{"**/*"}, batch.Options{DryRun: true})
	case strings.Contains(lowered, "organize"):
		return run(batch.OpOrganize, []string{"**/*"}, batch.Options{DryRun: true})
	case strings.Contains(lowered, "rename"):
		return run(batch.OpRename, []string{"**/*"}, batch.Options{DryRun: true})
	default:
		return "batch agent ready. Available operations: " + strings.Join(operationNames(), ", "), nil
	}
}

func operationNames() []string {
	ops := []batch.Operation{
		batch.OpTransform, batch.OpRename, batch.OpSync, batch.OpArchive, batch.OpExtract,
		batch.OpDeduplicate, batch.OpOrganize, batch.OpPipeline, batch.OpRollback, batch.OpStatus,
	}
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

func (o *Orchestrator) apiAgent() (*agent.APIAgent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.api == nil {
		apiKey := ""
		if !o.cfg.Bedrock.Enabled {
			var err error
			apiKey, err = config.GetAPIKey(o.cfg)
			if err != nil {
				return nil, err
			}
		}
		a, err := agent.NewAPIAgent(agent.APIConfig{
			Model:      anthropic.Model(o.cfg.Defaults.Model),
			APIKey:     apiKey,
			UseBedrock: o.cfg.Bedrock.Enabled,
			AWSRegion:  o.cfg.Bedrock.Region,
			AWSProfile: o.cfg.Bedrock.Profile,
		})
		if err != nil {
			return nil, err
		}
		o.api = a
	}
	return o.api, nil
}

func (o *Orchestrator) cliAgent() *agent.CLIAgent {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cli == nil {
		o.cli = agent.NewCLIAgent(o.runner, o.root, o.cfg.Timeouts.CLI)
	}
	return o.cli
}

func (o *Orchestrator) scaffoldAgent() *agent.ScaffoldAgent {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.scaffold == nil {
		o.scaffold = agent.NewScaffoldAgent(o.root)
	}
	return o.scaffold
}

// BatchExecutor returns the session's batch executor, creating it on
// first use. The same instance serves every batch command so rollback
// sees the whole session's history.
func (o *Orchestrator) BatchExecutor() *batch.Executor {
	return o.batchExecutor()
}

func (o *Orchestrator) batchExecutor() *batch.Executor {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.executor == nil {
		o.executor = batch.NewExecutor(o.root, o.cfg.Batch.MaxWorkers)
	}
	return o.executor
}

// SessionStats summarizes the current session.
type SessionStats struct {
	Project       string
	Duration      time.Duration
	TasksExecuted int
	APICost       float64
	APICalls      int
}

// Stats returns the session statistics.
func (o *Orchestrator) Stats() SessionStats {
	o.mu.Lock()
	tasks := o.tasksExecuted
	start := o.sessionStart
	o.mu.Unlock()

	return SessionStats{
		Project:       o.store.Project(),
		Duration:      time.Since(start).Round(time.Second),
		TasksExecuted: tasks,
		APICost:       o.tracker.SessionCost(),
		APICalls:      o.tracker.SessionCalls(),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
