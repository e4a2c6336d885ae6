package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibecodehq/vibe/internal/workflow"
)

var (
	workflowDryRun bool
	workflowVars   []string
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run multi-step workflows",
	Long: `Load and execute YAML workflow definitions.

Workflows live in .vibe/workflows/ by default. Each step targets an
agent (or "auto" to route by prompt), may depend on earlier steps, and
can publish its output for later steps to interpolate.`,
}

var workflowListCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: "List available workflows",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkflowList,
}

var workflowRunCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a workflow",
	Long: `Execute the workflow in the given YAML file.

Examples:
  vibe workflow run release.yaml
  vibe workflow run release.yaml --var version=2.0
  vibe workflow run release.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowRun,
}

func init() {
	workflowRunCmd.Flags().BoolVar(&workflowDryRun, "dry-run", false, "Walk the steps without dispatching")
	workflowRunCmd.Flags().StringArrayVar(&workflowVars, "var", nil, "Override a workflow variable (key=value, repeatable)")

	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowRunCmd)
}

// workflowsDir is where project workflows are kept by default.
const workflowsDir = ".vibe/workflows"

func runWorkflowList(cmd *cobra.Command, args []string) error {
	dir := workflowsDir
	if len(args) > 0 {
		dir = args[0]
	}

	entries, err := workflow.List(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No workflows in %s\n", dir)
		return nil
	}

	for _, e := range entries {
		if e.Err != nil {
			fmt.Printf("%s %s: %v\n", color.RedString("!"), e.File, e.Err)
			continue
		}
		version := ""
		if e.Version != "" {
			version = " v" + e.Version
		}
		fmt.Printf("%s%s (%d steps) - %s\n", color.CyanString(e.Name), version, e.Steps, e.Description)
		fmt.Printf("  file: %s\n", filepath.Join(dir, e.File))
	}
	return nil
}

func runWorkflowRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	def, err := workflow.Load(path)
	if err != nil {
		return err
	}

	vars, err := parseVars(workflowVars)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cmdContext()
	defer stop()

	engine := workflow.NewEngine(a.orch, a.store)
	summary, err := engine.Run(ctx, def, workflow.RunOptions{
		DryRun:      workflowDryRun,
		Vars:        vars,
		StepTimeout: a.cfg.Timeouts.Step,
	})
	if err != nil {
		return err
	}

	printSummary(summary)
	if !summary.Success {
		return fmt.Errorf("workflow %q failed", summary.Workflow)
	}
	return nil
}

// parseVars splits repeated key=value flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", p)
		}
		vars[k] = v
	}
	return vars, nil
}

func printSummary(s *workflow.Summary) {
	status := color.GreenString("succeeded")
	if !s.Success {
		status = color.RedString("failed")
	}
	fmt.Printf("Workflow %q %s in %s: %d completed, %d failed, %d skipped\n",
		s.Workflow, status, s.Elapsed.Round(timeRound), s.Completed, s.Failed, s.Skipped)

	for _, step := range s.Steps {
		marker := "-"
		switch step.Status {
		case workflow.StepCompleted:
			marker = color.GreenString("+")
		case workflow.StepFailed:
			marker = color.RedString("x")
		case workflow.StepSkipped:
			marker = color.YellowString("~")
		}
		line := fmt.Sprintf("  %s %s [%s]", marker, step.ID, step.Status)
		if step.Attempts > 1 {
			line += fmt.Sprintf(" (%d attempts)", step.Attempts)
		}
		if step.Error != "" {
			line += ": " + step.Error
		}
		fmt.Println(line)
	}
}
