package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibecodehq/vibe/internal/config"
	"github.com/vibecodehq/vibe/internal/contextstore"
	"github.com/vibecodehq/vibe/internal/cost"
	"github.com/vibecodehq/vibe/internal/exec"
	"github.com/vibecodehq/vibe/internal/orchestrator"
	"github.com/vibecodehq/vibe/internal/tui"
	"github.com/vibecodehq/vibe/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Task router for AI-assisted development",
	Long: `Vibe routes natural-language development tasks to the agent best
suited to handle them: the Anthropic API for analysis, the claude CLI
for code changes, a scaffolder for new projects, and a batch engine
for bulk file operations.

With no arguments, launches interactive mode where you can type tasks
and watch them execute.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// timeRound is the display precision for elapsed durations.
const timeRound = 10 * time.Millisecond

// app bundles the per-invocation collaborators every command needs.
type app struct {
	root  string
	cfg   *config.Config
	store *contextstore.Store
	orch  *orchestrator.Orchestrator
	costs *cost.Tracker
}

// openApp wires config, store, tracker, and orchestrator for the current
// working directory. Callers must Close it.
func openApp() (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := contextstore.OpenProject(cwd)
	if err != nil {
		return nil, fmt.Errorf("open project store: %w", err)
	}

	tracker := cost.NewTracker(store, cost.Budgets{
		Daily:   cfg.Budgets.Daily,
		Monthly: cfg.Budgets.Monthly,
	})

	return &app{
		root:  cwd,
		cfg:   cfg,
		store: store,
		orch:  orchestrator.New(cwd, cfg, store, tracker, exec.NewRunner()),
		costs: tracker,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// cmdContext returns a context cancelled on SIGINT/SIGTERM. Callers must
// call stop when done.
func cmdContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runInteractive starts the REPL against a fresh orchestrator session.
func runInteractive() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cmdContext()
	defer stop()

	return tui.Run(
		func(text string) models.TaskResult {
			return a.orch.ExecuteTask(ctx, text, orchestrator.Options{})
		},
		func() string { return renderStats(a) },
	)
}
