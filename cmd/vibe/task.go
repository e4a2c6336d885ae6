package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibecodehq/vibe/internal/orchestrator"
	"github.com/vibecodehq/vibe/internal/router"
)

var (
	taskHandler   string
	taskNoContext bool
	taskExplain   bool
)

var taskCmd = &cobra.Command{
	Use:   "task <description>",
	Short: "Execute a single task",
	Long: `Route a natural-language task to the right agent and execute it.

The router scores the task text against each agent's trigger phrases;
use --agent to bypass routing, or --explain to see the routing decision
without executing anything.

Examples:
  vibe task "summarize the architecture of this project"
  vibe task "rename all screenshots by date" --agent batch
  vibe task "fix the failing login test" --no-context`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	taskCmd.Flags().StringVar(&taskHandler, "agent", "", "Force a specific agent (api, cli, scaffold, batch)")
	taskCmd.Flags().BoolVar(&taskNoContext, "no-context", false, "Skip the project context block")
	taskCmd.Flags().BoolVar(&taskExplain, "explain", false, "Show the routing decision and exit")
}

func runTask(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if taskExplain {
		fmt.Println(router.Explain(text))
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cmdContext()
	defer stop()

	res := a.orch.ExecuteTask(ctx, text, orchestrator.Options{
		ForceHandler: taskHandler,
		NoContext:    taskNoContext,
	})

	if res.Success {
		fmt.Printf("%s via %s (%.0f%% confidence, %s)\n\n",
			color.GreenString("done"), res.Handler, res.Confidence*100, res.Elapsed.Round(timeRound))
		if res.Result != "" {
			fmt.Println(res.Result)
		}
		return nil
	}

	fmt.Printf("%s via %s (%s)\n", color.RedString("failed"), res.Handler, res.Elapsed.Round(timeRound))
	return fmt.Errorf("%s", res.Error)
}
