package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	contextTech        string
	contextConventions []string
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show or update the project context",
	Long: `Show the project context block passed to agents, or update it.

The context combines the project name, tech stack, conventions, and the
recent task history. Conventions are free-form key=value notes agents
should honor.

Examples:
  vibe context
  vibe context --tech go,sqlite,cobra
  vibe context --set style="tabs, not spaces" --set tests="table-driven"`,
	RunE: runContext,
}

func init() {
	contextCmd.Flags().StringVar(&contextTech, "tech", "", "Set the tech stack (comma-separated)")
	contextCmd.Flags().StringArrayVar(&contextConventions, "set", nil, "Set a convention (key=value, repeatable)")
}

func runContext(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	changed := false

	if contextTech != "" {
		stack := strings.Split(contextTech, ",")
		for i := range stack {
			stack[i] = strings.TrimSpace(stack[i])
		}
		if err := a.store.SetTechStack(stack); err != nil {
			return err
		}
		changed = true
	}

	for _, pair := range contextConventions {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid --set %q, expected key=value", pair)
		}
		if err := a.store.Set("conventions."+k, v); err != nil {
			return err
		}
		changed = true
	}

	if changed {
		fmt.Println("Context updated.")
		fmt.Println()
	}

	block, err := a.store.ContextForAgent()
	if err != nil {
		return err
	}
	fmt.Println(block)
	return nil
}
