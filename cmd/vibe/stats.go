package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show project statistics and API spend",
	Long: `Display the project's recent task history and API cost report.

Costs aggregate over the usage log in .vibe/state.db: today's and this
month's totals are checked against the configured budgets.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println(renderStats(a))
	return nil
}

// renderStats builds the stats block shared by the stats command and the
// REPL's stats/exit output.
func renderStats(a *app) string {
	var b strings.Builder

	stats := a.orch.Stats()
	fmt.Fprintf(&b, "Project: %s\n", stats.Project)
	fmt.Fprintf(&b, "Session: %d task(s) in %s\n", stats.TasksExecuted, stats.Duration)
	if stats.APICalls > 0 {
		fmt.Fprintf(&b, "API: %d call(s), $%.4f\n", stats.APICalls, stats.APICost)
	}

	recent, err := a.store.RecentTasks(5)
	if err == nil && len(recent) > 0 {
		b.WriteString("\nRecent tasks:\n")
		for _, t := range recent {
			marker := color.GreenString("+")
			if !t.Success {
				marker = color.RedString("x")
			}
			fmt.Fprintf(&b, "  %s %s (%s, %s ago)\n",
				marker, t.Description, t.Handler, formatAgo(time.Since(t.CompletedAt)))
		}
	}

	if report, err := a.costs.Report(); err == nil {
		b.WriteString("\n" + report)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatAgo renders a duration in the largest sensible unit.
func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}
