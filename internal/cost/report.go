package cost

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	reportBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	reportLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	reportWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Report renders the session, daily, and monthly spend against budgets.
func (t *Tracker) Report() (string, error) {
	daily, err := t.DailyCost()
	if err != nil {
		return "", err
	}
	monthly, err := t.MonthlyCost()
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	sessionCost := t.sessionCost
	sessionCalls := t.sessionCalls
	elapsed := time.Since(t.sessionStart).Round(time.Second)
	t.mu.Unlock()

	var b strings.Builder
	b.WriteString(reportTitleStyle.Render("Cost Report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s $%.4f (%d calls, %s)\n", reportLabelStyle.Render("Session:"), sessionCost, sessionCalls, elapsed)
	b.WriteString(budgetLine("Today:  ", daily, t.budgets.Daily))
	b.WriteString(budgetLine("Month:  ", monthly, t.budgets.Monthly))

	return reportBorderStyle.Render(strings.TrimRight(b.String(), "\n")), nil
}

func budgetLine(label string, spent, budget float64) string {
	line := fmt.Sprintf("%s $%.4f / $%.2f\n", reportLabelStyle.Render(label), spent, budget)
	if spent > budget {
		return reportWarnStyle.Render(strings.TrimRight(line, "\n")) + "\n"
	}
	return line
}
