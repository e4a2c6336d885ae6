// Package tui provides the interactive REPL.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibecodehq/vibe/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	taskEchoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

const helpText = `Commands:
  type any task to execute it
  stats - show session statistics
  help  - show this help
  exit  - leave interactive mode

Task examples:
  "Analyze the architecture of this project"
  "Implement a login form with validation"
  "Organize the downloads folder"`

// taskDoneMsg carries a finished task back into the update loop.
type taskDoneMsg struct {
	text   string
	result models.TaskResult
}

// App is the interactive REPL model. Tasks run through the runTask
// callback so the TUI stays decoupled from the orchestrator.
type App struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	runTask func(text string) models.TaskResult
	statsFn func() string

	lines    []string
	running  bool
	quitting bool
	ready    bool
	width    int
	height   int
}

// NewApp creates the REPL. runTask executes one task synchronously;
// statsFn renders the session statistics block.
func NewApp(runTask func(string) models.TaskResult, statsFn func() string) *App {
	ti := textinput.New()
	ti.Placeholder = "Type a task and press Enter..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		input:   ti,
		spinner: sp,
		runTask: runTask,
		statsFn: statsFn,
		lines:   []string{titleStyle.Render("vibe interactive"), dimStyle.Render("type 'help' for commands"), ""},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.quitting = true
			return a, tea.Quit

		case "enter":
			if a.running {
				return a, nil
			}
			text := strings.TrimSpace(a.input.Value())
			if text == "" {
				return a, nil
			}
			a.input.Reset()
			return a.handleInput(text)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case taskDoneMsg:
		a.running = false
		a.appendResult(msg.text, msg.result)
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleInput dispatches one line of user input.
func (a *App) handleInput(text string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(text) {
	case "exit", "quit":
		a.append(a.statsFn())
		a.quitting = true
		return a, tea.Quit

	case "stats":
		a.append(a.statsFn(), "")
		return a, nil

	case "help":
		a.append(helpText, "")
		return a, nil
	}

	a.append(taskEchoStyle.Render(">>> " + text))
	a.running = true

	run := func() tea.Msg {
		return taskDoneMsg{text: text, result: a.runTask(text)}
	}
	return a, tea.Batch(a.spinner.Tick, run)
}

// appendResult renders one finished task into the transcript.
func (a *App) appendResult(text string, res models.TaskResult) {
	header := fmt.Sprintf("%s via %s (%.0f%%, %s)",
		statusWord(res.Success), res.Handler, res.Confidence*100, res.Elapsed.Round(10*time.Millisecond))
	if res.Success {
		a.append(okStyle.Render(header))
		if res.Result != "" {
			a.append(truncateOutput(res.Result), "")
		}
	} else {
		a.append(failStyle.Render(header), res.Error, "")
	}
}

func statusWord(ok bool) string {
	if ok {
		return "done"
	}
	return "failed"
}

// truncateOutput keeps the transcript readable for very long outputs.
func truncateOutput(s string) string {
	const limit = 2000
	if len(s) <= limit {
		return s
	}
	return s[:limit] + dimStyle.Render(fmt.Sprintf("\n... (%d more characters)", len(s)-limit))
}

func (a *App) append(lines ...string) {
	a.lines = append(a.lines, lines...)
	if a.ready {
		a.viewport.SetContent(strings.Join(a.lines, "\n"))
		a.viewport.GotoBottom()
	}
}

func (a *App) resize() {
	inputHeight := 3
	vpHeight := a.height - inputHeight - 1
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !a.ready {
		a.viewport = viewport.New(a.width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = vpHeight
	}
	a.viewport.SetContent(strings.Join(a.lines, "\n"))
	a.viewport.GotoBottom()

	a.input.Width = a.width - 6
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	if !a.ready {
		return "loading..."
	}

	status := promptStyle.Render("> ")
	if a.running {
		status = a.spinner.View() + " working..."
		return lipgloss.JoinVertical(lipgloss.Left,
			a.viewport.View(),
			inputBoxStyle.Width(a.width-2).Render(status))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewport.View(),
		inputBoxStyle.Width(a.width-2).Render(status+a.input.View()))
}

// Run starts the REPL and blocks until the user exits.
func Run(runTask func(string) models.TaskResult, statsFn func() string) error {
	p := tea.NewProgram(NewApp(runTask, statsFn), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
