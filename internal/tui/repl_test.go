package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibecodehq/vibe/pkg/models"
)

func newTestApp(t *testing.T, runTask func(string) models.TaskResult) *App {
	t.Helper()

	if runTask == nil {
		runTask = func(string) models.TaskResult {
			return models.TaskResult{Success: true, Result: "ok"}
		}
	}
	app := NewApp(runTask, func() string { return "session stats" })
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app
}

func submit(app *App, text string) tea.Cmd {
	app.input.SetValue(text)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func transcript(app *App) string {
	return strings.Join(app.lines, "\n")
}

func TestHelpCommand(t *testing.T) {
	app := newTestApp(t, nil)

	submit(app, "help")

	if !strings.Contains(transcript(app), "stats - show session statistics") {
		t.Errorf("transcript = %q", transcript(app))
	}
}

func TestStatsCommand(t *testing.T) {
	app := newTestApp(t, nil)

	submit(app, "stats")

	if !strings.Contains(transcript(app), "session stats") {
		t.Errorf("transcript = %q", transcript(app))
	}
}

func TestExitShowsStatsAndQuits(t *testing.T) {
	app := newTestApp(t, nil)

	cmd := submit(app, "exit")

	if !app.quitting {
		t.Error("exit did not mark the app as quitting")
	}
	if !strings.Contains(transcript(app), "session stats") {
		t.Error("exit did not print the session stats")
	}
	if cmd == nil {
		t.Fatal("exit returned no command")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	var got string
	app := newTestApp(t, func(text string) models.TaskResult {
		got = text
		return models.TaskResult{
			Success:    true,
			Result:     "all done",
			Handler:    models.HandlerBatch,
			Confidence: 0.9,
			Elapsed:    20 * time.Millisecond,
		}
	})

	cmd := submit(app, "organize my files")
	if cmd == nil {
		t.Fatal("task submission returned no command")
	}
	if !app.running {
		t.Error("app not marked running while a task executes")
	}

	// Drain the batch: one of the messages is the finished task.
	drain(t, app, cmd())

	if got != "organize my files" {
		t.Errorf("runTask received %q", got)
	}
	if app.running {
		t.Error("app still running after the task finished")
	}
	if !strings.Contains(transcript(app), "all done") {
		t.Errorf("transcript = %q", transcript(app))
	}
}

func TestFailedTaskShowsError(t *testing.T) {
	app := newTestApp(t, func(string) models.TaskResult {
		return models.TaskResult{Success: false, Error: "no such operation", Handler: models.HandlerBatch}
	})

	cmd := submit(app, "do the impossible")
	drain(t, app, cmd())

	if !strings.Contains(transcript(app), "no such operation") {
		t.Errorf("transcript = %q", transcript(app))
	}
}

func TestEmptyInputIgnored(t *testing.T) {
	app := newTestApp(t, nil)
	before := len(app.lines)

	submit(app, "   ")

	if len(app.lines) != before {
		t.Error("blank input changed the transcript")
	}
}

// drain feeds msg (unwrapping batches) back into the app until the
// task-done message has been delivered.
func drain(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, c := range m {
			if c == nil {
				continue
			}
			drain(t, app, c())
		}
	case taskDoneMsg:
		app.Update(m)
	}
}

func TestTruncateOutput(t *testing.T) {
	short := "short"
	if truncateOutput(short) != short {
		t.Error("short output modified")
	}

	long := strings.Repeat("x", 3000)
	out := truncateOutput(long)
	if !strings.Contains(out, "more characters") {
		t.Errorf("long output not truncated: %d bytes", len(out))
	}
}
