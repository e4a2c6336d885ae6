package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vibecodehq/vibe/internal/exec"
)

// DefaultCLITimeout bounds a single claude CLI invocation.
const DefaultCLITimeout = 5 * time.Minute

// CLIAgent runs implementation tasks through the claude CLI so the model
// can read and edit files in the project directory.
type CLIAgent struct {
	runner  exec.CommandRunner
	binary  string
	workDir string
	timeout time.Duration
}

// NewCLIAgent creates a CLI-backed agent rooted at workDir.
func NewCLIAgent(runner exec.CommandRunner, workDir string, timeout time.Duration) *CLIAgent {
	if timeout <= 0 {
		timeout = DefaultCLITimeout
	}
	return &CLIAgent{
		runner:  runner,
		binary:  "claude",
		workDir: workDir,
		timeout: timeout,
	}
}

// Available reports whether the claude CLI is on PATH.
func (a *CLIAgent) Available() bool {
	return exec.LookPath(a.binary)
}

// CheckCLI verifies the claude CLI is installed, with an install hint
// when it is not.
func (a *CLIAgent) CheckCLI() error {
	return checkBinary(a.binary)
}

// CheckCLI verifies the claude CLI is on PATH without constructing an
// agent.
func CheckCLI() error {
	return checkBinary("claude")
}

func checkBinary(binary string) error {
	if !exec.LookPath(binary) {
		return fmt.Errorf("'%s' CLI not found in PATH\n\nInstall it with:\n  npm install -g @anthropic-ai/claude-code", binary)
	}
	return nil
}

// Execute runs the task through the CLI in print mode. Project context is
// piped on stdin so the model sees it before the task. Callers should
// verify CheckCLI before dispatching.
func (a *CLIAgent) Execute(ctx context.Context, task, projectContext string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := []string{"--print", "-p", task}

	out, err := a.runner.RunInput(ctx, a.workDir, projectContext, a.binary, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("claude CLI timed out after %s", a.timeout)
		}
		return nil, fmt.Errorf("claude CLI failed: %w\n%s", err, tail(string(out), 20))
	}

	return &Response{Text: strings.TrimSpace(string(out))}, nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
