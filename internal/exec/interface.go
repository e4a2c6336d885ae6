// Package exec provides an interface for command execution.
package exec

import (
	"context"
)

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking command execution in tests.
type CommandRunner interface {
	// RunInput executes a command with input piped to stdin and returns
	// combined stdout/stderr output. The working directory is set to
	// workDir if non-empty.
	RunInput(ctx context.Context, workDir string, input string, name string, args ...string) (output []byte, err error)
}
