package runtime

import (
	"context"
	"fmt"
)

// Runner executes one external command line and waits for it to finish.
type Runner interface {
	// Run executes command with dir as the working directory. An empty dir
	// means the current working directory. A non-zero exit status is
	// reported as a *ProcessError.
	Run(ctx context.Context, command, dir string) (*Output, error)
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessError reports a command that ran and exited non-zero, or that could
// not be started at all (ExitCode is then -1).
type ProcessError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("command %q could not be run: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

func (e *ProcessError) Unwrap() error { return e.Err }
