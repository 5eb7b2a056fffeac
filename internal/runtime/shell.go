package runtime

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/gameanalytics/gabuild/internal/log"
	"github.com/gameanalytics/gabuild/internal/platform"
)

// ShellRunner runs commands through the host shell: powershell.exe on Windows
// hosts and sh elsewhere.
type ShellRunner struct {
	Host platform.Host

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Env, when non-nil, replaces the inherited process environment.
	Env []string

	Logger log.Logger
}

// NewShellRunner returns a ShellRunner for the current host.
func NewShellRunner(logger log.Logger) *ShellRunner {
	if logger == nil {
		logger = log.Discard()
	}
	return &ShellRunner{
		Host:   platform.CurrentHost(),
		Logger: logger,
	}
}

// Argv returns the argument vector that executes command on the runner's host.
func (r *ShellRunner) Argv(command string) []string {
	return append(r.Host.Shell(), command)
}

// Run executes command through the host shell, streaming its output to the
// configured writers while also capturing it.
func (r *ShellRunner) Run(ctx context.Context, command, dir string) (*Output, error) {
	argv := r.Argv(command)
	logger := r.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger.WithFields(log.Fields{"dir": dir, "argv": argv}).Debug("running command")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			logger.WithField("status", output.ExitCode).Debug("command failed")
			return output, &ProcessError{Command: command, ExitCode: output.ExitCode, Err: err}
		}
		output.ExitCode = -1
		return output, &ProcessError{Command: command, ExitCode: -1, Err: err}
	}

	return output, nil
}
