package pipeline

import (
	"errors"
	"fmt"

	"github.com/gameanalytics/gabuild/internal/runtime"
)

// UsageError reports an invalid or contradictory flag combination. It is
// always detected before any external process starts.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// StageError reports the stage that aborted the run.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode returns the exit status of the failing process, or 1 when the
// stage failed without one (for example a file copy error).
func (e *StageError) ExitCode() int {
	var procErr *runtime.ProcessError
	if errors.As(e.Err, &procErr) && procErr.ExitCode > 0 {
		return procErr.ExitCode
	}
	return 1
}
