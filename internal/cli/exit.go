package cli

import (
	"errors"

	"github.com/gameanalytics/gabuild/internal/pipeline"
)

// ExitUsage is the exit status for invalid command-line usage.
const ExitUsage = 2

// ExitCode maps an error returned by Execute to a process exit status.
// Stage failures propagate the exit status of the failing tool.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usage *pipeline.UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	var stage *pipeline.StageError
	if errors.As(err, &stage) {
		return stage.ExitCode()
	}
	return 1
}

// IsUsageError reports whether err is a usage error.
func IsUsageError(err error) bool {
	var usage *pipeline.UsageError
	return errors.As(err, &usage)
}
