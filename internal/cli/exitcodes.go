package cli

import (
	"errors"

	"github.com/yaklabco/gomdrender/internal/configloader"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/runner"
)

// Exit codes for gomdrender.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFindings indicates documents produced error findings, or any
	// findings in strict mode.
	ExitFindings = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrFindingsReported signals that findings decided the exit code. It
	// carries no message worth logging.
	ErrFindingsReported = errors.New("findings reported")

	// ErrInvalidUsage marks errors caused by bad arguments or flags.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a batch run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitIOError
	case strict && result.HasWarnings():
		return ExitFindings
	default:
		return ExitSuccess
	}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFindingsReported):
		return ExitFindings
	case errors.Is(err, ErrInvalidUsage), errors.Is(err, ErrNoInput):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, ErrSourceChanged),
		errors.Is(err, ErrFilesFailed):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
