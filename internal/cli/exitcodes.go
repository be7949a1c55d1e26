package cli

import "errors"

// Exit codes for treemark.
const (
	// ExitSuccess indicates successful execution with no findings.
	ExitSuccess = 0

	// ExitInvalidDirectives indicates check found invalid directives.
	ExitInvalidDirectives = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromError maps a command error to the process exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidDirectives):
		return ExitInvalidDirectives
	default:
		return ExitInternalError
	}
}
