// Package errors provides structured error types and exit codes for checkrun.
//
// Only run-level problems are errors. A failing, timed out, or skipped test is
// a testcase.Outcome, never an error.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the checkrun CLI.
const (
	ExitSuccess = 0 // Every considered test passed, or no tests were found
	ExitFailure = 1 // A test failed, or the run could not start
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime   ErrorKind = iota
	KindConfig              // Missing executable, invalid config file or flag
	KindDiscovery           // Test root missing or unreadable
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDiscovery:
		return "discovery"
	default:
		return "runtime"
	}
}

// HarnessError is the base error type for checkrun.
type HarnessError struct {
	Kind    ErrorKind
	Message string
	Path    string // Offending file or directory, if any
	Cause   error  // Underlying error
}

func (e *HarnessError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error. Every run-level
// failure exits with ExitFailure; the kind only changes the message.
func (e *HarnessError) ExitCode() int {
	return ExitFailure
}

// Config creates a new configuration error.
func Config(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *HarnessError {
	return Config(fmt.Sprintf(format, args...))
}

// ConfigFile creates an error for a config file that cannot be read or is
// invalid.
func ConfigFile(path string, cause error) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: "cannot load config",
		Path:    path,
		Cause:   cause,
	}
}

// MissingTool reports an executable that does not exist at the configured path.
func MissingTool(tool, path string) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: fmt.Sprintf("%s not found at", tool),
		Path:    path,
	}
}

// Discovery creates an error for an unusable test root.
func Discovery(path string, cause error) *HarnessError {
	return &HarnessError{
		Kind:    KindDiscovery,
		Message: "cannot discover tests in",
		Path:    path,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether err is a HarnessError of the given kind.
func Is(err error, kind ErrorKind) bool {
	var he *HarnessError
	if !stderrors.As(err, &he) {
		return false
	}
	return he.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var he *HarnessError
	if stderrors.As(err, &he) {
		return he.ExitCode()
	}
	return ExitFailure
}
