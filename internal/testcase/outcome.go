package testcase

import (
	"fmt"
	"time"
)

// State is the terminal state of one test file.
type State int

const (
	Passed State = iota
	Skipped
	CompilerFailed
	CompilerTimeout
	VerifierFailed
	Unreadable
)

var stateNames = map[State]string{
	Passed:          "passed",
	Skipped:         "skipped",
	CompilerFailed:  "compiler_failed",
	CompilerTimeout: "compiler_timeout",
	VerifierFailed:  "verifier_failed",
	Unreadable:      "unreadable",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is the user-facing label printed for a test.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusTimeout Status = "TIMEOUT"
	StatusSkip    Status = "SKIP"
)

// Status maps the state to its report label.
func (s State) Status() Status {
	switch s {
	case Passed:
		return StatusPass
	case Skipped:
		return StatusSkip
	case CompilerTimeout:
		return StatusTimeout
	default:
		return StatusFail
	}
}

// Reasons attached to non-passing outcomes.
const (
	ReasonNoDirectives   = "No CHECK patterns found"
	ReasonCompilerError  = "Compiler error"
	ReasonFileCheckError = "FileCheck failed"
	ReasonReadError      = "cannot read test file"
)

// Outcome is the classified result of one test file.
type Outcome struct {
	Name       string // Display name
	Path       string
	State      State
	Reason     string // Short explanation for non-passing states
	Diagnostic string // Captured stderr of the failing tool, if any
	Duration   time.Duration
}

// Passed reports whether the outcome counts toward the passed tally.
// Skipped files count as passed: a file without directives is not a check
// test and therefore cannot fail.
func (o Outcome) Passed() bool {
	return o.State == Passed || o.State == Skipped
}

// Status returns the report label for the outcome.
func (o Outcome) Status() Status {
	return o.State.Status()
}

// Report returns the single status line for the outcome, e.g.
// "FAIL: tests/c.test - FileCheck failed".
func (o Outcome) Report() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s: %s", o.Status(), o.Name)
	}
	return fmt.Sprintf("%s: %s - %s", o.Status(), o.Name, o.Reason)
}

// DiagnosticLabel names the tool whose stderr is in Diagnostic.
func (o Outcome) DiagnosticLabel() string {
	switch o.State {
	case VerifierFailed:
		return "FileCheck stderr"
	case Unreadable:
		return "error"
	default:
		return "stderr"
	}
}
