// Package checkrun provides public constants for scripts and CI jobs that
// drive the checkrun CLI.
package checkrun

// Exit codes returned by the checkrun CLI.
const (
	// ExitSuccess indicates every considered test passed (skipped tests count
	// as passed) or that no test files were found.
	ExitSuccess = 0

	// ExitFailure indicates at least one test failed or timed out, or that the
	// run could not start (missing compiler or FileCheck, bad test directory,
	// invalid configuration).
	ExitFailure = 1
)
