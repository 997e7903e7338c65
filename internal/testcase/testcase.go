// Package testcase runs a single FileCheck-style test file.
//
// A test file is handed to the compiler unchanged; the compiler ignores
// comment lines. FileCheck then reads the same file for its directives and
// verifies the compiler's combined stdout and stderr against them.
package testcase

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/AndreyAkinshin/checkrun/internal/compiler"
	"github.com/AndreyAkinshin/checkrun/internal/matcher"
)

// DefaultMarkers are the substrings that identify FileCheck directives.
var DefaultMarkers = []string{"// CHECK:", "// CHECK-"}

// HasDirectives reports whether content contains any directive marker.
// Files without one are skipped, not failed.
func HasDirectives(content string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(content, m) {
			return true
		}
	}
	return false
}

// Runner drives the compiler and FileCheck for one test file at a time.
type Runner struct {
	Compiler *compiler.Compiler
	Matcher  *matcher.Matcher
	Markers  []string // DefaultMarkers when empty
}

// Run classifies the test at path. name is the label used in reports.
// Failures of either tool are folded into the returned Outcome, so a broken
// test never stops the caller from running the next one.
func (r *Runner) Run(ctx context.Context, name, path string) Outcome {
	start := time.Now()
	out := r.classify(ctx, path)
	out.Name = name
	out.Path = path
	out.Duration = time.Since(start)
	return out
}

func (r *Runner) classify(ctx context.Context, path string) Outcome {
	content, err := os.ReadFile(path)
	if err != nil {
		return Outcome{State: Unreadable, Reason: ReasonReadError, Diagnostic: err.Error()}
	}

	markers := r.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	if !HasDirectives(string(content), markers) {
		return Outcome{State: Skipped, Reason: ReasonNoDirectives}
	}

	res, err := r.Compiler.Invoke(ctx, compiler.Request{Input: path, Debug: true})
	if err != nil {
		return Outcome{State: CompilerFailed, Reason: ReasonCompilerError, Diagnostic: err.Error()}
	}
	if res.TimedOut {
		return Outcome{State: CompilerTimeout}
	}
	if res.ExitCode != 0 {
		return Outcome{State: CompilerFailed, Reason: ReasonCompilerError, Diagnostic: res.Stderr}
	}

	verdict := r.Matcher.Verify(ctx, path, res.Combined())
	if !verdict.OK {
		return Outcome{State: VerifierFailed, Reason: ReasonFileCheckError, Diagnostic: verdict.Stderr}
	}

	return Outcome{State: Passed}
}
