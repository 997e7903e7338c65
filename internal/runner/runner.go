// Package runner drives a whole test run: discovery, filtering, sequential
// execution of every test file, and the final tally.
package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/checkrun/internal/discover"
	"github.com/AndreyAkinshin/checkrun/internal/errors"
	"github.com/AndreyAkinshin/checkrun/internal/output"
	"github.com/AndreyAkinshin/checkrun/internal/testcase"
)

// Runner runs every discovered test with one testcase.Runner.
type Runner struct {
	tests *testcase.Runner
	out   *output.Writer
}

// RunOptions configures which tests are run.
type RunOptions struct {
	Root   string // Test root directory
	Suffix string // Test file suffix; discover.DefaultSuffix when empty
	Filter string // Keep only paths containing this substring
}

// New creates a new Runner.
func New(tests *testcase.Runner, out *output.Writer) *Runner {
	return &Runner{tests: tests, out: out}
}

// CheckTools verifies that the compiler and FileCheck exist before any test
// runs. A missing tool is fatal to the whole run.
func CheckTools(compilerPath, fileCheckPath string) error {
	if _, err := os.Stat(compilerPath); err != nil {
		return errors.MissingTool("Compiler", compilerPath)
	}
	if _, err := os.Stat(fileCheckPath); err != nil {
		return errors.MissingTool("FileCheck", fileCheckPath)
	}
	return nil
}

// Run discovers tests under opts.Root, applies the filter and runs the
// remaining files strictly one after another in discovery order. Test
// failures are recorded in the Summary; the error is non-nil only when the
// run could not proceed (bad test root, canceled context).
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.New().String(),
		Filter:    opts.Filter,
		StartedAt: time.Now(),
	}

	files, err := discover.Files(opts.Root, opts.Suffix)
	if err != nil {
		return nil, errors.Discovery(opts.Root, err)
	}
	selected := discover.Filter(files, opts.Filter)
	if len(selected) == 0 && len(files) > 0 {
		r.out.Warning("filter %q matched none of %d test files", opts.Filter, len(files))
	}

	if len(selected) == 0 {
		summary.Duration = time.Since(summary.StartedAt)
		r.out.Println("No test files found")
		return summary, nil
	}

	for _, path := range selected {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(summary.StartedAt)
			return summary, errors.Wrap(err, "run interrupted")
		}

		name := displayName(path)
		r.out.TestStart(name)
		outcome := r.tests.Run(ctx, name, path)
		summary.Add(outcome)
		r.report(outcome)
	}

	summary.Duration = time.Since(summary.StartedAt)
	r.out.Summary(summary.Passed, summary.Total)
	if r.out.Verbose() {
		r.failureTable(summary)
	}
	return summary, nil
}

// report prints the status line and, for failures, the diagnostic.
func (r *Runner) report(o testcase.Outcome) {
	r.out.TestResult(string(o.Status()), o.Report())
	if !o.Passed() && o.Diagnostic != "" {
		r.out.TestDiagnostic(o.DiagnosticLabel(), o.Diagnostic)
	}
}

func (r *Runner) failureTable(s *Summary) {
	failed := s.Failed()
	if len(failed) == 0 {
		return
	}

	title := cases.Title(language.English)
	rows := make([][]string, 0, len(failed))
	for _, o := range failed {
		state := title.String(strings.ReplaceAll(o.State.String(), "_", " "))
		rows = append(rows, []string{o.Name, string(o.Status()), state, o.Duration.Round(time.Millisecond).String()})
	}
	r.out.Println("")
	r.out.Table([]string{"Test", "Status", "State", "Duration"}, rows)
}

// displayName returns path relative to the working directory when possible,
// so report lines stay short and stable across machines.
func displayName(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return path
	}
	return rel
}
