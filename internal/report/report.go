// Package report writes a machine-readable JSON record of one run for CI
// systems to consume.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/AndreyAkinshin/checkrun/internal/runner"
	"github.com/AndreyAkinshin/checkrun/internal/schema"
)

// Report is the JSON document written by WriteJSON.
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  string         `json:"started_at,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Filter     string         `json:"filter,omitempty"`
	Total      int            `json:"total"`
	Passed     int            `json:"passed"`
	OK         bool           `json:"ok"`
	Counts     map[string]int `json:"counts,omitempty"` // Outcomes per status label
	Tests      []Test         `json:"tests"`
}

// Test is one test entry of a Report.
type Test struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	State      string `json:"state"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// FromSummary converts a run summary. Diagnostics lose ANSI escapes, which
// compilers emit when they believe they write to a terminal.
func FromSummary(s *runner.Summary) *Report {
	r := &Report{
		RunID:      s.RunID,
		DurationMS: s.Duration.Milliseconds(),
		Filter:     s.Filter,
		Total:      s.Total,
		Passed:     s.Passed,
		OK:         s.OK(),
		Tests:      make([]Test, 0, len(s.Outcomes)),
	}
	for status, n := range s.Counts() {
		if r.Counts == nil {
			r.Counts = make(map[string]int)
		}
		r.Counts[string(status)] = n
	}
	if !s.StartedAt.IsZero() {
		r.StartedAt = s.StartedAt.UTC().Format(time.RFC3339)
	}

	for _, o := range s.Outcomes {
		r.Tests = append(r.Tests, Test{
			Name:       o.Name,
			Path:       o.Path,
			State:      o.State.String(),
			Status:     string(o.Status()),
			Reason:     o.Reason,
			Diagnostic: stripansi.Strip(o.Diagnostic),
			DurationMS: o.Duration.Milliseconds(),
		})
	}
	return r
}

// Marshal renders the report for s and checks it against the report schema.
func Marshal(s *runner.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(FromSummary(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	if err := schema.ValidateReport(data); err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the report for s to path, creating parent directories.
func WriteJSON(path string, s *runner.Summary) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
