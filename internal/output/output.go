// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Writer handles CLI output formatting.
type Writer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(os.Stdout),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode. Quiet output keeps failures and
// the summary line only.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetVerbose enables or disables verbose mode.
func (w *Writer) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// Verbose reports whether verbose mode is on.
func (w *Writer) Verbose() bool {
	return w.verbose
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Debug prints a message in verbose mode only.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	if w.color {
		w.Println(dim+format+reset, args...)
	} else {
		w.Println(format, args...)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// ErrorPrefix prints an error message with checkrun prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%scheckrun:%s %s", red, reset, msg)
	} else {
		w.Errorln("checkrun: %s", msg)
	}
}

// TestStart announces a test before it runs (verbose mode only).
func (w *Writer) TestStart(name string) {
	w.Debug("Running test: %s", name)
}

// TestResult prints the status line of one test. status is the leading
// label of line (PASS, FAIL, TIMEOUT or SKIP) and selects its color.
// Passing and skipped tests are hidden in quiet mode.
func (w *Writer) TestResult(status, line string) {
	failed := status != "PASS" && status != "SKIP"
	if w.quiet && !failed {
		return
	}
	if !w.color {
		w.Println("  %s", line)
		return
	}
	rest := strings.TrimPrefix(line, status)
	w.Println("  %s%s%s%s", statusColor(status), status, reset, rest)
}

// TestDiagnostic prints captured tool output under a failed test, one
// indented block per label.
func (w *Writer) TestDiagnostic(label, text string) {
	text = strings.TrimRight(text, "\n")
	if w.color {
		w.Println("    %s%s:%s %s", dim, label, reset, text)
	} else {
		w.Println("    %s: %s", label, text)
	}
}

// Summary prints the final "Results: P/T tests passed" line.
func (w *Writer) Summary(passed, total int) {
	w.Println("")
	msg := fmt.Sprintf("Results: %d/%d tests passed", passed, total)
	switch {
	case !w.color:
		w.Println("%s", msg)
	case passed == total:
		w.Println("%s%s%s", green, msg, reset)
	default:
		w.Println("%s%s%s", red, msg, reset)
	}
}

// Table prints rows under headers using a light box style.
func (w *Writer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	t.Render()
}

func statusColor(status string) string {
	switch status {
	case "PASS":
		return green
	case "SKIP":
		return dim
	case "TIMEOUT":
		return yellow
	default:
		return red
	}
}

// isTerminal returns true if f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
)
