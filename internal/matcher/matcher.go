// Package matcher invokes FileCheck, or any tool honoring its contract,
// to verify captured compiler output.
//
// The contract is `<matcher> <check-file>` with the text to verify on stdin;
// exit status zero means every directive in the check file was satisfied.
package matcher

import (
	"context"
	"time"

	"github.com/AndreyAkinshin/checkrun/internal/process"
)

// DefaultTimeout bounds a single FileCheck run.
const DefaultTimeout = 10 * time.Second

// TimeoutMessage is the diagnostic reported when FileCheck times out.
const TimeoutMessage = "FileCheck timeout"

// Matcher runs one FileCheck executable.
type Matcher struct {
	Path    string
	Timeout time.Duration // DefaultTimeout when zero
	Args    []string      // Extra flags placed before the check file
}

// Verdict is the result of one verification.
type Verdict struct {
	OK     bool
	Stdout string
	Stderr string
}

// Verify runs the matcher with checkFile as its directive source and input
// on stdin. It never returns an error: start failures and timeouts become a
// failed Verdict carrying a diagnostic.
func (m *Matcher) Verify(ctx context.Context, checkFile, input string) Verdict {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args := make([]string, 0, len(m.Args)+1)
	args = append(args, m.Args...)
	args = append(args, checkFile)

	res, err := process.Run(ctx, process.Command{
		Path:    m.Path,
		Args:    args,
		Stdin:   input,
		Timeout: timeout,
	})
	if err != nil {
		return Verdict{Stderr: err.Error()}
	}
	if res.TimedOut {
		return Verdict{Stdout: res.Stdout, Stderr: TimeoutMessage}
	}

	return Verdict{
		OK:     res.Success(),
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}
}
