// Package process runs external executables with captured output and a hard
// timeout.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes after the process is
// killed. A grandchild that inherited stdout would otherwise keep Wait
// blocked past the timeout.
const waitDelay = 2 * time.Second

// Command describes one external process invocation.
type Command struct {
	Path    string
	Args    []string
	Stdin   string        // Fed to the process; empty means no input
	Timeout time.Duration // Zero means no timeout beyond ctx
	Dir     string
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	parts := append([]string{c.Path}, c.Args...)
	return strings.Join(parts, " ")
}

// Result is the outcome of a process that was started.
// Either TimedOut is set or ExitCode holds the real exit status.
type Result struct {
	ExitCode int // -1 when TimedOut
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// Success reports whether the process exited with status zero before the
// timeout.
func (r *Result) Success() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Run starts cmd and waits for it to exit or for its timeout to elapse, in
// which case the process is killed and Result.TimedOut is set. A non-zero exit
// is reported through Result, not as an error. The returned error is non-nil
// only when the process could not be started or waited on.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		res.ExitCode = c.ProcessState.ExitCode()
		return res, nil
	}

	return nil, fmt.Errorf("run %s: %w", cmd, err)
}
