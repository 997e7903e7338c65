// Package compiler invokes the compiler under test.
//
// The compiler is treated as an opaque executable with the command line
//
//	<compiler> -i <input> -o <output> [-d]
//
// where exit status zero means the input compiled.
package compiler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AndreyAkinshin/checkrun/internal/process"
)

// DefaultTimeout bounds a single compiler run.
const DefaultTimeout = 30 * time.Second

// Command-line flags understood by the compiler.
const (
	FlagInput  = "-i"
	FlagOutput = "-o"
	FlagDebug  = "-d"
)

// Compiler runs one compiler executable.
type Compiler struct {
	Path    string
	Timeout time.Duration // DefaultTimeout when zero
	TempDir string        // Where owned artifacts are created; os.TempDir() when empty
}

// Request describes a single compilation.
type Request struct {
	Input  string
	Output string // Created in TempDir and removed afterwards when empty
	Debug  bool
}

// BuildArgs constructs the compiler argument vector.
func BuildArgs(input, output string, debug bool) []string {
	args := []string{FlagInput, input, FlagOutput, output}
	if debug {
		args = append(args, FlagDebug)
	}
	return args
}

// Invoke compiles req.Input. A timeout is reported through
// process.Result.TimedOut; the error is non-nil only when no compiler process
// could be run at all.
//
// When req.Output is empty the compiler writes into a temporary artifact that
// Invoke owns and removes on every return path. A caller-supplied output is
// left in place.
func (c *Compiler) Invoke(ctx context.Context, req Request) (*process.Result, error) {
	output := req.Output
	if output == "" {
		artifact, err := newArtifact(c.TempDir)
		if err != nil {
			return nil, err
		}
		defer artifact.release()
		output = artifact.path
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return process.Run(ctx, process.Command{
		Path:    c.Path,
		Args:    BuildArgs(req.Input, output, req.Debug),
		Timeout: timeout,
	})
}

// artifact is a temporary output file created, and therefore owned, by the
// harness.
type artifact struct {
	path string
}

func newArtifact(dir string) (*artifact, error) {
	f, err := os.CreateTemp(dir, "checkrun-*.o")
	if err != nil {
		return nil, fmt.Errorf("create compiler output: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create compiler output: %w", err)
	}
	return &artifact{path: path}, nil
}

// release removes the artifact. Failures are ignored so cleanup can never
// change a test verdict.
func (a *artifact) release() {
	_ = os.Remove(a.path)
}
