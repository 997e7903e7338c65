package compiler

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/AndreyAkinshin/checkrun/internal/testing/mocks"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		expected []string
	}{
		{"release", false, []string{"-i", "in.test", "-o", "out.o"}},
		{"debug", true, []string{"-i", "in.test", "-o", "out.o", "-d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs("in.test", "out.o", tt.debug)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("BuildArgs(debug=%v) = %v, want %v", tt.debug, got, tt.expected)
			}
		})
	}
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.test")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("leftover artifact %s", filepath.Join(dir, e.Name()))
	}
}

func TestInvoke_Success(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	c := &Compiler{Path: mocks.Compiler(t, dir), TempDir: tmp}
	input := writeInput(t, dir, "emit hello\n// CHECK: hello\n")

	res, err := c.Invoke(context.Background(), Request{Input: input, Debug: true})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !res.Success() {
		t.Fatalf("Invoke() exit = %d, stderr = %q", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.Stderr != "debug: on\n" {
		t.Errorf("Stderr = %q, want debug marker", res.Stderr)
	}
	assertEmptyDir(t, tmp)
}

func TestInvoke_PassesGeneratedOutputPath(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	tool := mocks.NewTool("compiler").WithArgsLog().Install(t, dir)
	c := &Compiler{Path: tool, TempDir: tmp}

	if _, err := c.Invoke(context.Background(), Request{Input: "x.test"}); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	calls := mocks.ArgsLog(t, tool)
	if len(calls) != 1 {
		t.Fatalf("compiler ran %d times, want 1", len(calls))
	}
	args := calls[0]
	if len(args) != 4 || args[0] != "-i" || args[1] != "x.test" || args[2] != "-o" {
		t.Fatalf("args = %v, want -i x.test -o <tmp>", args)
	}
	if filepath.Dir(args[3]) != tmp {
		t.Errorf("output %s not created in TempDir %s", args[3], tmp)
	}
	assertEmptyDir(t, tmp)
}

func TestInvoke_Failure(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	c := &Compiler{Path: mocks.Compiler(t, dir), TempDir: tmp}
	input := writeInput(t, dir, "fail syntax error at 1:1\n")

	res, err := c.Invoke(context.Background(), Request{Input: input})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Stderr != "syntax error at 1:1\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	assertEmptyDir(t, tmp)
}

func TestInvoke_TimeoutRemovesArtifact(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	c := &Compiler{Path: mocks.Compiler(t, dir), TempDir: tmp, Timeout: 300 * time.Millisecond}
	input := writeInput(t, dir, "hang\n")

	res, err := c.Invoke(context.Background(), Request{Input: input})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !res.TimedOut {
		t.Fatal("TimedOut = false, want true")
	}
	assertEmptyDir(t, tmp)
}

func TestInvoke_StartErrorRemovesArtifact(t *testing.T) {
	tmp := t.TempDir()
	c := &Compiler{Path: filepath.Join(t.TempDir(), "missing-compiler"), TempDir: tmp}

	if _, err := c.Invoke(context.Background(), Request{Input: "a.test"}); err == nil {
		t.Fatal("Invoke() error = nil, want start error")
	}
	assertEmptyDir(t, tmp)
}

func TestInvoke_KeepsCallerOutput(t *testing.T) {
	dir := t.TempDir()
	c := &Compiler{Path: mocks.Compiler(t, dir), TempDir: t.TempDir()}
	input := writeInput(t, dir, "emit x\n")
	output := filepath.Join(dir, "kept.o")

	if _, err := c.Invoke(context.Background(), Request{Input: input, Output: output}); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("caller-supplied output was removed: %v", err)
	}
}

func TestInvoke_BadTempDir(t *testing.T) {
	c := &Compiler{Path: "unused", TempDir: filepath.Join(t.TempDir(), "missing")}
	if _, err := c.Invoke(context.Background(), Request{Input: "a.test"}); err == nil {
		t.Fatal("Invoke() error = nil, want temp file error")
	}
}
