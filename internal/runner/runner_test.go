package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/checkrun/internal/compiler"
	"github.com/AndreyAkinshin/checkrun/internal/errors"
	"github.com/AndreyAkinshin/checkrun/internal/matcher"
	"github.com/AndreyAkinshin/checkrun/internal/output"
	"github.com/AndreyAkinshin/checkrun/internal/testcase"
	"github.com/AndreyAkinshin/checkrun/internal/testing/mocks"
)

type harness struct {
	root   string
	tmp    string
	cc     string
	fc     string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *Runner
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	tools := t.TempDir()
	h := &harness{
		root:   t.TempDir(),
		tmp:    t.TempDir(),
		cc:     mocks.Compiler(t, tools),
		fc:     mocks.FileCheck(t, tools),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	for name, content := range files {
		path := filepath.Join(h.root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	tests := &testcase.Runner{
		Compiler: &compiler.Compiler{Path: h.cc, TempDir: h.tmp, Timeout: 5 * time.Second},
		Matcher:  &matcher.Matcher{Path: h.fc, Timeout: 5 * time.Second},
	}
	h.runner = New(tests, output.NewWithWriters(h.stdout, h.stderr, false))
	return h
}

func (h *harness) run(t *testing.T, filter string) *Summary {
	t.Helper()
	s, err := h.runner.Run(context.Background(), RunOptions{Root: h.root, Filter: filter})
	require.NoError(t, err)
	return s
}

var scenario = map[string]string{
	"a.test": "emit hello\n",
	"b.test": "emit hello\n// CHECK: hello\n",
	"c.test": "emit hello\n// CHECK: goodbye\n",
}

func TestRun_SkipPassFail(t *testing.T) {
	h := newHarness(t, scenario)

	s := h.run(t, "")

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.False(t, s.OK())
	require.Len(t, s.Outcomes, 3)
	assert.Equal(t, testcase.StatusSkip, s.Outcomes[0].Status())
	assert.Equal(t, testcase.StatusPass, s.Outcomes[1].Status())
	assert.Equal(t, testcase.StatusFail, s.Outcomes[2].Status())

	out := h.stdout.String()
	assert.Contains(t, out, "SKIP: ")
	assert.Contains(t, out, "a.test - No CHECK patterns found")
	assert.Contains(t, out, "PASS: ")
	assert.Contains(t, out, "c.test - FileCheck failed")
	assert.Contains(t, out, "FileCheck stderr: ")
	assert.True(t, strings.HasSuffix(out, "\nResults: 2/3 tests passed\n"), "output:\n%s", out)
	assert.NotEmpty(t, s.RunID)
}

func TestRun_OneStatusLinePerTest(t *testing.T) {
	h := newHarness(t, scenario)

	h.run(t, "")

	var statusLines int
	for _, line := range strings.Split(h.stdout.String(), "\n") {
		for _, label := range []string{"PASS:", "FAIL:", "TIMEOUT:", "SKIP:"} {
			if strings.HasPrefix(strings.TrimSpace(line), label) {
				statusLines++
			}
		}
	}
	assert.Equal(t, 3, statusLines)
}

func TestRun_DiscoveryOrder(t *testing.T) {
	h := newHarness(t, map[string]string{
		"z.test":     "// CHECK: debug",
		"a/b.test":   "// CHECK: debug",
		"a.test":     "// CHECK: debug",
		"m/n/o.test": "// CHECK: debug",
	})

	s := h.run(t, "")

	var got []string
	for _, o := range s.Outcomes {
		got = append(got, filepath.ToSlash(strings.TrimPrefix(o.Path, h.root)))
	}
	assert.Equal(t, []string{"/a.test", "/a/b.test", "/m/n/o.test", "/z.test"}, got)
	assert.True(t, s.OK())
}

func TestRun_FilterIsSubsetOfFullRun(t *testing.T) {
	h := newHarness(t, map[string]string{
		"arith/add.test": "emit 3\n// CHECK: 3\n",
		"arith/sub.test": "emit 1\n// CHECK: 2\n",
		"ctrl/if.test":   "emit yes\n// CHECK: yes\n",
		"ctrl/loop.test": "plain\n",
	})

	full := h.run(t, "")
	byPath := make(map[string]testcase.Outcome)
	for _, o := range full.Outcomes {
		byPath[o.Path] = o
	}

	for _, filter := range []string{"arith", "ctrl", "if", ".test", "nothing"} {
		t.Run(filter, func(t *testing.T) {
			filtered := h.run(t, filter)
			var want int
			for p := range byPath {
				if strings.Contains(p, filter) {
					want++
				}
			}
			assert.Equal(t, want, filtered.Total)
			for _, o := range filtered.Outcomes {
				assert.Contains(t, o.Path, filter)
				assert.Equal(t, byPath[o.Path].State, o.State, o.Path)
			}
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	h := newHarness(t, scenario)

	first := h.run(t, "")
	second := h.run(t, "")

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Passed, second.Passed)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_NoTests(t *testing.T) {
	h := newHarness(t, map[string]string{"readme.md": "docs"})

	s := h.run(t, "")

	assert.Equal(t, 0, s.Total)
	assert.True(t, s.OK())
	assert.Positive(t, s.Duration)
	assert.Equal(t, "No test files found\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRun_FilterMatchesNothing(t *testing.T) {
	h := newHarness(t, scenario)

	s := h.run(t, "zzz")

	assert.True(t, s.OK())
	assert.Positive(t, s.Duration)
	assert.Equal(t, "No test files found\n", h.stdout.String())
	assert.Equal(t, "warning: filter \"zzz\" matched none of 3 test files\n", h.stderr.String())
}

func TestRun_MissingRoot(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.runner.Run(context.Background(), RunOptions{Root: filepath.Join(h.root, "missing")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindDiscovery))
	assert.Empty(t, h.stdout.String())
}

func TestRun_TimeoutDoesNotStopRun(t *testing.T) {
	h := newHarness(t, map[string]string{
		"1-slow.test": "hang\n// CHECK: x\n",
		"2-ok.test":   "emit x\n// CHECK: x\n",
	})
	h.runner.tests.Compiler.Timeout = 300 * time.Millisecond

	s := h.run(t, "")

	require.Len(t, s.Outcomes, 2)
	assert.Equal(t, testcase.CompilerTimeout, s.Outcomes[0].State)
	assert.Equal(t, testcase.Passed, s.Outcomes[1].State)
	assert.Contains(t, h.stdout.String(), "TIMEOUT: ")

	entries, err := os.ReadDir(h.tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary artifacts left behind")
}

func TestRun_VerboseFailureTable(t *testing.T) {
	h := newHarness(t, scenario)
	w := output.NewWithWriters(h.stdout, &bytes.Buffer{}, false)
	w.SetVerbose(true)
	h.runner.out = w

	h.run(t, "")

	out := h.stdout.String()
	assert.Contains(t, out, "Running test: ")
	assert.Contains(t, out, "Verifier Failed")
}

func TestRun_Canceled(t *testing.T) {
	h := newHarness(t, scenario)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.runner.Run(ctx, RunOptions{Root: h.root})

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.Is(err, errors.KindRuntime))
	assert.Contains(t, err.Error(), "run interrupted")
}

func TestCheckTools(t *testing.T) {
	h := newHarness(t, nil)
	missing := filepath.Join(h.root, "nope")

	assert.NoError(t, CheckTools(h.cc, h.fc))

	err := CheckTools(missing, h.fc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindConfig))
	assert.Contains(t, err.Error(), "Compiler not found at: "+missing)

	err = CheckTools(h.cc, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FileCheck not found at: "+missing)
}
