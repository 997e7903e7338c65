// Package mocks provides fake compiler and FileCheck executables for checkrun
// tests. The fakes are POSIX shell scripts, so callers skip on Windows via
// RequirePOSIX.
package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// CompilerScript is a fake compiler honoring `-i <in> -o <out> [-d]`.
// It writes a placeholder object to <out>, echoes every input line starting
// with "emit " (prefix stripped) to stdout, and prints "debug: on" to stderr
// when -d is given. A line "fail <msg>" makes it exit 1 with <msg> on stderr,
// and "hang" makes it sleep for a minute.
const CompilerScript = `#!/bin/sh
in=""
out=""
debug=0
while [ $# -gt 0 ]; do
  case "$1" in
    -i) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    -d) debug=1; shift ;;
    *) echo "unknown argument: $1" >&2; exit 2 ;;
  esac
done
if [ -z "$in" ] || [ -z "$out" ]; then
  echo "usage: compiler -i <input> -o <output> [-d]" >&2
  exit 2
fi
echo "object" > "$out"
if [ "$debug" = 1 ]; then
  echo "debug: on" >&2
fi
while IFS= read -r line || [ -n "$line" ]; do
  case "$line" in
    "emit "*) printf '%s\n' "${line#emit }" ;;
    "fail "*) printf '%s\n' "${line#fail }" >&2; exit 1 ;;
    hang) exec sleep 60 ;;
  esac
done < "$in"
exit 0
`

// FileCheckScript is a fake FileCheck: for every "// CHECK: <text>" line in
// the check file (its last argument) it requires <text> to appear somewhere
// in stdin. Other CHECK- variants are ignored.
const FileCheckScript = `#!/bin/sh
check_file=""
for arg in "$@"; do check_file="$arg"; done
input=$(cat)
status=0
while IFS= read -r line || [ -n "$line" ]; do
  case "$line" in
    *"// CHECK: "*)
      pattern=${line#*"// CHECK: "}
      if ! printf '%s\n' "$input" | grep -F -q -- "$pattern"; then
        echo "$check_file: error: CHECK: expected string not found in input: $pattern" >&2
        status=1
      fi
      ;;
  esac
done < "$check_file"
exit $status
`

// RequirePOSIX skips t when shell-script fakes cannot run.
func RequirePOSIX(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are POSIX shell scripts")
	}
}

// Tool builds a fake executable with canned behavior.
// Use NewTool() and the With* methods, then Install.
type Tool struct {
	name    string
	stdout  string
	stderr  string
	exit    int
	sleep   time.Duration
	script  string
	logArgs bool
	logIn   bool
}

// NewTool creates a fake tool that exits 0 silently.
func NewTool(name string) *Tool {
	return &Tool{name: name}
}

// WithStdout sets text printed to stdout.
func (m *Tool) WithStdout(s string) *Tool {
	m.stdout = s
	return m
}

// WithStderr sets text printed to stderr.
func (m *Tool) WithStderr(s string) *Tool {
	m.stderr = s
	return m
}

// WithExit sets the exit status.
func (m *Tool) WithExit(code int) *Tool {
	m.exit = code
	return m
}

// WithSleep makes the tool sleep before printing and exiting.
func (m *Tool) WithSleep(d time.Duration) *Tool {
	m.sleep = d
	return m
}

// WithScript replaces the generated body with a complete script.
func (m *Tool) WithScript(script string) *Tool {
	m.script = script
	return m
}

// WithArgsLog records each invocation's arguments, one per line, in
// <name>.args next to the tool.
func (m *Tool) WithArgsLog() *Tool {
	m.logArgs = true
	return m
}

// WithStdinLog saves the tool's stdin to <name>.stdin next to the tool.
func (m *Tool) WithStdinLog() *Tool {
	m.logIn = true
	return m
}

// Install writes the tool into dir and returns its path.
func (m *Tool) Install(t testing.TB, dir string) string {
	t.Helper()
	RequirePOSIX(t)

	path := filepath.Join(dir, m.name)
	body := m.script
	if body == "" {
		body = m.render(path)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("install fake %s: %v", m.name, err)
	}
	return path
}

func (m *Tool) render(path string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if m.logArgs {
		fmt.Fprintf(&b, "for a in \"$@\"; do printf '%%s\\n' \"$a\"; done >> %s\n", shellQuote(path+".args"))
		fmt.Fprintf(&b, "echo -- >> %s\n", shellQuote(path+".args"))
	}
	if m.logIn {
		fmt.Fprintf(&b, "cat > %s\n", shellQuote(path+".stdin"))
	}
	if m.sleep > 0 {
		// exec keeps the sleeping process the one that gets killed.
		if m.stdout == "" && m.stderr == "" && m.exit == 0 {
			fmt.Fprintf(&b, "exec sleep %.3f\n", m.sleep.Seconds())
			return b.String()
		}
		fmt.Fprintf(&b, "sleep %.3f\n", m.sleep.Seconds())
	}
	if m.stdout != "" {
		fmt.Fprintf(&b, "printf '%%s' %s\n", shellQuote(m.stdout))
	}
	if m.stderr != "" {
		fmt.Fprintf(&b, "printf '%%s' %s >&2\n", shellQuote(m.stderr))
	}
	fmt.Fprintf(&b, "exit %d\n", m.exit)
	return b.String()
}

// ArgsLog returns the argument lists recorded by a tool installed with
// WithArgsLog, one slice per invocation.
func ArgsLog(t testing.TB, toolPath string) [][]string {
	t.Helper()
	data, err := os.ReadFile(toolPath + ".args")
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}

	var calls [][]string
	current := []string{}
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "--" {
			calls = append(calls, current)
			current = []string{}
			continue
		}
		current = append(current, line)
	}
	return calls
}

// StdinLog returns what a tool installed with WithStdinLog last read.
func StdinLog(t testing.TB, toolPath string) string {
	t.Helper()
	data, err := os.ReadFile(toolPath + ".stdin")
	if err != nil {
		t.Fatalf("read stdin log: %v", err)
	}
	return string(data)
}

// Compiler installs CompilerScript as "compiler" in dir.
func Compiler(t testing.TB, dir string) string {
	return NewTool("compiler").WithScript(CompilerScript).Install(t, dir)
}

// FileCheck installs FileCheckScript as "FileCheck" in dir.
func FileCheck(t testing.TB, dir string) string {
	return NewTool("FileCheck").WithScript(FileCheckScript).Install(t, dir)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
