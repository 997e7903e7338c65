package cli

import (
	"strings"

	ucli "github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/checkrun/internal/compiler"
	"github.com/AndreyAkinshin/checkrun/internal/config"
	"github.com/AndreyAkinshin/checkrun/internal/matcher"
)

// EnvVarPrefix prefixes every environment variable read by checkrun.
const EnvVarPrefix = "CHECKRUN"

// Flag names.
const (
	flagCompiler         = "compiler"
	flagFileCheck        = "filecheck"
	flagTestDir          = "test-dir"
	flagConfig           = "config"
	flagReport           = "report"
	flagCompilerTimeout  = "compiler-timeout"
	flagFileCheckTimeout = "filecheck-timeout"
	flagVerbose          = "verbose"
	flagQuiet            = "quiet"
)

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

// newFlags returns a fresh flag set. urfave/cli stores parsed and
// environment values in the flag structs, so each App gets its own.
//
// Flags take precedence over environment variables, which take precedence
// over the config file. Value-less flags fall through to the config layer.
func newFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:        flagCompiler,
			EnvVars:     prefixEnvVar("COMPILER"),
			Usage:       "Path to the compiler under test",
			DefaultText: config.DefaultCompiler,
		},
		&ucli.StringFlag{
			Name:        flagFileCheck,
			EnvVars:     prefixEnvVar("FILECHECK"),
			Usage:       "Path to the FileCheck executable",
			DefaultText: config.DefaultFileCheck,
		},
		&ucli.StringFlag{
			Name:        flagTestDir,
			EnvVars:     prefixEnvVar("TEST_DIR"),
			Usage:       "Directory searched recursively for test files",
			DefaultText: config.DefaultTestDir,
		},
		&ucli.StringFlag{
			Name:  flagConfig,
			Value: config.DefaultFile,
			Usage: "Path to the YAML config file (optional unless given explicitly)",
		},
		&ucli.StringFlag{
			Name:  flagReport,
			Usage: "Write a JSON report of the run to this path",
		},
		&ucli.DurationFlag{
			Name:        flagCompilerTimeout,
			Usage:       "Time limit for one compiler invocation",
			DefaultText: compiler.DefaultTimeout.String(),
		},
		&ucli.DurationFlag{
			Name:        flagFileCheckTimeout,
			Usage:       "Time limit for one FileCheck invocation",
			DefaultText: matcher.DefaultTimeout.String(),
		},
		&ucli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"v"},
			Usage:   "Announce each test and print a failure table",
		},
		&ucli.BoolFlag{
			Name:    flagQuiet,
			Aliases: []string{"q"},
			Usage:   "Print only failures and the summary",
		},
	}
}

// interspersed moves positional arguments behind the flags, so
// "checkrun arith --verbose" parses like "checkrun --verbose arith".
// Everything after "--" stays positional.
func interspersed(args []string, flags []ucli.Flag) []string {
	if len(args) == 0 {
		return args
	}

	takesValue := make(map[string]bool)
	for _, f := range flags {
		if _, ok := f.(*ucli.BoolFlag); ok {
			continue
		}
		for _, name := range f.Names() {
			takesValue[name] = true
		}
	}

	opts := []string{args[0]}
	var positional []string
	rest := args[1:]
scan:
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			positional = append(positional, rest[i+1:]...)
			break scan
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			opts = append(opts, arg)
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
				i++
				opts = append(opts, rest[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return opts
	}
	opts = append(opts, "--")
	return append(opts, positional...)
}
