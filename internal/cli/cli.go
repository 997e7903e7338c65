// Package cli provides the checkrun command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	ucli "github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/checkrun/internal/compiler"
	"github.com/AndreyAkinshin/checkrun/internal/config"
	"github.com/AndreyAkinshin/checkrun/internal/errors"
	"github.com/AndreyAkinshin/checkrun/internal/matcher"
	"github.com/AndreyAkinshin/checkrun/internal/output"
	"github.com/AndreyAkinshin/checkrun/internal/report"
	"github.com/AndreyAkinshin/checkrun/internal/runner"
	"github.com/AndreyAkinshin/checkrun/internal/testcase"
)

// Version is set at build time.
var Version = "dev"

func init() {
	// -v is --verbose.
	ucli.VersionFlag = &ucli.BoolFlag{Name: "version", Usage: "print the version"}
}

// Run executes the CLI with the given arguments (program name first) and
// returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, output.New(), os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out *output.Writer, stdout, stderr io.Writer) int {
	code := errors.ExitSuccess
	flags := newFlags()
	app := newApp(flags, stdout, stderr, func(c *ucli.Context) error {
		code = execute(c, out)
		return nil
	})
	if err := app.RunContext(ctx, interspersed(args, flags)); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitFailure
	}
	return code
}

func newApp(flags []ucli.Flag, stdout, stderr io.Writer, action ucli.ActionFunc) *ucli.App {
	return &ucli.App{
		Name:            "checkrun",
		Usage:           "run FileCheck-style tests against a compiler",
		UsageText:       "checkrun [options] [filter] [options]",
		ArgsUsage:       "[filter]",
		Version:         Version,
		Flags:           flags,
		Action:          action,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		ExitErrHandler:  func(*ucli.Context, error) {},
	}
}

// execute performs one run and maps its result to an exit code: 0 when every
// test passed or was skipped, 1 otherwise. Setup errors abort before any test
// runs.
func execute(c *ucli.Context, out *output.Writer) int {
	if c.Bool(flagQuiet) && c.Bool(flagVerbose) {
		err := errors.Config("--quiet and --verbose cannot be used together")
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	out.SetQuiet(c.Bool(flagQuiet))
	out.SetVerbose(c.Bool(flagVerbose))

	if c.NArg() > 1 {
		err := errors.Configf("expected at most one filter, got %d arguments", c.NArg())
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	out.Debug("Compiler: %s", cfg.Compiler)
	out.Debug("FileCheck: %s", cfg.FileCheck)

	if err := runner.CheckTools(cfg.Compiler, cfg.FileCheck); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	tests := &testcase.Runner{
		Compiler: &compiler.Compiler{
			Path:    cfg.Compiler,
			Timeout: cfg.CompilerTimeoutDuration(),
			TempDir: cfg.TempDir,
		},
		Matcher: &matcher.Matcher{
			Path:    cfg.FileCheck,
			Timeout: cfg.FileCheckTimeoutDuration(),
			Args:    cfg.FileCheckArgs,
		},
		Markers: cfg.Markers,
	}

	summary, err := runner.New(tests, out).Run(c.Context, runner.RunOptions{
		Root:   cfg.TestDir,
		Suffix: cfg.Suffix,
		Filter: c.Args().First(),
	})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if path := c.String(flagReport); path != "" {
		if err := report.WriteJSON(path, summary); err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitFailure
		}
		out.Info("Report written to %s", path)
	}

	if !summary.OK() {
		return errors.ExitFailure
	}
	return errors.ExitSuccess
}

// loadConfig reads the config file and layers flags and environment
// variables on top. An explicitly named config file must exist.
func loadConfig(c *ucli.Context) (*config.Config, error) {
	path := c.String(flagConfig)
	cfg, err := config.LoadWithDefaults(path, c.IsSet(flagConfig))
	if err != nil {
		return nil, errors.ConfigFile(path, err)
	}

	if c.IsSet(flagCompiler) {
		cfg.Compiler = c.String(flagCompiler)
	}
	if c.IsSet(flagFileCheck) {
		cfg.FileCheck = c.String(flagFileCheck)
	}
	if c.IsSet(flagTestDir) {
		cfg.TestDir = c.String(flagTestDir)
	}
	if c.IsSet(flagCompilerTimeout) {
		cfg.CompilerTimeout = c.Duration(flagCompilerTimeout).String()
	}
	if c.IsSet(flagFileCheckTimeout) {
		cfg.FileCheckTimeout = c.Duration(flagFileCheckTimeout).String()
	}

	if err := config.Validate(cfg); err != nil {
		return nil, &errors.HarnessError{Kind: errors.KindConfig, Message: "invalid option", Cause: err}
	}
	return cfg, nil
}
