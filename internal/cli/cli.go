// Package cli implements the tsdl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/AndreyAkinshin/tsdl/internal/config"
	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/output"
	"github.com/AndreyAkinshin/tsdl/internal/profile"
	"github.com/AndreyAkinshin/tsdl/internal/progress"
	"github.com/AndreyAkinshin/tsdl/internal/shell"
)

// Version is set at build time.
var Version = "dev"

// CLI is the kong command tree.
type CLI struct {
	ConfigFile string `name:"config" short:"c" default:"${configFile}" type:"path" help:"Configuration file, TOML or YAML by extension."`
	Log        string `short:"l" type:"path" placeholder:"PATH" help:"Log file. Defaults to <build-dir>/log."`
	LogLevel   string `default:"info" enum:"debug,info,warn,error" help:"Minimum level written to the log file."`
	LogColor   string `default:"auto" enum:"auto,no,yes" help:"Colorize terminal messages."`
	Verbose    int    `short:"v" type:"counter" help:"Log debug messages and print plain progress."`
	Progress   string `default:"auto" enum:"auto,fancy,plain" help:"Progress display."`
	Quiet      bool   `short:"q" help:"Print only warnings, errors and failures."`
	Profile    string `hidden:"" default:"" enum:",${profileModes}" help:"Write a runtime profile."`
	ProfileDir string `hidden:"" default:"." type:"path" help:"Directory of --profile output."`

	Version kong.VersionFlag `help:"Print the version and exit."`

	Build  BuildCmd  `cmd:"" aliases:"b" help:"Download and build parsers."`
	Config ConfigCmd `cmd:"" aliases:"c" help:"Print the configuration."`
}

// env holds the collaborators of a run.
type env struct {
	stdout io.Writer
	stderr io.Writer
	exec   shell.Executor
	http   *http.Client // nil means the provisioner's default
}

// app is bound into every command's Run method.
type app struct {
	ctx      context.Context
	cli      *CLI
	env      env
	out      *output.Writer
	explicit map[string]bool

	// Set by commands that resolve the configuration.
	declared []string
	warnings []string
	// Set once the build has opened its log file.
	logPath string
}

// exitCode is panicked by kong's exit hook and recovered in run.
type exitCode int

// Run executes the CLI with the given arguments and returns an exit code.
func Run(ctx context.Context, args []string) int {
	return run(ctx, args, env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		exec:   shell.NewLocal(),
	})
}

func run(ctx context.Context, args []string, e env) (code int) {
	var c CLI
	parser, err := newParser(&c, e)
	if err != nil {
		fmt.Fprintf(e.stderr, "tsdl: %v\n", err)
		return tsdlerrors.ExitRuntimeError
	}

	defer func() {
		if r := recover(); r != nil {
			ec, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(ec)
		}
	}()

	ktx, err := parser.Parse(args)
	if err != nil {
		output.NewWithWriters(e.stdout, e.stderr, false).ErrorPrefix("%v", err)
		return tsdlerrors.ExitConfigError
	}
	out := output.NewWithWriters(e.stdout, e.stderr, output.ColorFor(c.LogColor, e.stderr))
	out.SetQuiet(c.Quiet)

	stop, err := profile.Start(c.Profile, c.ProfileDir)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return tsdlerrors.ExitConfigError
	}
	defer stop.Stop()

	a := &app{
		ctx:      ctx,
		cli:      &c,
		env:      e,
		out:      out,
		explicit: explicitFlags(ktx),
	}
	if err := ktx.Run(a); err != nil {
		a.report(err)
		return tsdlerrors.GetExitCode(err)
	}
	return tsdlerrors.ExitSuccess
}

func newParser(c *CLI, e env) (*kong.Kong, error) {
	return kong.New(c,
		kong.Name("tsdl"),
		kong.Description("Download and build tree-sitter parsers."),
		kong.Writers(e.stdout, e.stderr),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.Vars{
			"version":      Version,
			"configFile":   config.DefaultConfigFile,
			"profileModes": strings.Join(profile.Modes(), ","),
		},
	)
}

// explicitFlags returns the names of the flags present on the command line.
// Defaults never appear in the parse path, so a flag passed with its default
// value still counts.
func explicitFlags(ktx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, p := range ktx.Path {
		if p.Flag != nil && !p.Resolved {
			set[p.Flag.Name] = true
		}
	}
	return set
}

func (a *app) report(err error) {
	var agg *tsdlerrors.AggregateError
	if errors.As(err, &agg) {
		a.out.Failures(agg, a.declared)
	} else {
		a.out.ErrorPrefix("%v", err)
	}
	if a.logPath != "" {
		a.out.Hint("See %s for details.", a.logPath)
	}
}

// resolve folds the defaults, the configuration file and layer, printing
// file warnings.
func (a *app) resolve(layer *config.Layer) (*config.Config, error) {
	path := a.cli.ConfigFile
	if a.explicit["config"] {
		if _, err := os.Stat(path); err != nil {
			return nil, &tsdlerrors.ConfigError{Path: path, Cause: err}
		}
	}

	cfg, warnings, err := config.Resolve(config.Default(), path, layer)
	for _, w := range warnings {
		a.out.Warning("%s: %s", path, w)
	}
	a.warnings = warnings
	if err != nil {
		return nil, err
	}
	a.declared = cfg.Declared()
	return cfg, nil
}

func (a *app) logLevel() slog.Level {
	if a.cli.Verbose > 0 {
		return slog.LevelDebug
	}
	return logging.ParseLevel(a.cli.LogLevel)
}

func (a *app) newProgress() progress.Progress {
	if a.cli.Quiet {
		return progress.NewPlain(io.Discard)
	}
	style, err := progress.ParseStyle(a.cli.Progress)
	if err != nil {
		style = progress.StyleAuto
	}
	return progress.New(style, a.env.stdout, a.cli.Verbose > 0)
}
