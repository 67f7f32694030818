// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/capwire/capwire/internal/config"
	"github.com/capwire/capwire/internal/issue"
	"github.com/capwire/capwire/pkg/capwire"
	"github.com/capwire/capwire/pkg/manifest"
)

type (
	// App is the composition root of the CLI. Commands receive it and read
	// the loaded configuration and logger from it.
	App struct {
		configs config.Provider
		cfg     *config.Config
		logger  *slog.Logger
		verbose bool
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		configs: deps.Config,
		cfg:     config.DefaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// setup loads the configuration and builds the logger. It runs before
// every command.
func (a *App) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := a.configs.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		return a.fail(cmd, err)
	}
	a.cfg = cfg
	a.verbose = flags.verbose || cfg.UI.Verbose
	applyColorMode(cfg.UI.Color)

	level, err := log.ParseLevel(string(cfg.Log.Level))
	if err != nil {
		level = log.WarnLevel
	}
	if a.verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "capwire", Level: level})
	a.logger = slog.New(handler)
	return nil
}

// fail prints err for people, with suggestions when it is actionable, and
// returns an exit error so cobra and fang stay quiet.
func (a *App) fail(cmd *cobra.Command, err error) error {
	var ae *issue.ActionableError
	msg := err.Error()
	if errors.As(err, &ae) {
		msg = ae.Format(a.verbose)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", errorIcon, msg)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}

// loadProgram reads, validates and builds the manifest at path.
func (a *App) loadProgram(path string) (*manifest.Program, error) {
	m, err := manifest.Load(path)
	if err != nil {
		ctx := issue.NewErrorContext().WithOperation("load manifest").WithResource(path).Wrap(err)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ctx.WithIssue(issue.ManifestNotFoundId).WithSuggestion("Check the manifest path")
		case errors.Is(err, manifest.ErrUnsupportedFormat):
			ctx.WithIssue(issue.ManifestParseErrorId).WithSuggestion("Use a .cue, .yaml, .yml or .toml file")
		default:
			ctx.WithIssue(issue.ManifestParseErrorId).WithSuggestion("Fix the value at the reported path")
		}
		return nil, ctx.BuildError()
	}
	a.logger.Debug("manifest loaded", "path", path)

	prog, err := m.Build(capwire.WithLogger(a.logger))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build manifest").
			WithResource(path).
			WithIssue(issue.ManifestBuildErrorId).
			Wrap(err).
			BuildError()
	}
	return prog, nil
}

// checkProgram resolves one context, or all of them when id is empty.
func (a *App) checkProgram(prog *manifest.Program, id string, opts ...capwire.ResolveOption) ([]manifest.Result, error) {
	if id == "" {
		return prog.Check(opts...)
	}
	res, err := prog.CheckContext(capwire.ContextID(id), opts...)
	if err != nil {
		if errors.Is(err, manifest.ErrUnknownContext) {
			return nil, issue.NewErrorContext().
				WithOperation("check context").
				WithResource(id).
				WithIssue(issue.ContextNotFoundId).
				WithSuggestion("Omit --context to check every context").
				Wrap(err).
				BuildError()
		}
		return nil, err
	}
	return []manifest.Result{res}, nil
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
