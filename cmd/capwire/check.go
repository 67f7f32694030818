// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/capwire/capwire/internal/config"
	"github.com/capwire/capwire/internal/watch"
	"github.com/capwire/capwire/pkg/capwire"
	"github.com/capwire/capwire/pkg/manifest"
)

type checkFlags struct {
	context     string
	format      string
	allowUnused bool
	watch       bool
}

func newCheckCommand(app *App) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Check that every context is capability-complete",
		Long: `Check resolves every context of a manifest and reports, for each one,
either its assembly order or every capability that fails to resolve, with
the requirement chain that led to it.

Manifests may be CUE, YAML or TOML. The exit status is 1 when any context
is incomplete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.OutputFormat(flags.format)
			if !cmd.Flags().Changed("format") {
				format = app.cfg.Check.Format
			}
			if err := format.Validate(); err != nil {
				return app.fail(cmd, err)
			}
			allowUnused := app.cfg.Check.AllowUnused
			if cmd.Flags().Changed("allow-unused") {
				allowUnused = flags.allowUnused
			}
			req := checkRequest{path: args[0], context: flags.context, format: format, allowUnused: allowUnused}

			if flags.watch {
				return app.watchCheck(cmd, req)
			}
			report, err := app.check(req, "")
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}
			if !report.Complete() {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.context, "context", "c", "", "check only this context")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(config.FormatText), "output format: text or json")
	cmd.Flags().BoolVar(&flags.allowUnused, "allow-unused", false, "report unused bindings as warnings")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check whenever a manifest in the same directory changes")
	return cmd
}

type checkRequest struct {
	path        string
	context     string
	format      config.OutputFormat
	allowUnused bool
}

// check loads, builds and resolves the manifest of req.
func (a *App) check(req checkRequest, runID string) (*manifest.Report, error) {
	prog, err := a.loadProgram(req.path)
	if err != nil {
		return nil, err
	}
	var opts []capwire.ResolveOption
	if req.allowUnused {
		opts = append(opts, capwire.AllowUnused())
	}
	results, err := a.checkProgram(prog, req.context, opts...)
	if err != nil {
		return nil, err
	}
	return manifest.NewReport(runID, req.path, results), nil
}

// watchCheck checks once, then again after every change until the command's
// context is canceled. Failed checks are printed and do not stop watching.
func (a *App) watchCheck(cmd *cobra.Command, req checkRequest) error {
	out := cmd.OutOrStdout()
	runID := uuid.NewString()
	run := func() error {
		report, err := a.check(req, runID)
		if err != nil {
			_ = a.fail(cmd, err)
			return nil
		}
		return writeReport(out, report, req.format)
	}
	if err := run(); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Dir:      filepath.Dir(req.path),
		Patterns: watch.ManifestPatterns,
		Ignore:   a.cfg.Watch.Ignore,
		Debounce: a.cfg.Watch.Debounce,
		Logger:   a.logger,
		OnChange: func(_ context.Context, changed []string) error {
			a.logger.Info("re-checking", "changed", changed)
			return run()
		},
	})
	if err != nil {
		return a.fail(cmd, err)
	}
	if req.format == config.FormatText {
		writeLine(out, "%s", SubtitleStyle.Render(fmt.Sprintf("watching %s (ctrl+c to stop)", w.Dir())))
	}
	return w.Run(cmd.Context())
}

func writeReport(w io.Writer, report *manifest.Report, format config.OutputFormat) error {
	if format == config.FormatJSON {
		return report.WriteJSON(w)
	}
	renderReport(w, report)
	return nil
}
