// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type rootFlags struct {
	verbose    bool
	configFile string
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "capwire",
		Short: "Check capability wiring before it runs",
		Long: TitleStyle.Render("capwire") + SubtitleStyle.Render(" - capability resolution and delegation") + `

capwire checks that every context in a wiring manifest is
capability-complete: each exposed capability, and everything its providers
require, resolves to a provider or to a getter synthesized from an
attribute.

` + SubtitleStyle.Render("Examples:") + `
  capwire check wiring.cue              Check every context
  capwire check wiring.yaml -c Person   Check one context
  capwire check wiring.cue --watch      Re-check on every change
  capwire graph wiring.cue              Show assembly order
  capwire explain missing-capability    Explain a failure`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd, flags)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and error chains")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/capwire/config.cue)")

	root.AddCommand(
		newCheckCommand(app),
		newGraphCommand(app),
		newExplainCommand(app),
		newConfigCommand(app),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the capwire version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			writeLine(cmd.OutOrStdout(), "capwire %s", getVersionString())
		},
	}
}

// Execute runs the CLI and exits with the command's status. It is called by
// main.main.
func Execute() {
	root := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
