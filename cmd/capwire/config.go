// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capwire/capwire/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect capwire configuration",
		Long: `Inspect capwire configuration.

Configuration is read from config.cue in:
  - Linux: $XDG_CONFIG_HOME/capwire (default ~/.config/capwire)
  - macOS: ~/Library/Application Support/capwire
  - Windows: %APPDATA%\capwire

CAPWIRE_* environment variables override the file, e.g.
CAPWIRE_CHECK_FORMAT=json.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			source := app.cfg.Source
			if source == "" {
				source = "defaults"
			}
			writeLine(out, "// source: %s", source)
			fmt.Fprint(out, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			writeLine(cmd.OutOrStdout(), "%s", filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})
	return cfgCmd
}
