// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capwire/capwire/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [topic]",
		Short: "Explain a resolution failure or CLI error",
		Long: `Explain prints the documentation for a failure reason, such as Missing or
Cyclic, or for an error topic such as manifest-parse-error. Without an
argument it lists every topic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				writeLine(out, "%s", TitleStyle.Render("Topics"))
				for _, i := range issue.Values() {
					writeLine(out, "  %s  %s", CmdStyle.Render(fmt.Sprintf("%-22s", i.Slug())), title(i))
				}
				return nil
			}

			i, ok := issue.Lookup(args[0])
			if !ok {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'capwire explain' to list the topics").
					Wrap(errors.New("unknown topic")).
					BuildError())
			}
			rendered, err := i.Render(markdownStyle(app.cfg.UI.Color))
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}

// title is the first Markdown heading of an issue.
func title(i *issue.Issue) string {
	for _, line := range strings.Split(string(i.MarkdownMsg()), "\n") {
		if h, ok := strings.CutPrefix(line, "# "); ok {
			return h
		}
	}
	return ""
}
