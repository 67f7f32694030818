// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/capwire/capwire/internal/dag"
	"github.com/capwire/capwire/pkg/capwire"
)

func newGraphCommand(app *App) *cobra.Command {
	var (
		contextID string
		dot       bool
	)
	cmd := &cobra.Command{
		Use:   "graph <manifest>",
		Short: "Print the assembly order of capability-complete contexts",
		Long: `Graph prints, for every capability-complete context, its capabilities in
layers: a capability appears one layer after the last capability it
requires. With --dot it prints a Graphviz digraph instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := app.loadProgram(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			results, err := app.checkProgram(prog, contextID, capwire.AllowUnused())
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			incomplete := 0
			if dot {
				writeLine(out, "digraph capwire {")
			}
			for _, r := range results {
				if !r.Complete() {
					incomplete++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not capability-complete; run 'capwire check'\n", errorIcon, r.Context)
					continue
				}
				if dot {
					writeDot(out, r.Resolution)
					continue
				}
				if err := writeLayers(out, r.Resolution); err != nil {
					return app.fail(cmd, err)
				}
			}
			if dot {
				writeLine(out, "}")
			}
			if incomplete > 0 {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&contextID, "context", "c", "", "graph only this context")
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz dot")
	return cmd
}

// layers groups a resolution's capabilities by dependency depth.
func layers(res *capwire.Resolution) ([][]capwire.CapabilityID, error) {
	g := dag.New[capwire.CapabilityID]()
	for _, c := range res.Order {
		g.AddNode(c)
		for _, dep := range res.Edges[c] {
			g.AddDependency(c, dep)
		}
	}
	return g.Layers()
}

func implementation(res *capwire.Resolution, c capwire.CapabilityID) string {
	b := res.Bindings[c]
	if b.Provider == capwire.UseFields && b.Attribute != nil {
		return "attribute " + string(b.Attribute.Name)
	}
	s := string(b.Provider)
	if b.Inherited {
		s += " (inherited)"
	}
	return s
}

func writeLayers(w io.Writer, res *capwire.Resolution) error {
	ls, err := layers(res)
	if err != nil {
		return err
	}
	writeLine(w, "%s", contextStyle.Render(string(res.Context)))
	for i, layer := range ls {
		for j, c := range layer {
			label := "        "
			if j == 0 {
				label = fmt.Sprintf("layer %d ", i)
			}
			writeLine(w, "  %s %s  %s", SubtitleStyle.Render(label), CmdStyle.Render(string(c)),
				SubtitleStyle.Render("<- "+implementation(res, c)))
		}
	}
	return nil
}

func writeDot(w io.Writer, res *capwire.Resolution) {
	node := func(c capwire.CapabilityID) string {
		return fmt.Sprintf("%q", string(res.Context)+"."+string(c))
	}
	writeLine(w, "  subgraph %q {", "cluster_"+string(res.Context))
	writeLine(w, "    label=%q;", string(res.Context))
	for _, c := range res.Order {
		writeLine(w, "    %s [label=\"%s\\n%s\"];", node(c), c, implementation(res, c))
	}
	for _, c := range res.Order {
		for _, dep := range res.Edges[c] {
			writeLine(w, "    %s -> %s;", node(c), node(dep))
		}
	}
	writeLine(w, "  }")
}
