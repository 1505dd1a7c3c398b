// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/amdpack/amdpack/internal/dag"
	"github.com/amdpack/amdpack/internal/issue"

	"github.com/spf13/cobra"
)

func newGraphCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		main  string
		edges bool
	)

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the resolved modules in dependency-first order",
		Long: `Show the resolved modules ordered so every module follows the modules it
depends on. Dependency cycles are reported as a warning; the modules are
then listed in discovery order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showGraph(cmd.Context(), app, rootFlags, main, edges)
		},
	}
	graphCmd.Flags().StringVar(&main, "main", "", "data-main module added as a starting dependency")
	graphCmd.Flags().BoolVar(&edges, "edges", false, "list each module's resolved dependencies")

	return graphCmd
}

func showGraph(ctx context.Context, app *App, rootFlags *rootFlagValues, main string, edges bool) error {
	p, result, err := resolveProject(ctx, app, rootFlags, main)
	if err != nil {
		return err
	}

	g := dag.FromRegistry(result.Registry, p.aliases.Normalize)
	order, cycle := g.Order()
	if cycle != nil {
		fmt.Fprintf(app.stderr, "%s %s; showing discovery order\n", WarningStyle.Render("!"), cycle.Error())
		if rootFlags.verbose || p.cfg.Verbose {
			if entry := issue.Get(issue.DependencyCycleId); entry != nil {
				if rendered, renderErr := entry.Render("dark"); renderErr == nil {
					fmt.Fprint(app.stderr, rendered)
				}
			}
		}
	}

	w := app.stdout
	for i, id := range order {
		fmt.Fprintf(w, "%3d  %s\n", i+1, CmdStyle.Render(id))
		if !edges {
			continue
		}
		m, ok := result.Registry.Get(id)
		if !ok {
			continue
		}
		for _, dep := range m.Dependencies {
			norm := p.aliases.Normalize(dep)
			if result.Registry.Has(norm) {
				fmt.Fprintf(w, "       %s %s\n", SubtitleStyle.Render("←"), norm)
			} else {
				fmt.Fprintf(w, "       %s %s %s\n", SubtitleStyle.Render("←"), norm, VerboseStyle.Render("(external)"))
			}
		}
	}
	return nil
}
