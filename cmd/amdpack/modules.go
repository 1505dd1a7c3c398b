// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/amdpack/amdpack/internal/finder"

	"github.com/spf13/cobra"
)

func newModulesCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var main string

	modulesCmd := &cobra.Command{
		Use:   "modules",
		Short: "List the modules reachable from the templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModules(cmd.Context(), app, rootFlags, main)
		},
	}
	modulesCmd.Flags().StringVar(&main, "main", "", "data-main module added as a starting dependency")

	return modulesCmd
}

// resolveProject runs the module finder with the same starting set a build
// would use.
func resolveProject(ctx context.Context, app *App, rootFlags *rootFlagValues, main string) (*project, finder.Result, error) {
	p, err := app.openProject(ctx, rootFlags, projectOverrides{dryRun: true})
	if err != nil {
		return nil, finder.Result{}, err
	}
	start := p.compiler(app.logger).StartingDependencies(main)
	result, err := p.finder.FindModules(ctx, start...)
	if err != nil {
		return nil, finder.Result{}, classifyError(err)
	}
	return p, result, nil
}

func listModules(ctx context.Context, app *App, rootFlags *rootFlagValues, main string) error {
	p, result, err := resolveProject(ctx, app, rootFlags, main)
	if err != nil {
		return err
	}

	w := app.stdout
	modules := result.Registry.Modules()
	if len(modules) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No modules found."))
	}

	width := 0
	for _, m := range modules {
		width = max(width, len(m.ID))
	}
	for _, m := range modules {
		kind := "anonymous"
		if m.Named {
			kind = "named"
		}
		fmt.Fprintf(w, "%s  %-9s  %2d deps  %s\n",
			CmdStyle.Render(fmt.Sprintf("%-*s", width, m.ID)),
			kind,
			len(m.Dependencies),
			SubtitleStyle.Render(m.Path),
		)
	}

	for _, id := range result.Registry.Scripts() {
		fmt.Fprintf(w, "%s  %s\n", CmdStyle.Render(fmt.Sprintf("%-*s", width, id)), WarningStyle.Render("plain script (no define call)"))
	}

	if rootFlags.verbose || p.cfg.Verbose {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(app.stderr, "%s\n", VerboseStyle.Render(d.String()))
		}
	}
	return nil
}
