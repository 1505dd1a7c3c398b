// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/amdpack/amdpack/internal/extract"
	"github.com/amdpack/amdpack/internal/issue"

	"github.com/spf13/cobra"
)

func newDepsCommand(app *App) *cobra.Command {
	var opts extract.Options

	depsCmd := &cobra.Command{
		Use:   "deps <file>...",
		Short: "Show the require and define dependencies declared in files",
		Long: `Show the dependency arrays of every require and define call in the given
files. Entries that are not string literals are reported as dropped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Require && !opts.Define {
				opts.Require, opts.Define = true, true
			}
			for _, path := range args {
				if err := showFileDeps(app, path, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
	depsCmd.Flags().BoolVar(&opts.Require, "require", false, "only show require calls")
	depsCmd.Flags().BoolVar(&opts.Define, "define", false, "only show define calls")

	return depsCmd
}

func showFileDeps(app *App, path string, opts extract.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return issue.WrapWithContext(err, "read source file", path)
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render(path))

	calls := extract.Calls(string(data), opts)
	if len(calls) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(no require or define calls)"))
		return nil
	}
	for _, call := range calls {
		label := call.Kind.String()
		if call.Named {
			label += " " + CmdStyle.Render(fmt.Sprintf("%q", call.Name))
		}
		deps := SubtitleStyle.Render("(none)")
		if len(call.Deps) > 0 {
			deps = strings.Join(call.Deps, ", ")
		}
		fmt.Fprintf(w, "  %s: %s\n", label, deps)
		for _, entry := range call.Dropped {
			fmt.Fprintf(w, "    %s dropped non-literal entry %s\n", WarningStyle.Render("!"), entry)
		}
	}
	return nil
}
