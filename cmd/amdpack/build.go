// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/amdpack/amdpack/internal/bundle"
	"github.com/amdpack/amdpack/internal/issue"
	"github.com/amdpack/amdpack/internal/output"
	"github.com/amdpack/amdpack/internal/watch"

	"github.com/spf13/cobra"
)

// stdoutTarget is the --out value that prints the loader script.
const stdoutTarget = "-"

type buildFlagValues struct {
	main       string
	out        string
	noCompress bool
	dryRun     bool
	watch      bool
}

func newBuildCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &buildFlagValues{}

	buildCmd := &cobra.Command{
		Use:   "build [script]",
		Short: "Bundle the project's modules and emit the configured loader script",
		Long: `Resolve every module reachable from the templates, write the bundles and
prepend the loader configuration to the loader script.

Without a script argument only the configuration assignment is emitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := ""
			if len(args) == 1 {
				script = args[0]
			}
			if flags.watch {
				return runBuildWatch(cmd.Context(), app, rootFlags, flags, script)
			}
			return runBuild(cmd.Context(), app, rootFlags, flags, script)
		},
	}

	buildCmd.Flags().StringVar(&flags.main, "main", "", "data-main module added as a starting dependency")
	buildCmd.Flags().StringVarP(&flags.out, "out", "o", stdoutTarget, "file the loader script is written to ('-' for stdout)")
	buildCmd.Flags().BoolVar(&flags.noCompress, "no-compress", false, "emit the loader configuration without bundles")
	buildCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "resolve and report without writing any file")
	buildCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild when templates or modules change")

	return buildCmd
}

// runBuild compiles the loader script once.
func runBuild(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *buildFlagValues, scriptPath string) error {
	p, err := app.openProject(ctx, rootFlags, projectOverrides{
		noCompress: flags.noCompress,
		dryRun:     flags.dryRun,
	})
	if err != nil {
		return err
	}

	script, err := readScript(scriptPath)
	if err != nil {
		return err
	}

	result, err := p.compiler(app.logger).Compile(ctx, bundle.CompileRequest{
		Script: script,
		Main:   flags.main,
	})
	if err != nil {
		if errors.Is(err, bundle.ErrRewrite) {
			err = issue.NewErrorContext().
				WithOperation("compile loader script").
				WithResource(scriptPath).
				WithSuggestion("Add the module to shim so it is loaded as a plain script, or remove it from bundles").
				Wrap(err).
				BuildError()
		}
		return classifyError(err)
	}

	if rootFlags.verbose || p.cfg.Verbose {
		printBuildReport(app, result)
	}

	if flags.dryRun || flags.out == stdoutTarget {
		fmt.Fprint(app.stdout, result.Output)
		return nil
	}
	return writeLoader(flags.out, result.Output)
}

// runBuildWatch builds once, then rebuilds on every change below the
// template and static directories until the context is cancelled.
func runBuildWatch(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *buildFlagValues, scriptPath string) error {
	if flags.dryRun {
		return errors.New("--watch and --dry-run cannot be used together")
	}

	p, err := app.openProject(ctx, rootFlags, projectOverrides{noCompress: flags.noCompress})
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) {
		if buildErr := runBuild(ctx, app, rootFlags, flags, scriptPath); buildErr != nil {
			fmt.Fprintf(app.stderr, "%s Build failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(buildErr, rootFlags.verbose))
			return
		}
		fmt.Fprintf(app.stderr, "%s Build complete\n", SuccessStyle.Render("✓"))
	}

	fmt.Fprintf(app.stderr, "%s Watch mode: initial build\n", VerboseHighlightStyle.Render("→"))
	rebuild(ctx)

	skip := []string{p.cfg.Output.Dir}
	if flags.out != stdoutTarget {
		skip = append(skip, flags.out)
	}
	patterns := append([]string{"**/*.js"}, p.cfg.TemplatePatterns...)

	w, err := watch.New(watch.Config{
		Roots:    p.watchRoots(),
		Patterns: patterns,
		Skip:     skip,
		Logger:   app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stderr, "%s Detected %d change(s), rebuilding\n", VerboseHighlightStyle.Render("→"), len(changed))
			rebuild(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(app.stderr, "\n%s Watching for changes (Ctrl+C to stop)...\n", VerboseHighlightStyle.Render("→"))
	return w.Run(ctx)
}

// readScript reads the loader script. An empty path yields an empty script.
func readScript(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := issue.NewErrorContext().
			WithOperation("read loader script").
			WithResource(path).
			WithSuggestion("Pass the path of the loader script, relative to the current directory").
			Wrap(err).
			BuildError()
		if errors.Is(err, fs.ErrNotExist) {
			return "", serviceFailure(wrapped, issue.ScriptNotFoundId)
		}
		return "", wrapped
	}
	return string(data), nil
}

// writeLoader atomically replaces the loader output file.
func writeLoader(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return serviceFailure(fmt.Errorf("creating output directory: %w", err), issue.OutputWriteFailedId)
	}
	if err := output.WriteFileAtomic(path, []byte(content)); err != nil {
		return serviceFailure(err, issue.OutputWriteFailedId)
	}
	return nil
}

// printBuildReport writes the bundle assignment and diagnostics to stderr.
func printBuildReport(app *App, result bundle.CompileResult) {
	w := app.stderr
	fmt.Fprintf(w, "%s %d module(s) resolved\n", VerboseHighlightStyle.Render("→"), result.Registry.Len())

	for _, url := range slices.Sorted(maps.Keys(result.Config.Bundles)) {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(url), VerboseStyle.Render(fmt.Sprintf("(%d modules)", len(result.Config.Bundles[url]))))
	}
	for _, id := range result.Partition.Skipped {
		fmt.Fprintf(w, "  %s configured member %s was not resolved\n", WarningStyle.Render("!"), CmdStyle.Render(id))
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "  %s\n", VerboseStyle.Render(d.String()))
	}
}
