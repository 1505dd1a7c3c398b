// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amdpack/amdpack/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
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

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
	dir        string
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "amdpack",
		Short: "Static AMD module bundler",
		Long: TitleStyle.Render("amdpack") + SubtitleStyle.Render(" - Static AMD module bundler") + `

amdpack scans a project's templates for require([...]) calls, follows the
define([...]) dependencies of every module it finds, groups the modules
into bundles and prepends the matching loader configuration to the
loader script.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create amdpack.cue with 'amdpack config init'
  2. List the modules your templates load: amdpack modules
  3. Build: amdpack build static/js/require.js --main app/main --out static/js/loader.js

` + SubtitleStyle.Render("Examples:") + `
  amdpack build require.js          Print the configured loader script
  amdpack build --watch ...         Rebuild whenever a template or module changes
  amdpack graph                     Show modules in dependency-first order
  amdpack deps static/js/app.js     Show the dependencies declared in a file`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.setVerbose(flags.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./amdpack.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "project directory searched for amdpack.cue")

	rootCmd.AddCommand(newBuildCommand(app, flags))
	rootCmd.AddCommand(newModulesCommand(app, flags))
	rootCmd.AddCommand(newGraphCommand(app, flags))
	rootCmd.AddCommand(newDepsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	console := log.NewWithOptions(os.Stderr, log.Options{Prefix: "amdpack"})
	logger := slog.New(console)
	slog.SetDefault(logger)

	app := NewApp(Dependencies{Console: console, Logger: logger})

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(os.Stderr, svcErr)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method, which includes the full chain in verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
