// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/amdpack/amdpack/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `amdpack config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage amdpack configuration",
		Long: `Manage amdpack configuration.

Configuration is read from amdpack.cue in the project directory (see --dir)
or from the file given with --config. Scalar settings can be overridden
with AMDPACK_* environment variables, e.g. AMDPACK_COMPRESS=false or
AMDPACK_OUTPUT_DIR=dist/bundles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default amdpack.cue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	kv := func(key string, value any) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}
	list := func(key string, values []string) {
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(key))
		if len(values) == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(v))
		}
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfg.File != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.File)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	kv("base_url", cfg.BaseURL)
	list("static_dirs", cfg.StaticDirs)
	list("template_dirs", cfg.TemplateDirs)
	list("template_patterns", cfg.TemplatePatterns)

	apps := make([]string, len(cfg.Apps))
	for i, a := range cfg.Apps {
		apps[i] = a.Name + " (" + a.Path + ")"
	}
	list("apps", apps)
	kv("app_alias", cfg.AppAlias)

	paths := make([]string, 0, len(cfg.Paths))
	for _, id := range slices.Sorted(maps.Keys(cfg.Paths)) {
		paths = append(paths, id+" -> "+cfg.Paths[id])
	}
	list("paths", paths)

	bundles := make([]string, 0, len(cfg.Bundles))
	for _, name := range slices.Sorted(maps.Keys(cfg.Bundles)) {
		bundles = append(bundles, name+": "+strings.Join(cfg.Bundles[name], ", "))
	}
	list("bundles", bundles)

	shims := make([]string, 0, len(cfg.Shim))
	for _, id := range slices.Sorted(maps.Keys(cfg.Shim)) {
		s := cfg.Shim[id]
		desc := id
		if len(s.Deps) > 0 {
			desc += " deps=[" + strings.Join(s.Deps, ", ") + "]"
		}
		if s.Exports != "" {
			desc += " exports=" + s.Exports
		}
		shims = append(shims, desc)
	}
	list("shim", shims)

	fmt.Fprintln(w)
	kv("compress", cfg.Compress)
	kv("minify", cfg.Minify)
	kv("include_main_bundle", cfg.IncludeMainBundle)
	kv("force_main_bundle", cfg.ForceMainBundle)
	kv("output.dir", cfg.Output.Dir)
	kv("output.url", cfg.Output.URL)
	kv("workers", cfg.Workers)
	kv("verbose", cfg.Verbose)
	return nil
}

func initConfig(app *App, rootFlags *rootFlagValues) error {
	dir := rootFlags.dir
	if dir == "" {
		dir = "."
	}
	path, created, err := config.CreateDefaultConfig(dir)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s %s already exists\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
