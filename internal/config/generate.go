// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// GenerateCUE renders cfg as an amdpack.cue document. Map entries are
// written in sorted key order.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// amdpack project configuration.\n")
	sb.WriteString("// Relative paths resolve from the directory holding this file.\n\n")

	fmt.Fprintf(&sb, "base_url: %q\n", cfg.BaseURL)
	writeList(&sb, "static_dirs", cfg.StaticDirs)
	writeList(&sb, "template_dirs", cfg.TemplateDirs)
	writeList(&sb, "template_patterns", cfg.TemplatePatterns)

	if len(cfg.Apps) > 0 {
		sb.WriteString("\napps: [\n")
		for _, app := range cfg.Apps {
			fmt.Fprintf(&sb, "\t{name: %q, path: %q},\n", app.Name, app.Path)
		}
		sb.WriteString("]\n")
	}
	fmt.Fprintf(&sb, "app_alias: %q\n", cfg.AppAlias)

	if len(cfg.Paths) > 0 {
		sb.WriteString("\npaths: {\n")
		for _, id := range slices.Sorted(maps.Keys(cfg.Paths)) {
			fmt.Fprintf(&sb, "\t%q: %q\n", id, cfg.Paths[id])
		}
		sb.WriteString("}\n")
	}

	if len(cfg.Bundles) > 0 {
		sb.WriteString("\nbundles: {\n")
		for _, name := range slices.Sorted(maps.Keys(cfg.Bundles)) {
			fmt.Fprintf(&sb, "\t%q: %s\n", name, quoteList(cfg.Bundles[name]))
		}
		sb.WriteString("}\n")
	}

	if len(cfg.Shim) > 0 {
		sb.WriteString("\nshim: {\n")
		for _, id := range slices.Sorted(maps.Keys(cfg.Shim)) {
			s := cfg.Shim[id]
			var fields []string
			if len(s.Deps) > 0 {
				fields = append(fields, "deps: "+quoteList(s.Deps))
			}
			if s.Exports != "" {
				fields = append(fields, fmt.Sprintf("exports: %q", s.Exports))
			}
			fmt.Fprintf(&sb, "\t%q: {%s}\n", id, strings.Join(fields, ", "))
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "compress:            %v\n", cfg.Compress)
	fmt.Fprintf(&sb, "minify:              %v\n", cfg.Minify)
	fmt.Fprintf(&sb, "include_main_bundle: %v\n", cfg.IncludeMainBundle)
	fmt.Fprintf(&sb, "force_main_bundle:   %v\n", cfg.ForceMainBundle)

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tdir: %q\n", cfg.Output.Dir)
	fmt.Fprintf(&sb, "\turl: %q\n", cfg.Output.URL)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nworkers: %d\n", cfg.Workers)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)

	return sb.String()
}

func writeList(sb *strings.Builder, key string, values []string) {
	fmt.Fprintf(sb, "%s: %s\n", key, quoteList(values))
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
