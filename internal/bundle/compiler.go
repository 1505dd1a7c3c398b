// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/amdpack/amdpack/internal/amd"
	"github.com/amdpack/amdpack/internal/finder"
)

type (
	// ModuleSource resolves the modules reachable from the project's
	// templates plus the given extra starting identifiers.
	ModuleSource interface {
		FindModules(ctx context.Context, extra ...string) (finder.Result, error)
	}

	// Sink persists a bundle and returns the URL the loader fetches it from.
	Sink interface {
		WriteBundle(ctx context.Context, content, basename string) (string, error)
	}

	// Options configures a Compiler.
	Options struct {
		// Modules resolves the module registry. Required.
		Modules ModuleSource
		// Sink writes bundle artifacts. Required when Compress is set.
		Sink Sink
		// BaseURL is passed through to the loader configuration.
		BaseURL string
		// Paths is the configured alias table, emitted as the loader's paths.
		Paths map[string]string
		// Bundles maps configured bundle names to member ids.
		Bundles map[string][]string
		// Shim describes non-AMD scripts. Their deps seed the traversal and
		// the shimmed ids are never bundled.
		Shim map[string]Shim
		// AppAlias and AppLabels generate "<app>: <app>/<alias>" paths.
		AppAlias  string
		AppLabels []string
		// IncludeMainBundleInline appends the main bundle to the loader
		// script instead of writing it as a separate artifact.
		IncludeMainBundleInline bool
		// ForceMainBundle emits the main bundle even when it is empty.
		ForceMainBundle bool
		// Compress enables bundling. When false the loader configuration
		// carries no bundles and modules are fetched one by one.
		Compress bool
		// Logger receives progress output. Defaults to slog.Default().
		Logger *slog.Logger
	}

	// Compiler turns a loader script into a configured, bundled one.
	Compiler struct {
		opts   Options
		logger *slog.Logger
	}

	// CompileRequest is one loader script to compile.
	CompileRequest struct {
		// Script is the original loader script content.
		Script string
		// Main is the data-main module, added as a starting dependency.
		Main string
	}

	// CompileResult is the outcome of Compile.
	CompileResult struct {
		// Output is the loader configuration followed by the script.
		Output string
		// Config is the emitted loader configuration.
		Config LoaderConfig
		// Registry is the resolved module registry.
		Registry *amd.Registry
		// Partition is the bundle assignment; zero when Compress is off.
		Partition Partition
		// Diagnostics are the non-fatal resolution events.
		Diagnostics []finder.Diagnostic
	}
)

// NewCompiler creates a Compiler.
func NewCompiler(opts Options) *Compiler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{opts: opts, logger: logger}
}

// StartingDependencies returns the shim dependencies (in sorted shim order)
// followed by the data-main module.
func (c *Compiler) StartingDependencies(main string) []string {
	var deps []string
	for _, id := range slices.Sorted(maps.Keys(c.opts.Shim)) {
		deps = append(deps, c.opts.Shim[id].Deps...)
	}
	if main = strings.TrimSpace(main); main != "" {
		deps = append(deps, main)
	}
	return deps
}

// DefaultConfig returns the loader configuration before bundles are added.
func (c *Compiler) DefaultConfig() LoaderConfig {
	cfg := LoaderConfig{
		BaseURL: c.opts.BaseURL,
		Paths:   defaultPaths(c.opts.Paths, c.opts.AppLabels, c.opts.AppAlias),
	}
	if len(c.opts.Shim) > 0 {
		cfg.Shim = maps.Clone(c.opts.Shim)
	}
	return cfg
}

// Compile resolves the modules, writes the bundles and returns the loader
// script. Every bundle is rendered before the first one is written, so a
// rewrite failure leaves no partial output behind.
func (c *Compiler) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	found, err := c.opts.Modules.FindModules(ctx, c.StartingDependencies(req.Main)...)
	if err != nil {
		return CompileResult{}, fmt.Errorf("find modules: %w", err)
	}

	result := CompileResult{
		Config:      c.DefaultConfig(),
		Registry:    found.Registry,
		Diagnostics: found.Diagnostics,
	}
	script := req.Script

	if c.opts.Compress {
		part, err := PartitionIntoBundles(found.Registry, PartitionOptions{
			Bundles:   c.opts.Bundles,
			Shims:     slices.Sorted(maps.Keys(c.opts.Shim)),
			ForceMain: c.opts.ForceMainBundle,
			Aliases:   amd.AliasTable(c.opts.Paths),
		})
		if err != nil {
			return CompileResult{}, err
		}
		result.Partition = part

		bundles, inline, err := c.writeBundles(ctx, part)
		if err != nil {
			return CompileResult{}, err
		}
		if len(bundles) > 0 {
			result.Config.Bundles = bundles
		}
		if inline != "" {
			if script != "" && !strings.HasSuffix(script, "\n") {
				script += "\n"
			}
			script += inline
		}
	}

	out, err := result.Config.Script(script)
	if err != nil {
		return CompileResult{}, err
	}
	result.Output = out
	return result, nil
}

// writeBundles renders every bundle, then writes them through the sink. The
// main bundle is returned as inline content instead of being written when
// IncludeMainBundleInline is set.
func (c *Compiler) writeBundles(ctx context.Context, part Partition) (map[string][]string, string, error) {
	all := part.All()
	rendered := make([]string, len(all))
	for i, b := range all {
		content, err := Render(b)
		if err != nil {
			return nil, "", err
		}
		rendered[i] = content
	}

	if c.opts.Sink == nil && (len(part.Bundles) > 0 || (part.Main != nil && !c.opts.IncludeMainBundleInline)) {
		return nil, "", fmt.Errorf("write bundles: no output sink configured")
	}

	var (
		bundles = make(map[string][]string)
		inline  string
	)
	for i, b := range all {
		if b.Name == MainBundle && part.Main != nil && c.opts.IncludeMainBundleInline {
			inline = rendered[i]
			continue
		}
		url, err := c.opts.Sink.WriteBundle(ctx, rendered[i], b.Name+amd.Extension)
		if err != nil {
			return nil, "", fmt.Errorf("write bundle %s: %w", b.Name, err)
		}
		c.logger.Debug("bundle written", "bundle", b.Name, "url", url, "modules", len(b.Modules))
		bundles[url] = b.IDs()
	}
	return bundles, inline, nil
}
