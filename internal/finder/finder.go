// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/amdpack/amdpack/internal/amd"
	"github.com/amdpack/amdpack/internal/extract"

	"golang.org/x/sync/errgroup"
)

type (
	// FileLocator maps a static file path relative to the static roots
	// (e.g., "app/main.js") to a file on disk. Implementations must be safe
	// for concurrent use when the finder runs with more than one worker.
	FileLocator interface {
		Find(rel string) (string, bool)
	}

	// TemplateSource enumerates the template files to scan for require calls.
	TemplateSource interface {
		TemplateFiles() ([]string, error)
	}

	// AppRegistry reports whether a name is an installed application. It is
	// only consulted for the app alias retry in LocateModule.
	AppRegistry interface {
		IsInstalled(name string) bool
	}

	// Options configures a ModuleFinder.
	Options struct {
		// Locator resolves module files. Required.
		Locator FileLocator
		// Templates provides the template files for ScanTemplateSources.
		Templates TemplateSource
		// Apps is the installed-application check for the app alias retry.
		Apps AppRegistry
		// Aliases remaps identifiers before lookup (the loader's "paths").
		Aliases amd.AliasTable
		// AppAlias is the path segment inserted after an app name when a
		// module is not found directly (e.g., "js" turns "blog/list.js"
		// into "blog/js/list.js").
		AppAlias string
		// Workers bounds how many modules of one frontier are loaded
		// concurrently. Values below 2 load sequentially.
		Workers int
		// ReadFile reads located files. Defaults to os.ReadFile.
		ReadFile func(name string) ([]byte, error)
		// Logger receives debug output. Defaults to slog.Default().
		Logger *slog.Logger
	}

	// ModuleFinder locates modules and resolves the transitive closure of
	// their dependencies. A ModuleFinder holds no state between calls.
	ModuleFinder struct {
		locator   FileLocator
		templates TemplateSource
		apps      AppRegistry
		aliases   amd.AliasTable
		appAlias  string
		workers   int
		readFile  func(string) ([]byte, error)
		logger    *slog.Logger
	}

	// Result bundles a resolved registry with the diagnostics produced while
	// building it.
	Result struct {
		Registry    *amd.Registry
		Diagnostics []Diagnostic
	}

	// visit is the outcome of loading one identifier.
	visit struct {
		id    string
		path  string
		found bool
		src   string
		calls []extract.Call
	}
)

// New creates a ModuleFinder.
func New(opts Options) *ModuleFinder {
	f := &ModuleFinder{
		locator:   opts.Locator,
		templates: opts.Templates,
		apps:      opts.Apps,
		aliases:   opts.Aliases,
		appAlias:  strings.Trim(opts.AppAlias, "/"),
		workers:   opts.Workers,
		readFile:  opts.ReadFile,
		logger:    opts.Logger,
	}
	if f.readFile == nil {
		f.readFile = os.ReadFile
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// LocateModule returns the file backing identifier. The identifier is
// canonicalized and aliased, ".js" is appended and the locator is asked for
// the path. When that fails and the first path segment names an installed
// app, the lookup is retried once with the app alias inserted after it.
// A missing module is reported with ok == false; it is not an error.
func (f *ModuleFinder) LocateModule(identifier string) (path string, ok bool) {
	return f.locate(f.aliases.Normalize(identifier))
}

// locate looks up an identifier that is already canonical and aliased.
func (f *ModuleFinder) locate(id string) (string, bool) {
	if id == "" || isExternal(id) {
		return "", false
	}

	rel := amd.FilePath(id)
	if path, ok := f.locator.Find(rel); ok {
		return path, true
	}

	if f.appAlias == "" || f.apps == nil {
		return "", false
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 2 || !f.apps.IsInstalled(parts[0]) {
		return "", false
	}
	parts = slices.Insert(parts, 1, f.appAlias)
	return f.locator.Find(strings.Join(parts, "/"))
}

// ScanTemplateSources returns the union of require() dependencies across all
// template files. Files are processed in sorted path order and identifiers
// keep their first-seen order, so repeated runs produce the same list.
func (f *ModuleFinder) ScanTemplateSources(ctx context.Context) ([]string, []Diagnostic, error) {
	if f.templates == nil {
		return nil, nil, nil
	}
	files, err := f.templates.TemplateFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("list template files: %w", err)
	}
	files = slices.Clone(files)
	slices.Sort(files)

	var (
		deps  []string
		diags []Diagnostic
		seen  = make(map[string]bool)
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("scan templates canceled: %w", err)
		}
		data, err := f.readFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("read template %s: %w", file, err)
		}
		for _, call := range extract.RequireCalls(string(data)) {
			for _, entry := range call.Dropped {
				diags = append(diags, dynamicDependency("", file, entry))
			}
			for _, dep := range call.Deps {
				if !seen[dep] {
					seen[dep] = true
					deps = append(deps, dep)
				}
			}
		}
	}
	f.logger.Debug("scanned templates", "files", len(files), "dependencies", len(deps))
	return deps, diags, nil
}

// FindModules scans the templates and resolves their dependencies together
// with the extra starting identifiers (shim dependencies, the data-main
// module).
func (f *ModuleFinder) FindModules(ctx context.Context, extra ...string) (Result, error) {
	deps, diags, err := f.ScanTemplateSources(ctx)
	if err != nil {
		return Result{}, err
	}
	result, err := f.Resolve(ctx, append(deps, extra...))
	if err != nil {
		return Result{}, err
	}
	result.Diagnostics = append(diags, result.Diagnostics...)
	return result, nil
}

// Resolve walks the dependency graph from start and returns every module
// reached. The walk proceeds frontier by frontier; an identifier is expanded
// at most once, so cyclic graphs terminate. Named modules are registered under
// their declared name, which is then treated as known.
func (f *ModuleFinder) Resolve(ctx context.Context, start []string) (Result, error) {
	var (
		reg      = amd.NewRegistry()
		diags    []Diagnostic
		known    = make(map[string]bool)
		frontier = start
	)

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("resolve canceled: %w", err)
		}

		var batch []string
		for _, raw := range frontier {
			id := f.aliases.Normalize(raw)
			if id == "" || known[id] {
				continue
			}
			known[id] = true
			batch = append(batch, id)
		}

		visits, err := f.load(ctx, batch)
		if err != nil {
			return Result{}, err
		}

		var next, missing []string
		for _, v := range visits {
			if !v.found {
				missing = append(missing, v.id)
				continue
			}
			mods := modulesOf(v)
			if len(mods) == 0 {
				reg.AddScript(v.id)
				diags = append(diags, plainScript(v.id, v.path))
			}
			for _, m := range mods {
				if !reg.Add(m) {
					diags = append(diags, duplicateModule(m.ID, v.path))
					continue
				}
				if m.Named {
					known[m.ID] = true
					known[f.aliases.Normalize(m.ID)] = true
				}
			}
			for _, call := range v.calls {
				for _, entry := range call.Dropped {
					diags = append(diags, dynamicDependency(v.id, v.path, entry))
				}
				next = append(next, call.Deps...)
			}
		}
		// A file-less id may have been declared by name elsewhere in the
		// same frontier.
		for _, id := range missing {
			if reg.Has(id) {
				continue
			}
			f.logger.Debug("module not found", "id", id)
			diags = append(diags, notFound(id))
		}
		frontier = next
	}

	f.logger.Debug("resolved modules", "modules", reg.Len(), "scripts", len(reg.Scripts()))
	return Result{Registry: reg, Diagnostics: diags}, nil
}

// load locates, reads and scans every identifier of one frontier. The result
// keeps the order of ids regardless of how many workers were used.
func (f *ModuleFinder) load(ctx context.Context, ids []string) ([]visit, error) {
	visits := make([]visit, len(ids))
	if f.workers < 2 || len(ids) < 2 {
		for i, id := range ids {
			v, err := f.loadOne(id)
			if err != nil {
				return nil, err
			}
			visits[i] = v
		}
		return visits, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := f.loadOne(id)
			if err != nil {
				return err
			}
			visits[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return visits, nil
}

func (f *ModuleFinder) loadOne(id string) (visit, error) {
	path, ok := f.locate(id)
	if !ok {
		return visit{id: id}, nil
	}
	data, err := f.readFile(path)
	if err != nil {
		return visit{}, fmt.Errorf("read module %s: %w", id, err)
	}
	src := string(data)
	f.logger.Debug("module located", "id", id, "path", path)
	return visit{
		id:    id,
		path:  path,
		found: true,
		src:   src,
		calls: extract.Calls(src, extract.Options{Require: true, Define: true}),
	}, nil
}

// modulesOf turns the define calls of a located file into modules. Each
// module depends on its own define array plus every require call in the
// file, in source order.
func modulesOf(v visit) []amd.Module {
	var mods []amd.Module
	for i, call := range v.calls {
		if call.Kind != extract.KindDefine {
			continue
		}
		var deps []string
		for j, other := range v.calls {
			if other.Kind == extract.KindRequire || j == i {
				deps = append(deps, other.Deps...)
			}
		}
		id, named := v.id, call.Named && call.Name != ""
		if named {
			id = call.Name
		}
		mods = append(mods, amd.Module{
			ID:           id,
			Location:     v.id,
			Path:         v.path,
			Dependencies: deps,
			Named:        named,
			Source:       v.src,
		})
	}
	return mods
}

// isExternal reports whether id is a URL rather than a static path, as in
// paths: {jquery: "//code.jquery.com/jquery-2.1.4.min"}.
func isExternal(id string) bool {
	return strings.HasPrefix(id, "//") || strings.Contains(id, "://")
}
