// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/amdpack/amdpack/internal/amd"
	"github.com/amdpack/amdpack/internal/bundle"
	"github.com/amdpack/amdpack/internal/config"
	"github.com/amdpack/amdpack/internal/finder"
	"github.com/amdpack/amdpack/internal/issue"
	"github.com/amdpack/amdpack/internal/output"
	"github.com/amdpack/amdpack/internal/staticfiles"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference and build their pipeline through it.
	App struct {
		Config  ConfigProvider
		stdout  io.Writer
		stderr  io.Writer
		logger  *slog.Logger
		console *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		// Console is the terminal log handler whose level follows --verbose.
		Console *log.Logger
		// Logger defaults to a slog.Logger over Console, or slog.Default().
		Logger *slog.Logger
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// project is the pipeline assembled from one loaded configuration.
	project struct {
		cfg       *config.Config
		apps      *staticfiles.Apps
		templates *staticfiles.Templates
		finder    *finder.ModuleFinder
		sink      *output.FileSink
		aliases   amd.AliasTable
	}

	// projectOverrides are per-invocation flag values applied on top of the
	// loaded configuration.
	projectOverrides struct {
		noCompress bool
		dryRun     bool
	}
)

// NewApp creates an App with production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:  deps.Config,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		logger:  deps.Logger,
		console: deps.Console,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.logger == nil {
		if app.console != nil {
			app.logger = slog.New(app.console)
		} else {
			app.logger = slog.Default()
		}
	}
	return app
}

// setVerbose switches the console handler to debug level.
func (a *App) setVerbose(verbose bool) {
	if a.console == nil {
		return
	}
	if verbose {
		a.console.SetLevel(log.DebugLevel)
	} else {
		a.console.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the configuration and tags failures with a catalog entry.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		Dir:            flags.dir,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		id := issue.ConfigLoadFailedId
		if errors.Is(err, bundle.ErrReservedBundle) {
			id = issue.ReservedBundleNameId
		}
		return nil, serviceFailure(err, id)
	}
	if cfg.Verbose {
		a.setVerbose(true)
	}
	return cfg, nil
}

// openProject loads the configuration and assembles the module finder and
// output sink.
func (a *App) openProject(ctx context.Context, flags *rootFlagValues, over projectOverrides) (*project, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	if over.noCompress {
		cfg.Compress = false
	}

	apps := make([]staticfiles.App, len(cfg.Apps))
	for i, entry := range cfg.Apps {
		apps[i] = staticfiles.App{Name: entry.Name, Path: entry.Path}
	}
	installed := staticfiles.NewApps(apps...)

	templates, err := staticfiles.NewTemplates(cfg.TemplateDirs, installed, cfg.TemplatePatterns)
	if err != nil {
		return nil, classifyError(err)
	}

	aliases := amd.AliasTable(maps.Clone(cfg.Paths))
	p := &project{
		cfg:       cfg,
		apps:      installed,
		templates: templates,
		aliases:   aliases,
		finder: finder.New(finder.Options{
			Locator:   staticfiles.NewFinder(cfg.StaticDirs, installed),
			Templates: templates,
			Apps:      installed,
			Aliases:   aliases,
			AppAlias:  cfg.AppAlias,
			Workers:   cfg.Workers,
			Logger:    a.logger,
		}),
	}
	if cfg.Compress {
		p.sink = &output.FileSink{
			Dir:    cfg.Output.Dir,
			URL:    cfg.Output.URL,
			Minify: cfg.Minify,
			DryRun: over.dryRun,
			Logger: a.logger,
		}
	}
	return p, nil
}

// compiler builds a bundle.Compiler for the project.
func (p *project) compiler(logger *slog.Logger) *bundle.Compiler {
	var sink bundle.Sink
	if p.sink != nil {
		sink = p.sink
	}
	var shim map[string]bundle.Shim
	if len(p.cfg.Shim) > 0 {
		shim = make(map[string]bundle.Shim, len(p.cfg.Shim))
		for id, entry := range p.cfg.Shim {
			shim[id] = bundle.Shim{Deps: entry.Deps, Exports: entry.Exports}
		}
	}
	return bundle.NewCompiler(bundle.Options{
		Modules:                 p.finder,
		Sink:                    sink,
		BaseURL:                 p.cfg.BaseURL,
		Paths:                   p.cfg.Paths,
		Bundles:                 p.cfg.Bundles,
		Shim:                    shim,
		AppAlias:                p.cfg.AppAlias,
		AppLabels:               p.cfg.AppLabels(),
		IncludeMainBundleInline: p.cfg.IncludeMainBundle,
		ForceMainBundle:         p.cfg.ForceMainBundle,
		Compress:                p.cfg.Compress,
		Logger:                  logger,
	})
}

// watchRoots returns every directory a rebuild depends on.
func (p *project) watchRoots() []string {
	roots := append([]string{}, p.cfg.TemplateDirs...)
	roots = append(roots, p.cfg.StaticDirs...)
	roots = append(roots, p.apps.TemplateDirs()...)
	roots = append(roots, p.apps.StaticDirs()...)
	return roots
}
