// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/amdpack/amdpack/internal/bundle"
	"github.com/amdpack/amdpack/internal/staticfiles"
	"github.com/amdpack/amdpack/pkg/cueutil"
)

const (
	// DefaultBaseURL is the loader baseUrl when none is configured.
	DefaultBaseURL = "/static/"
	// DefaultAppAlias is the directory below an app's static root holding
	// its modules.
	DefaultAppAlias = "js"
	// DefaultWorkers is the default resolution parallelism.
	DefaultWorkers = 4
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrDuplicateApp is returned when two apps share a name.
	ErrDuplicateApp = errors.New("duplicate app")
)

type (
	// AppEntry is an installed app.
	AppEntry struct {
		Name string `json:"name" mapstructure:"name"`
		Path string `json:"path" mapstructure:"path"`
	}

	// ShimEntry describes a non-AMD script to the loader.
	ShimEntry struct {
		Deps    []string `json:"deps,omitempty" mapstructure:"deps"`
		Exports string   `json:"exports,omitempty" mapstructure:"exports"`
	}

	// OutputConfig controls where bundles are written and served from.
	OutputConfig struct {
		// Dir is the directory bundles are written to.
		Dir string `json:"dir" mapstructure:"dir"`
		// URL is the public prefix bundles are served under.
		URL string `json:"url" mapstructure:"url"`
	}

	// Config is the amdpack project configuration.
	Config struct {
		BaseURL          string     `json:"base_url" mapstructure:"base_url"`
		StaticDirs       []string   `json:"static_dirs" mapstructure:"static_dirs"`
		TemplateDirs     []string   `json:"template_dirs" mapstructure:"template_dirs"`
		TemplatePatterns []string   `json:"template_patterns" mapstructure:"template_patterns"`
		Apps             []AppEntry `json:"apps" mapstructure:"apps"`
		AppAlias         string     `json:"app_alias" mapstructure:"app_alias"`

		// Module-id keyed maps; see the package documentation.
		Paths   map[string]string    `json:"paths,omitempty" mapstructure:"-"`
		Bundles map[string][]string  `json:"bundles,omitempty" mapstructure:"-"`
		Shim    map[string]ShimEntry `json:"shim,omitempty" mapstructure:"-"`

		IncludeMainBundle bool         `json:"include_main_bundle" mapstructure:"include_main_bundle"`
		ForceMainBundle   bool         `json:"force_main_bundle" mapstructure:"force_main_bundle"`
		Compress          bool         `json:"compress" mapstructure:"compress"`
		Minify            bool         `json:"minify" mapstructure:"minify"`
		Output            OutputConfig `json:"output" mapstructure:"output"`
		Workers           int          `json:"workers" mapstructure:"workers"`
		Verbose           bool         `json:"verbose" mapstructure:"verbose"`

		// File is the config file the values were loaded from, empty when
		// only defaults apply.
		File string `json:"-" mapstructure:"-"`
	}

	// InvalidConfigError collects every semantic validation failure.
	// It wraps ErrInvalidConfig and each field error for errors.Is().
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		StaticDirs:       []string{"static"},
		TemplateDirs:     []string{"templates"},
		TemplatePatterns: []string{"**/*.html"},
		AppAlias:         DefaultAppAlias,
		Compress:         true,
		Output: OutputConfig{
			Dir: filepath.Join("static", "bundles"),
			URL: "/static/bundles/",
		},
		Workers: DefaultWorkers,
	}
}

// Validate checks the constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	file := c.File
	if file == "" {
		file = ConfigFileName
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(c.Bundles)) {
		if name == bundle.MainBundle {
			errs = append(errs, fmt.Errorf("%w: %w", bundle.ErrReservedBundle, &cueutil.ValidationError{
				FilePath:   file,
				CUEPath:    "bundles." + name,
				Message:    "bundle name is reserved for the implicit main bundle",
				Suggestion: "rename the bundle",
			}))
		}
	}

	seen := make(map[string]int, len(c.Apps))
	for i, app := range c.Apps {
		if first, dup := seen[app.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %w", ErrDuplicateApp, &cueutil.ValidationError{
				FilePath: file,
				CUEPath:  fmt.Sprintf("apps[%d].name", i),
				Message:  fmt.Sprintf("app %q already declared at apps[%d]", app.Name, first),
			}))
			continue
		}
		seen[app.Name] = i
	}

	if err := staticfiles.ValidatePatterns(c.TemplatePatterns); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Compress && c.Output.Dir == "" {
		errs = append(errs, &cueutil.ValidationError{
			FilePath: file,
			CUEPath:  "output.dir",
			Message:  "an output directory is required when compress is enabled",
		})
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Resolve makes every relative filesystem path absolute against baseDir.
func (c *Config) Resolve(baseDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	for i, d := range c.StaticDirs {
		c.StaticDirs[i] = abs(d)
	}
	for i, d := range c.TemplateDirs {
		c.TemplateDirs[i] = abs(d)
	}
	for i := range c.Apps {
		c.Apps[i].Path = abs(c.Apps[i].Path)
	}
	c.Output.Dir = abs(c.Output.Dir)
}

// AppLabels returns the app names in declaration order.
func (c *Config) AppLabels() []string {
	labels := make([]string, len(c.Apps))
	for i, app := range c.Apps {
		labels[i] = app.Name
	}
	return labels
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

