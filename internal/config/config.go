// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amdpack/amdpack/internal/issue"
	"github.com/amdpack/amdpack/pkg/cueutil"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "amdpack"
	// ConfigFileName is the project config file name.
	ConfigFileName = "amdpack.cue"
	// EnvPrefix prefixes environment overrides (AMDPACK_COMPRESS, AMDPACK_OUTPUT_DIR).
	EnvPrefix = "AMDPACK"
)

//go:embed amdpack_schema.cue
var configSchema string

// loadWithOptions reads the config file selected by opts, merges it over the
// defaults, applies environment overrides and validates the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	baseDir := opts.Dir
	if baseDir == "" {
		baseDir = "."
	}

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'amdpack config init' to create one").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
	} else if candidate := filepath.Join(baseDir, ConfigFileName); fileExists(candidate) {
		path = candidate
	}

	var raw map[string]any
	if path != "" {
		var err error
		raw, err = loadCUEIntoViper(v, path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'amdpack config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		baseDir = filepath.Dir(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := decodeModuleMaps(&cfg, raw); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			Wrap(err).
			BuildError()
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Run 'amdpack config show' to see the effective configuration").
			Wrap(err).
			BuildError()
	}

	cfg.Resolve(baseDir)
	return &cfg, nil
}

// setDefaults registers every scalar key with Viper so AutomaticEnv can
// override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("static_dirs", d.StaticDirs)
	v.SetDefault("template_dirs", d.TemplateDirs)
	v.SetDefault("template_patterns", d.TemplatePatterns)
	v.SetDefault("app_alias", d.AppAlias)
	v.SetDefault("include_main_bundle", d.IncludeMainBundle)
	v.SetDefault("force_main_bundle", d.ForceMainBundle)
	v.SetDefault("compress", d.Compress)
	v.SetDefault("minify", d.Minify)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.url", d.Output.URL)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("verbose", d.Verbose)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges everything except the module-id maps into Viper. The
// decoded document is returned for decodeModuleMaps.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](
		configSchema,
		data,
		"#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}

	raw := *result.Value
	merged := make(map[string]any, len(raw))
	for k, val := range raw {
		switch k {
		case "paths", "bundles", "shim":
			continue
		}
		merged[k] = val
	}
	if err := v.MergeConfigMap(merged); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return raw, nil
}

// decodeModuleMaps fills the module-id keyed maps from the raw document.
func decodeModuleMaps(cfg *Config, raw map[string]any) error {
	targets := []struct {
		key string
		dst any
	}{
		{"paths", &cfg.Paths},
		{"bundles", &cfg.Bundles},
		{"shim", &cfg.Shim},
	}
	for _, t := range targets {
		val, ok := raw[t.key]
		if !ok {
			continue
		}
		if err := mapstructure.Decode(val, t.dst); err != nil {
			return fmt.Errorf("decoding %s: %w", t.key, err)
		}
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default amdpack.cue into dir unless one
// exists. It reports whether a file was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	cfgPath := filepath.Join(dir, ConfigFileName)
	if fileExists(cfgPath) {
		return cfgPath, false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}
