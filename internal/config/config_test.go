// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amdpack/amdpack/internal/bundle"
	"github.com/amdpack/amdpack/internal/issue"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := load(t, LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := DefaultConfig()
	want.Resolve(dir)
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
base_url: "/assets/"
static_dirs: ["public", "/abs/static"]
template_dirs: ["views"]
apps: [
	{name: "shop", path: "apps/shop"},
]
app_alias: "scripts"
paths: {
	"jquery.ui": "vendor/jquery-ui"
	App: "lib/App"
}
bundles: {
	Vendor: ["jquery.ui", "lib/a"]
	core: ["app/main"]
}
shim: {
	"jquery.ui": {deps: ["jquery"], exports: "jQuery.ui"}
}
compress: true
minify: true
include_main_bundle: true
output: {dir: "public/bundles", url: "/assets/bundles/"}
workers: 8
`)

	cfg, err := load(t, LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := &Config{
		BaseURL:           "/assets/",
		StaticDirs:        []string{filepath.Join(dir, "public"), "/abs/static"},
		TemplateDirs:      []string{filepath.Join(dir, "views")},
		TemplatePatterns:  []string{"**/*.html"},
		Apps:              []AppEntry{{Name: "shop", Path: filepath.Join(dir, "apps", "shop")}},
		AppAlias:          "scripts",
		Paths:             map[string]string{"jquery.ui": "vendor/jquery-ui", "App": "lib/App"},
		Bundles:           map[string][]string{"Vendor": {"jquery.ui", "lib/a"}, "core": {"app/main"}},
		Shim:              map[string]ShimEntry{"jquery.ui": {Deps: []string{"jquery"}, Exports: "jQuery.ui"}},
		Compress:          true,
		Minify:            true,
		IncludeMainBundle: true,
		Output:            OutputConfig{Dir: filepath.Join(dir, "public", "bundles"), URL: "/assets/bundles/"},
		Workers:           8,
		File:              path,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AppLabels(); len(got) != 1 || got[0] != "shop" {
		t.Errorf("AppLabels() = %v", got)
	}
}

func TestLoad_CustomPath_NotFound(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "load configuration" || len(ae.Suggestions) == 0 {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"wrong type", `compress: "yes"`, "compress"},
		{"unknown field", `bundle_dir: "x"`, "bundle_dir"},
		{"negative workers", `workers: -2`, "workers"},
		{"bad app name", `apps: [{name: "my app", path: "x"}]`, "apps"},
		{"syntax error", `base_url: "/static/`, ConfigFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := load(t, LoadOptions{Dir: dir})
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ReservedBundleName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `bundles: {main: ["a"]}`)
	_, err := load(t, LoadOptions{Dir: dir})
	if !errors.Is(err, bundle.ErrReservedBundle) {
		t.Errorf("Load() error = %v, want ErrReservedBundle", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `compress: true
base_url: "/from-file/"
`)
	t.Setenv("AMDPACK_COMPRESS", "false")
	t.Setenv("AMDPACK_OUTPUT_URL", "https://cdn.example.com/b/")
	t.Setenv("AMDPACK_WORKERS", "2")

	cfg, err := load(t, LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Compress {
		t.Error("Compress = true, want env override false")
	}
	if cfg.Output.URL != "https://cdn.example.com/b/" {
		t.Errorf("Output.URL = %q", cfg.Output.URL)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.BaseURL != "/from-file/" {
		t.Errorf("BaseURL = %q, want file value", cfg.BaseURL)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{Dir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Apps = []AppEntry{{Name: "a", Path: "x"}, {Name: "a", Path: "y"}}
	cfg.TemplatePatterns = []string{"[bad"}
	cfg.Output.Dir = ""

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() error = %v, want *InvalidConfigError", err)
	}
	if len(invalid.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", invalid.FieldErrors)
	}
	if !errors.Is(err, ErrDuplicateApp) {
		t.Error("Validate() should report the duplicate app")
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestGenerateCUE_Loads(t *testing.T) {
	t.Parallel()

	src := DefaultConfig()
	src.Apps = []AppEntry{{Name: "shop", Path: "apps/shop"}}
	src.Paths = map[string]string{"jquery.ui": "vendor/jquery-ui"}
	src.Bundles = map[string][]string{"vendor": {"jquery", "lib/a"}}
	src.Shim = map[string]ShimEntry{"jquery": {Exports: "$"}, "plugin": {Deps: []string{"jquery"}}}
	src.Minify = true

	dir := t.TempDir()
	path := writeConfig(t, dir, GenerateCUE(src))

	got, err := load(t, LoadOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Load() of generated config error: %v", err)
	}
	src.Resolve(dir)
	src.File = path
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("generated config mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "project")
	path, created, err := CreateDefaultConfig(dir)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = (%q, %v, %v)", path, created, err)
	}
	if _, err := load(t, LoadOptions{Dir: dir}); err != nil {
		t.Errorf("default config does not load: %v", err)
	}

	_, created, err = CreateDefaultConfig(dir)
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = (%v, %v), want existing file kept", created, err)
	}
}
