// SPDX-License-Identifier: MPL-2.0

package staticfiles

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestApps(t *testing.T) {
	t.Parallel()

	apps := NewApps(App{Name: "shop", Path: "/srv/shop"}, App{Name: "blog", Path: "/srv/blog"}, App{Name: "shop", Path: "/other"}, App{})

	if !apps.IsInstalled("shop") || !apps.IsInstalled("blog") {
		t.Error("IsInstalled() = false for a declared app")
	}
	if apps.IsInstalled("forum") {
		t.Error("IsInstalled(forum) = true, want false")
	}
	if got := apps.Labels(); !slices.Equal(got, []string{"shop", "blog"}) {
		t.Errorf("Labels() = %v", got)
	}
	want := []string{filepath.Join("/srv/shop", "static"), filepath.Join("/srv/blog", "static")}
	if got := apps.StaticDirs(); !slices.Equal(got, want) {
		t.Errorf("StaticDirs() = %v, want %v", got, want)
	}

	var none *Apps
	if none.IsInstalled("shop") || none.Labels() != nil {
		t.Error("nil Apps should report nothing installed")
	}
}

func TestFinder_Find(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	appDir := filepath.Join(root, "apps", "shop")

	writeFile(t, filepath.Join(first, "lib", "a.js"), "first")
	writeFile(t, filepath.Join(second, "lib", "a.js"), "second")
	writeFile(t, filepath.Join(second, "lib", "b.js"), "b")
	writeFile(t, filepath.Join(appDir, "static", "shop", "js", "main.js"), "main")
	writeFile(t, filepath.Join(root, "secret.js"), "outside")
	if err := os.MkdirAll(filepath.Join(first, "dir.js"), 0o755); err != nil {
		t.Fatal(err)
	}

	f := NewFinder([]string{first, second}, NewApps(App{Name: "shop", Path: appDir}))

	tests := []struct {
		rel    string
		want   string
		wantOK bool
	}{
		{"lib/a.js", filepath.Join(first, "lib", "a.js"), true},
		{"lib/b.js", filepath.Join(second, "lib", "b.js"), true},
		{"shop/js/main.js", filepath.Join(appDir, "static", "shop", "js", "main.js"), true},
		{"missing.js", "", false},
		{"dir.js", "", false},
		{"../secret.js", "", false},
		{"lib/../../secret.js", "", false},
		{filepath.Join(root, "secret.js"), "", false},
	}
	for _, tt := range tests {
		got, ok := f.Find(tt.rel)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Find(%q) = (%q, %v), want (%q, %v)", tt.rel, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTemplates_TemplateFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tplDir := filepath.Join(root, "templates")
	appDir := filepath.Join(root, "apps", "blog")

	writeFile(t, filepath.Join(tplDir, "index.html"), "")
	writeFile(t, filepath.Join(tplDir, "partials", "nav.html"), "")
	writeFile(t, filepath.Join(tplDir, "notes.txt"), "")
	writeFile(t, filepath.Join(appDir, "templates", "blog", "post.html"), "")

	apps := NewApps(App{Name: "blog", Path: appDir}, App{Name: "empty", Path: filepath.Join(root, "apps", "empty")})
	tpl, err := NewTemplates([]string{tplDir}, apps, []string{"**/*.html"})
	if err != nil {
		t.Fatalf("NewTemplates() error: %v", err)
	}

	got, err := tpl.TemplateFiles()
	if err != nil {
		t.Fatalf("TemplateFiles() error: %v", err)
	}
	want := []string{
		filepath.Join(appDir, "templates", "blog", "post.html"),
		filepath.Join(tplDir, "index.html"),
		filepath.Join(tplDir, "partials", "nav.html"),
	}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("TemplateFiles() = %v, want %v", got, want)
	}
}

func TestTemplates_DefaultPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), "")
	writeFile(t, filepath.Join(dir, "b.txt"), "")

	tpl, err := NewTemplates([]string{dir}, nil, nil)
	if err != nil {
		t.Fatalf("NewTemplates() error: %v", err)
	}
	got, err := tpl.TemplateFiles()
	if err != nil {
		t.Fatalf("TemplateFiles() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("TemplateFiles() = %v, want both files", got)
	}
}

func TestTemplates_MissingDir(t *testing.T) {
	t.Parallel()

	tpl, err := NewTemplates([]string{filepath.Join(t.TempDir(), "nope")}, nil, nil)
	if err != nil {
		t.Fatalf("NewTemplates() error: %v", err)
	}
	if _, err := tpl.TemplateFiles(); !errors.Is(err, ErrTemplateDirNotFound) {
		t.Errorf("TemplateFiles() error = %v, want ErrTemplateDirNotFound", err)
	}
}

func TestValidatePatterns(t *testing.T) {
	t.Parallel()

	if err := ValidatePatterns([]string{"**/*.html", "*.tpl"}); err != nil {
		t.Errorf("ValidatePatterns() error = %v", err)
	}
	if err := ValidatePatterns([]string{"[unclosed"}); err == nil {
		t.Error("ValidatePatterns([unclosed) succeeded, want error")
	}
	if _, err := NewTemplates(nil, nil, []string{"a/[b"}); err == nil {
		t.Error("NewTemplates() with a bad pattern succeeded, want error")
	}
}
