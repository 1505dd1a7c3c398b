// SPDX-License-Identifier: MPL-2.0

package amd

import (
	"slices"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"app/widgets/list", "app/widgets/list"},
		{"text!app/templates/list.html", "text"},
		{"css!style.css!strip", "css"},
		{" app/main ", "app/main"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAliasTable_Resolve(t *testing.T) {
	t.Parallel()

	aliases := AliasTable{
		"jquery":   "lib/jquery-2.1.4",
		"app":      "static/app",
		"app/core": "core/src",
	}

	tests := []struct {
		in   string
		want string
	}{
		{"jquery", "lib/jquery-2.1.4"},
		{"app/main", "static/app/main"},
		{"app/core/x", "core/src/x"},
		{"app", "static/app"},
		{"application/x", "application/x"},
		{"other", "other"},
	}

	for _, tt := range tests {
		if got := aliases.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	var empty AliasTable
	if got := empty.Resolve("x/y"); got != "x/y" {
		t.Errorf("nil table Resolve = %q, want unchanged", got)
	}
}

func TestAliasTable_Normalize(t *testing.T) {
	t.Parallel()

	aliases := AliasTable{"text": "lib/requirejs-text"}
	if got := aliases.Normalize("text!tpl/a.html"); got != "lib/requirejs-text" {
		t.Errorf("Normalize = %q, want lib/requirejs-text", got)
	}
	if got := aliases.Keys(); !slices.Equal(got, []string{"text"}) {
		t.Errorf("Keys = %q", got)
	}
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	if got := FilePath("app/main"); got != "app/main.js" {
		t.Errorf("FilePath = %q, want app/main.js", got)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if !r.Add(Module{ID: "a", Location: "a"}) {
		t.Fatal("first Add(a) = false")
	}
	if !r.Add(Module{ID: "b", Location: "b"}) {
		t.Fatal("Add(b) = false")
	}
	if r.Add(Module{ID: "a", Location: "other"}) {
		t.Error("duplicate Add(a) = true, want false")
	}

	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	if got := r.IDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("IDs = %q, want [a b]", got)
	}
	m, ok := r.Get("a")
	if !ok || m.Location != "a" {
		t.Errorf("Get(a) = %+v, %v, want first registration", m, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
	if !r.Has("b") || r.Has("c") {
		t.Error("Has reported wrong membership")
	}

	r.AddScript("plain")
	r.AddScript("plain")
	if !r.IsScript("plain") || r.IsScript("a") {
		t.Error("IsScript reported wrong membership")
	}
	if got := r.Scripts(); !slices.Equal(got, []string{"plain"}) {
		t.Errorf("Scripts = %q, want [plain]", got)
	}

	mods := r.Modules()
	mods[0].ID = "mutated"
	if got, _ := r.Get("a"); got.ID != "a" {
		t.Error("Modules() exposed internal storage")
	}
}
