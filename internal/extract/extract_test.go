// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"slices"
	"testing"
)

// callCases are shared by require and define: the %[1]s verb is replaced by
// the call keyword.
var callCases = []struct {
	name string
	src  string
	want []string
}{
	{"spaceless", `%[1]s(['dep1'], function() {});`, []string{"dep1"}},
	{"leading newline", "\n        %[1]s(['dep1'], function() {});\n", []string{"dep1"}},
	{"two dependencies", `%[1]s(['dep1','dep2'], function() {});`, []string{"dep1", "dep2"}},
	{"broken call", "\n%[1]s(a['dep1'], function() {});", nil},
	{"whitespace", "\n%[1]s( [ 'dep1' ] , function() {});", []string{"dep1"}},
	{"multiline bracket same line", "\n%[1]s([\n    'dep1'\n    ], function() {});", []string{"dep1"}},
	{"multiline bracket other line", "\n%[1]s(\n    ['dep1'],\n    function() {}\n);", []string{"dep1"}},
	{"mixed quotes", "\n%[1]s(['dep1',\"dep2\"], function() {});", []string{"dep1", "dep2"}},
	{"mismatched quotes", "\n%[1]s([\"dep1','dep2\"], function() {});", nil},
	{"greedy array", "\n%[1]s(['dep'], function(Dep) {\n    return Dep.getThingie()[0];\n});", []string{"dep"}},
	{"line comment", "\n%[1]s(\n    [\n        'dep1',\n        //'dep2'\n    ],\n    function() {}\n);", []string{"dep1"}},
	{"dynamic entries", "\n%[1]s(\n    [\n        dep_var1,\n        'dep_string',\n        dep_var2\n    ],\n    function() {}\n);", []string{"dep_string"}},
	{"identifier prefix", "\nsome_other_%[1]s(['dep1'], function() {});", nil},
	{"member call", "\nloader.%[1]s(['dep1'], function() {});", nil},
	{"after script tag", "\n<script>%[1]s(['dep'], function(Dep) {\n    return new Dep().getThingie()[0];\n});", []string{"dep"}},
	{"after semicolon", "\n;%[1]s(['dep'], function(Dep) {\n    return Dep.getThingie()[0];\n});", []string{"dep"}},
	{"duplicates kept", `%[1]s(['a', 'b', 'a'], function() {});`, []string{"a", "b", "a"}},
	{"trailing comma", `%[1]s(['a', 'b',], function() {});`, []string{"a", "b"}},
	{"plugin prefix kept verbatim", `%[1]s(['text!tpl/list.html'], function() {});`, []string{"text!tpl/list.html"}},
}

func TestRequireDependencies(t *testing.T) {
	t.Parallel()

	for _, tt := range callCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := fmt.Sprintf(tt.src, "require")
			got := Dependencies(src, Options{Require: true, Define: true})
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dependencies(%q) = %q, want %q", src, got, tt.want)
			}
		})
	}
}

func TestDefineDependencies(t *testing.T) {
	t.Parallel()

	for _, tt := range callCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := fmt.Sprintf(tt.src, "define")
			got := Dependencies(src, Options{Require: true, Define: true})
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dependencies(%q) = %q, want %q", src, got, tt.want)
			}
		})
	}
}

func TestDependencies_SelectsKinds(t *testing.T) {
	t.Parallel()

	src := "define(['a'], function() {\n  require(['b'], function() {});\n});"

	if got := Dependencies(src, Options{Require: true}); !slices.Equal(got, []string{"b"}) {
		t.Errorf("require only = %q, want [b]", got)
	}
	if got := Dependencies(src, Options{Define: true}); !slices.Equal(got, []string{"a"}) {
		t.Errorf("define only = %q, want [a]", got)
	}
	if got := Dependencies(src, Options{Require: true, Define: true}); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("both = %q, want [a b] in source order", got)
	}
	if got := Dependencies(src, Options{}); got != nil {
		t.Errorf("none = %q, want nil", got)
	}
}

func TestBoundaryIsHeuristic(t *testing.T) {
	t.Parallel()

	// A call inside a string literal still matches when preceded by a
	// boundary character. The guard only rejects identifier prefixes.
	src := `var s = "see require(['fake'])";`
	got := Dependencies(src, Options{Require: true})
	if !slices.Equal(got, []string{"fake"}) {
		t.Errorf("Dependencies(%q) = %q, want [fake]", src, got)
	}
}

func TestDefineCalls_Forms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		wantName  string
		wantNamed bool
		wantArray bool
		wantDeps  []string
	}{
		{"anonymous with deps", `define(['a', 'b'], function(a, b) {});`, "", false, true, []string{"a", "b"}},
		{"named with deps", `define("customname", ['x'], function(x) {});`, "customname", true, true, []string{"x"}},
		{"named single quotes", `define('customname', ['x'], function(x) {});`, "customname", true, true, []string{"x"}},
		{"named without array", `define("customname", function() {});`, "customname", true, false, nil},
		{"factory only", `define(function() { return {}; });`, "", false, false, nil},
		{"object literal", `define({ color: 'blue' });`, "", false, false, nil},
		{"name only", `define('customname');`, "customname", true, false, nil},
		{"name only with spaces", `define( "customname" )`, "customname", true, false, nil},
		{"string expression is not a name", `define('a' + b, function() {});`, "", false, false, nil},
		{"named multiline", "define(\n  'm',\n  [\n    'dep'\n  ],\n  function() {}\n);", "m", true, true, []string{"dep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := DefineCalls(tt.src)
			if len(calls) != 1 {
				t.Fatalf("DefineCalls() returned %d calls, want 1", len(calls))
			}
			call := calls[0]
			if call.Kind != KindDefine {
				t.Errorf("Kind = %v, want define", call.Kind)
			}
			if call.Name != tt.wantName || call.Named != tt.wantNamed {
				t.Errorf("Name, Named = %q, %v, want %q, %v", call.Name, call.Named, tt.wantName, tt.wantNamed)
			}
			if call.HasArray != tt.wantArray {
				t.Errorf("HasArray = %v, want %v", call.HasArray, tt.wantArray)
			}
			if !slices.Equal(call.Deps, tt.wantDeps) {
				t.Errorf("Deps = %q, want %q", call.Deps, tt.wantDeps)
			}
		})
	}
}

func TestDefineCalls_NoDefine(t *testing.T) {
	t.Parallel()

	src := "window.plain = true;\nfunction mydefine() {}\nmydefine(['x']);"
	if calls := DefineCalls(src); len(calls) != 0 {
		t.Errorf("DefineCalls() = %+v, want none", calls)
	}
}

func TestCalls_Offsets(t *testing.T) {
	t.Parallel()

	src := "define( ['a'], function() {});"
	calls := DefineCalls(src)
	if len(calls) != 1 {
		t.Fatalf("DefineCalls() returned %d calls, want 1", len(calls))
	}
	if calls[0].Offset != 0 {
		t.Errorf("Offset = %d, want 0", calls[0].Offset)
	}
	if got := src[calls[0].ArgsOffset:]; got[0] != '[' {
		t.Errorf("ArgsOffset points at %q, want the array", got)
	}

	src = "<script>require(['x']);</script>"
	calls = RequireCalls(src)
	if len(calls) != 1 || calls[0].Offset != len("<script>") {
		t.Errorf("RequireCalls(%q) = %+v, want one call at offset %d", src, calls, len("<script>"))
	}
}

func TestRequireCalls_DroppedEntries(t *testing.T) {
	t.Parallel()

	calls := RequireCalls("require([dep_var, 'dep_string', getDep()], fn)")
	if len(calls) != 1 {
		t.Fatalf("RequireCalls() returned %d calls, want 1", len(calls))
	}
	if !slices.Equal(calls[0].Deps, []string{"dep_string"}) {
		t.Errorf("Deps = %q, want [dep_string]", calls[0].Deps)
	}
	if !slices.Equal(calls[0].Dropped, []string{"dep_var", "getDep()"}) {
		t.Errorf("Dropped = %q, want [dep_var getDep()]", calls[0].Dropped)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindRequire.String() != "require" || KindDefine.String() != "define" || Kind(0).String() != "unknown" {
		t.Errorf("unexpected Kind strings: %s %s %s", KindRequire, KindDefine, Kind(0))
	}
}
