// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"regexp"
	"slices"
)

const (
	// KindRequire is a require([...], callback) call.
	KindRequire Kind = iota + 1
	// KindDefine is any form of define(...) call.
	KindDefine
)

var (
	// requirePattern captures the dependency array of a require call. Only an
	// array that directly follows the opening parenthesis is recognized.
	requirePattern = regexp.MustCompile(`(?:^|[;\s>])(require)\s*\(\s*(\[[^\]]*\])`)

	// definePattern matches every define call. The optional name (single or
	// double quoted) and the optional dependency array are captured when they
	// appear as the leading arguments. A name must be followed by a comma or
	// close the call, as in define('name').
	definePattern = regexp.MustCompile(`(?:^|[;\s>])(define)\s*\(\s*(?:(?:'([^'\n]*)'|"([^"\n]*)")\s*(?:,\s*|(\))))?(\[[^\]]*\])?`)
)

type (
	// Kind distinguishes require calls from define calls.
	Kind int

	// Call is one require or define invocation found in source text.
	Call struct {
		// Kind is the kind of call.
		Kind Kind
		// Offset is the byte offset of the "require"/"define" keyword.
		Offset int
		// ArgsOffset is the byte offset of the first argument, after the
		// opening parenthesis and any whitespace.
		ArgsOffset int
		// Name is the declared module name of a named define call.
		Name string
		// Named reports whether the call declared a module name.
		Named bool
		// HasArray reports whether a dependency array was captured.
		HasArray bool
		// Array is the raw text of the captured dependency array.
		Array string
		// Deps are the literal dependency identifiers in array order.
		Deps []string
		// Dropped are the array entries that were not string literals.
		Dropped []string
	}

	// Options selects which call kinds Dependencies collects.
	Options struct {
		Require bool
		Define  bool
	}
)

// String returns the call keyword.
func (k Kind) String() string {
	switch k {
	case KindRequire:
		return "require"
	case KindDefine:
		return "define"
	default:
		return "unknown"
	}
}

// RequireCalls returns every require call in src that carries a dependency
// array, in source order.
func RequireCalls(src string) []Call {
	matches := requirePattern.FindAllStringSubmatchIndex(src, -1)
	calls := make([]Call, 0, len(matches))
	for _, m := range matches {
		array := src[m[4]:m[5]]
		deps, dropped := ParseArray(array)
		calls = append(calls, Call{
			Kind:       KindRequire,
			Offset:     m[2],
			ArgsOffset: m[4],
			HasArray:   true,
			Array:      array,
			Deps:       deps,
			Dropped:    dropped,
		})
	}
	return calls
}

// DefineCalls returns every define call in src, in source order. Calls whose
// first argument is neither a name nor an array (define(function ...) or
// define({...})) are returned with no dependencies so callers can tell a
// module without dependencies apart from a file that defines nothing.
func DefineCalls(src string) []Call {
	matches := definePattern.FindAllStringSubmatchIndex(src, -1)
	calls := make([]Call, 0, len(matches))
	for _, m := range matches {
		call := Call{
			Kind:       KindDefine,
			Offset:     m[2],
			ArgsOffset: argsOffset(src, m[3]),
		}
		switch {
		case m[4] >= 0:
			call.Name, call.Named = src[m[4]:m[5]], true
		case m[6] >= 0:
			call.Name, call.Named = src[m[6]:m[7]], true
		}
		// A name that closes the call leaves nothing to capture after it.
		if m[8] < 0 && m[10] >= 0 {
			call.HasArray = true
			call.Array = src[m[10]:m[11]]
			call.Deps, call.Dropped = ParseArray(call.Array)
		}
		calls = append(calls, call)
	}
	return calls
}

// Dependencies returns the dependencies of the selected call kinds in
// syntactic order. Duplicates are preserved.
func Dependencies(src string, opts Options) []string {
	var deps []string
	for _, call := range Calls(src, opts) {
		deps = append(deps, call.Deps...)
	}
	return deps
}

// Calls returns the selected call kinds merged in source order.
func Calls(src string, opts Options) []Call {
	var calls []Call
	if opts.Require {
		calls = append(calls, RequireCalls(src)...)
	}
	if opts.Define {
		calls = append(calls, DefineCalls(src)...)
	}
	slices.SortStableFunc(calls, func(a, b Call) int {
		return a.Offset - b.Offset
	})
	return calls
}

// argsOffset skips the opening parenthesis and whitespace after the keyword
// ending at end.
func argsOffset(src string, end int) int {
	i := end
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '(' {
		i++
	}
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
