// SPDX-License-Identifier: MPL-2.0

// Package amd holds the module graph vocabulary shared by the finder and the
// bundler: module identifiers, the alias table and the module registry.
package amd

import (
	"slices"
	"strings"
)

// PluginSeparator separates a loader plugin from its resource, as in
// "text!app/templates/list.html".
const PluginSeparator = "!"

// Extension is appended to a module identifier to derive its file path.
const Extension = ".js"

// AliasTable remaps module identifiers before lookup, like the loader's
// "paths" option. Keys and values are module identifiers, not file paths.
type AliasTable map[string]string

// Canonicalize returns the lookup key for id. Everything from the first "!"
// onward is dropped: "text!tpl/list.html" is tracked as the "text" plugin
// module and the resource itself is never located.
func Canonicalize(id string) string {
	before, _, _ := strings.Cut(id, PluginSeparator)
	return strings.TrimSpace(before)
}

// Resolve applies the alias table to a canonical identifier. An exact key
// wins; otherwise the longest key that is a whole leading path segment
// sequence of id is replaced ("lib" maps "lib/x" but not "library/x").
func (t AliasTable) Resolve(id string) string {
	if len(t) == 0 {
		return id
	}
	if target, ok := t[id]; ok {
		return target
	}

	best := ""
	for prefix := range t {
		if len(prefix) > len(best) && strings.HasPrefix(id, prefix+"/") {
			best = prefix
		}
	}
	if best == "" {
		return id
	}
	return t[best] + id[len(best):]
}

// Keys returns the aliased identifiers in sorted order.
func (t AliasTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Normalize canonicalizes id and applies the alias table.
func (t AliasTable) Normalize(id string) string {
	return t.Resolve(Canonicalize(id))
}

// FilePath returns the static file path for a canonical identifier.
func FilePath(id string) string {
	return id + Extension
}
