// SPDX-License-Identifier: MPL-2.0

package staticfiles

import (
	"os"
	"path/filepath"
	"slices"
)

// Finder locates static files under an ordered list of roots. The first
// root holding a regular file at the requested relative path wins.
type Finder struct {
	roots []string
}

// NewFinder creates a Finder over the configured static roots followed by
// the static directory of every installed app.
func NewFinder(staticDirs []string, apps *Apps) *Finder {
	roots := slices.Clone(staticDirs)
	roots = append(roots, apps.StaticDirs()...)
	return &Finder{roots: roots}
}

// Roots returns the searched roots in order.
func (f *Finder) Roots() []string {
	return slices.Clone(f.roots)
}

// Find resolves a slash-separated path relative to the static roots. Paths
// that are absolute or escape their root are never found.
func (f *Finder) Find(rel string) (string, bool) {
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return "", false
	}
	for _, root := range f.roots {
		candidate := filepath.Join(root, local)
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return candidate, true
	}
	return "", false
}
