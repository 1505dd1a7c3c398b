// SPDX-License-Identifier: MPL-2.0

package staticfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultTemplatePattern matches every file below a template directory.
const DefaultTemplatePattern = "**/*"

// ErrTemplateDirNotFound is returned when a configured template directory
// does not exist.
var ErrTemplateDirNotFound = errors.New("template directory not found")

// Templates lists template files below a set of directories.
type Templates struct {
	dirs     []string
	appDirs  []string
	patterns []string
}

// NewTemplates creates a template source over the configured directories and
// the templates directory of every installed app. Patterns are doublestar
// globs matched against slash-separated paths relative to each directory;
// an empty list means DefaultTemplatePattern. Invalid patterns are rejected.
func NewTemplates(dirs []string, apps *Apps, patterns []string) (*Templates, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultTemplatePattern}
	}
	if err := ValidatePatterns(patterns); err != nil {
		return nil, err
	}
	return &Templates{
		dirs:     slices.Clone(dirs),
		appDirs:  apps.TemplateDirs(),
		patterns: slices.Clone(patterns),
	}, nil
}

// ValidatePatterns checks that every pattern is a valid doublestar glob.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid template pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// TemplateFiles returns every matching regular file, sorted by path. A
// missing configured directory is an error; apps without a templates
// directory are skipped.
func (t *Templates) TemplateFiles() ([]string, error) {
	var files []string
	for _, dir := range t.dirs {
		found, err := t.walk(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateDirNotFound, dir)
		}
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	for _, dir := range t.appDirs {
		found, err := t.walk(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func (t *Templates) walk(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if t.matches(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk templates in %s: %w", dir, err)
	}
	return files, nil
}

func (t *Templates) matches(rel string) bool {
	for _, pat := range t.patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}
