// SPDX-License-Identifier: MPL-2.0

package staticfiles

import (
	"path/filepath"
	"slices"
)

const (
	// StaticDirName is the per-app directory holding static assets.
	StaticDirName = "static"
	// TemplatesDirName is the per-app directory holding HTML templates.
	TemplatesDirName = "templates"
)

type (
	// App is an installed application with its own static and template
	// directories.
	App struct {
		Name string
		Path string
	}

	// Apps is the installed app table in declaration order.
	Apps struct {
		apps  []App
		index map[string]int
	}
)

// NewApps builds the app table. Later entries with a duplicate name are
// ignored.
func NewApps(apps ...App) *Apps {
	a := &Apps{index: make(map[string]int, len(apps))}
	for _, app := range apps {
		if app.Name == "" {
			continue
		}
		if _, dup := a.index[app.Name]; dup {
			continue
		}
		a.index[app.Name] = len(a.apps)
		a.apps = append(a.apps, app)
	}
	return a
}

// IsInstalled reports whether name is an installed app label.
func (a *Apps) IsInstalled(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.index[name]
	return ok
}

// Labels returns the app names in declaration order.
func (a *Apps) Labels() []string {
	if a == nil {
		return nil
	}
	labels := make([]string, len(a.apps))
	for i, app := range a.apps {
		labels[i] = app.Name
	}
	return labels
}

// StaticDirs returns the static directory of every app.
func (a *Apps) StaticDirs() []string {
	return a.dirs(StaticDirName)
}

// TemplateDirs returns the templates directory of every app.
func (a *Apps) TemplateDirs() []string {
	return a.dirs(TemplatesDirName)
}

func (a *Apps) dirs(name string) []string {
	if a == nil {
		return nil
	}
	dirs := make([]string, 0, len(a.apps))
	for _, app := range a.apps {
		dirs = append(dirs, filepath.Join(app.Path, name))
	}
	return slices.Clip(dirs)
}
