// SPDX-License-Identifier: MPL-2.0

package amd

import "slices"

type (
	// Module is one AMD module discovered during resolution.
	Module struct {
		// ID is the declared name for named defines, otherwise the identifier
		// the module was located under.
		ID string
		// Location is the identifier used to locate the backing file.
		Location string
		// Path is the file the module was read from.
		Path string
		// Dependencies are the raw identifiers from the module's own require
		// and define calls in source order. Duplicates are kept.
		Dependencies []string
		// Named reports whether the file used define("id", ...).
		Named bool
		// Source is the file content the module was extracted from.
		Source string
	}

	// Registry is the ordered, id-unique result of a resolution run.
	Registry struct {
		modules  []Module
		index    map[string]int
		scripts  []string
		isScript map[string]bool
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		index:    make(map[string]int),
		isScript: make(map[string]bool),
	}
}

// Add appends m unless a module with the same ID is already registered.
// It reports whether m was added.
func (r *Registry) Add(m Module) bool {
	if _, exists := r.index[m.ID]; exists {
		return false
	}
	r.index[m.ID] = len(r.modules)
	r.modules = append(r.modules, m)
	return true
}

// AddScript records a located file that contains no define call. Such files
// are reachable but are not modules.
func (r *Registry) AddScript(id string) {
	if r.isScript[id] {
		return
	}
	r.isScript[id] = true
	r.scripts = append(r.scripts, id)
}

// Get returns the module registered under id.
func (r *Registry) Get(id string) (Module, bool) {
	i, ok := r.index[id]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Has reports whether a module is registered under id.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IsScript reports whether id was located as a plain, non-AMD script.
func (r *Registry) IsScript(id string) bool {
	return r.isScript[id]
}

// Modules returns the registered modules in discovery order.
func (r *Registry) Modules() []Module {
	return slices.Clone(r.modules)
}

// IDs returns the registered module ids in discovery order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.modules))
	for i, m := range r.modules {
		ids[i] = m.ID
	}
	return ids
}

// Scripts returns the located plain scripts in discovery order.
func (r *Registry) Scripts() []string {
	return slices.Clone(r.scripts)
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}
