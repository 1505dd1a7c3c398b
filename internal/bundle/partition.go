// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"fmt"
	"slices"

	"github.com/amdpack/amdpack/internal/amd"
)

// MainBundle is the name of the implicit bundle holding every module not
// claimed by a configured bundle.
const MainBundle = "main"

type (
	// Bundle is a named group of modules emitted as one artifact.
	Bundle struct {
		Name    string
		Modules []amd.Module
	}

	// PartitionOptions configures PartitionIntoBundles.
	PartitionOptions struct {
		// Bundles maps a bundle name to its explicit member ids.
		Bundles map[string][]string
		// Shims lists module ids that are loaded as plain scripts and must
		// never be bundled.
		Shims []string
		// ForceMain emits the main bundle even when no module is left for it.
		ForceMain bool
		// Aliases maps configured member and shim ids onto registry ids the
		// same way the finder does.
		Aliases amd.AliasTable
	}

	// Partition is the outcome of PartitionIntoBundles.
	Partition struct {
		// Bundles are the configured bundles in name order.
		Bundles []Bundle
		// Main is the implicit bundle, nil when it was not emitted.
		Main *Bundle
		// Skipped lists configured member ids that were not in the registry
		// or were already claimed by an earlier bundle.
		Skipped []string
		// Excluded lists registered module ids left out because they are shims.
		Excluded []string
	}
)

// PartitionIntoBundles assigns every module of reg to exactly one bundle.
// Configured bundles are processed in sorted name order and keep the
// declaration order of their member lists; the remaining modules form the
// main bundle in discovery order. A configured member that was located as a
// plain script (no define call) yields a *RewriteError.
func PartitionIntoBundles(reg *amd.Registry, opts PartitionOptions) (Partition, error) {
	var (
		part    Partition
		shims   = make(map[string]bool, len(opts.Shims))
		claimed = make(map[string]bool)
	)
	for _, id := range opts.Shims {
		shims[id] = true
		shims[opts.Aliases.Normalize(id)] = true
	}

	names := make([]string, 0, len(opts.Bundles))
	for name := range opts.Bundles {
		if name == MainBundle {
			return Partition{}, fmt.Errorf("%w: %q is the implicit bundle", ErrReservedBundle, name)
		}
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		b := Bundle{Name: name}
		for _, member := range opts.Bundles[name] {
			id := registryID(reg, opts.Aliases, member)
			if shims[member] || shims[id] {
				continue
			}
			if claimed[id] {
				part.Skipped = append(part.Skipped, member)
				continue
			}
			m, ok := reg.Get(id)
			if !ok {
				if reg.IsScript(id) {
					return Partition{}, &RewriteError{Module: id, Bundle: name}
				}
				part.Skipped = append(part.Skipped, member)
				continue
			}
			claimed[id] = true
			b.Modules = append(b.Modules, m)
		}
		part.Bundles = append(part.Bundles, b)
	}

	var rest []amd.Module
	for _, m := range reg.Modules() {
		switch {
		case shims[m.ID]:
			part.Excluded = append(part.Excluded, m.ID)
		case !claimed[m.ID]:
			rest = append(rest, m)
		}
	}
	if len(rest) > 0 || opts.ForceMain {
		part.Main = &Bundle{Name: MainBundle, Modules: rest}
	}
	return part, nil
}

// registryID returns the id a configured member is registered under: the
// normalized id when the finder located it, otherwise the id as written,
// which matches modules registered under a declared name.
func registryID(reg *amd.Registry, aliases amd.AliasTable, member string) string {
	id := aliases.Normalize(member)
	if reg.Has(id) || reg.IsScript(id) {
		return id
	}
	return member
}

// All returns the configured bundles followed by the main bundle, if any.
func (p Partition) All() []Bundle {
	all := slices.Clone(p.Bundles)
	if p.Main != nil {
		all = append(all, *p.Main)
	}
	return all
}

// IDs returns the member ids of b in order.
func (b Bundle) IDs() []string {
	ids := make([]string, len(b.Modules))
	for i, m := range b.Modules {
		ids[i] = m.ID
	}
	return ids
}
