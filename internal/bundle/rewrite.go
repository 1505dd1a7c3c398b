// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"strconv"
	"strings"

	"github.com/amdpack/amdpack/internal/amd"
	"github.com/amdpack/amdpack/internal/extract"
)

// Rewrite returns the module source with its module id inserted into every
// anonymous define call, so define(['a'], f) becomes define("id", ['a'], f)
// and the loader can address the module without fetching its file.
//
// Named modules are returned unchanged. Calls that already start with a
// quoted name are left alone, which makes Rewrite idempotent. A source
// without any define call yields a *RewriteError.
func Rewrite(m amd.Module) (string, error) {
	calls := extract.DefineCalls(m.Source)
	if len(calls) == 0 {
		return "", &RewriteError{Module: m.ID}
	}
	if m.Named {
		return m.Source, nil
	}

	var (
		sb   strings.Builder
		last int
		name = strconv.Quote(m.ID)
	)
	for _, call := range calls {
		if call.Named {
			continue
		}
		sb.WriteString(m.Source[last:call.Offset])
		sb.WriteString("define(")
		sb.WriteString(name)
		if call.ArgsOffset < len(m.Source) && m.Source[call.ArgsOffset] != ')' {
			sb.WriteString(", ")
		}
		last = call.ArgsOffset
	}
	sb.WriteString(m.Source[last:])
	return sb.String(), nil
}

// Render rewrites every member of b and joins them with newlines in member
// order.
func Render(b Bundle) (string, error) {
	parts := make([]string, 0, len(b.Modules))
	for _, m := range b.Modules {
		content, err := Rewrite(m)
		if err != nil {
			var rwErr *RewriteError
			if errors.As(err, &rwErr) {
				rwErr.Bundle = b.Name
			}
			return "", err
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), nil
}
