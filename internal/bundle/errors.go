// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrRewrite is the sentinel wrapped by RewriteError.
	ErrRewrite = errors.New("bundle rewrite failed")
	// ErrReservedBundle is returned when a configured bundle uses the name of
	// the implicit main bundle.
	ErrReservedBundle = errors.New("reserved bundle name")
)

// RewriteError reports a bundle member that cannot be rewritten because its
// file contains no define call. It wraps ErrRewrite for errors.Is().
type RewriteError struct {
	// Module is the offending module id.
	Module string
	// Bundle is the bundle the module was assigned to (optional).
	Bundle string
}

// Error implements the error interface.
func (e *RewriteError) Error() string {
	if e.Bundle != "" {
		return fmt.Sprintf("module %s in bundle %s is not an AMD module: no define() call to rewrite", e.Module, e.Bundle)
	}
	return fmt.Sprintf("module %s is not an AMD module: no define() call to rewrite", e.Module)
}

// Unwrap returns ErrRewrite for errors.Is() compatibility.
func (e *RewriteError) Unwrap() error {
	return ErrRewrite
}

// ModuleID returns the offending module id.
func (e *RewriteError) ModuleID() string { return e.Module }

// BundleName returns the bundle the module was assigned to.
func (e *RewriteError) BundleName() string { return e.Bundle }
