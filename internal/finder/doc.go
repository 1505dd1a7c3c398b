// SPDX-License-Identifier: MPL-2.0

// Package finder discovers the AMD modules reachable from a project's
// templates.
//
// Templates are scanned for require() calls only; every identifier found
// seeds a worklist traversal that locates each module's file through a
// FileLocator, extracts its require() and define() dependencies and enqueues
// the identifiers it has not seen yet. Identifiers that cannot be located are
// treated as externally provided (shims, CDN scripts) and are skipped
// without error.
package finder
