// SPDX-License-Identifier: MPL-2.0

// Package bundle partitions a resolved module registry into named bundles,
// rewrites anonymous modules so they carry their module id, and produces the
// runtime loader configuration that advertises where each bundle lives.
//
// Configured bundles claim their members first, in sorted bundle-name order;
// whatever is left forms the implicit "main" bundle. Shims are never bundled.
// A bundle member without a define call is a configuration error and aborts
// the build before anything is written.
package bundle
