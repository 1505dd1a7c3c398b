// SPDX-License-Identifier: MPL-2.0

// Package config handles project configuration using Viper with CUE as the file format.
//
// Configuration is loaded from amdpack.cue in the project directory, or from
// the file given explicitly. The file is validated against an embedded CUE
// schema (amdpack_schema.cue), merged over the built-in defaults, and may be
// overridden per key with AMDPACK_* environment variables.
//
// Module-id keyed maps (paths, bundles, shim) are decoded straight from the
// CUE value because Viper folds key case and splits keys on dots, both of
// which would corrupt module identifiers like "jquery.ui".
package config
