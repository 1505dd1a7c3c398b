// SPDX-License-Identifier: MPL-2.0

// Package output writes bundle artifacts to disk. Content is optionally
// minified, stored under a content-hashed file name, and written atomically.
package output
