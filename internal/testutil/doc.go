// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// WriteTree lays out a project fixture from a path-to-content map;
// MustChdir and MustReadFile cover the remaining filesystem chores.
package testutil
