// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the amdpack command tree.
//
// Handlers receive an *App, the composition root that loads the project
// configuration and assembles the module finder, the bundle compiler and
// the output sink for one invocation.
package cmd
