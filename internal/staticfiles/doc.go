// SPDX-License-Identifier: MPL-2.0

// Package staticfiles provides the filesystem collaborators of module
// resolution: a static file locator over ordered roots, a template source
// provider that walks template directories, and the installed app table.
package staticfiles
