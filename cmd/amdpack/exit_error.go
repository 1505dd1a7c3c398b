// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/amdpack/amdpack/internal/issue"
)

// Process exit codes. Scripts driving a build can tell a broken
// configuration from a failed bundle from an unreadable or unwritable file.
const (
	exitFailure = 1
	exitConfig  = 2
	exitBundle  = 3
	exitIO      = 4
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps an issue catalog entry onto a process exit code.
func exitCodeFor(id issue.Id) int {
	switch id {
	case issue.ConfigLoadFailedId:
		return exitConfig
	case issue.ReservedBundleNameId, issue.ModuleNotAMDId, issue.MinifyFailedId:
		return exitBundle
	case issue.ScriptNotFoundId, issue.TemplateDirNotFoundId, issue.OutputWriteFailedId:
		return exitIO
	default:
		return exitFailure
	}
}
