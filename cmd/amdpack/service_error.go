// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/amdpack/amdpack/internal/bundle"
	"github.com/amdpack/amdpack/internal/config"
	"github.com/amdpack/amdpack/internal/issue"
	"github.com/amdpack/amdpack/internal/output"
	"github.com/amdpack/amdpack/internal/staticfiles"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// serviceFailure tags err with a catalog entry and the matching exit code.
func serviceFailure(err error, issueID issue.Id) error {
	return &ExitError{Code: exitCodeFor(issueID), Err: newServiceError(err, issueID, "")}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a pipeline error onto the issue catalog and an exit
// code. Errors that match no entry are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	var id issue.Id
	switch {
	case errors.Is(err, bundle.ErrReservedBundle):
		id = issue.ReservedBundleNameId
	case errors.Is(err, bundle.ErrRewrite):
		id = issue.ModuleNotAMDId
	case errors.Is(err, staticfiles.ErrTemplateDirNotFound):
		id = issue.TemplateDirNotFoundId
	case errors.Is(err, output.ErrMinify):
		id = issue.MinifyFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		id = issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrPermission):
		id = issue.OutputWriteFailedId
	default:
		return err
	}
	return serviceFailure(err, id)
}

// renderServiceError prints any styled message first, then the optional
// issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
