// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "./amdpack.cue"},
			expected: "failed to load configuration: ./amdpack.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "write bundle", Cause: errors.New("disk full")},
			expected: "failed to write bundle: disk full",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "read loader script",
				Resource:  "static/require.js",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to read loader script: static/require.js: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "compile", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "compile"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "load configuration",
				Resource:    "./amdpack.cue",
				Suggestions: []string{"Run 'amdpack config init'", "Check file permissions"},
			},
			contains: []string{"failed to load configuration", "• Run 'amdpack config init'", "• Check file permissions"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "verbose error chain",
			err: &ActionableError{
				Operation: "write bundle",
				Cause:     fmt.Errorf("rename: %w", errors.New("permission denied")),
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. rename: permission denied", "2. permission denied"},
		},
		{
			name:     "no chain when not verbose",
			err:      &ActionableError{Operation: "write bundle", Cause: errors.New("boom")},
			excludes: []string{"Error chain:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

type rewriteFailure struct{ module, bundle string }

func (e *rewriteFailure) Error() string      { return "no define() call in " + e.module }
func (e *rewriteFailure) ModuleID() string   { return e.module }
func (e *rewriteFailure) BundleName() string { return e.bundle }

func TestActionableError_FormatModuleScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		contains []string
		excludes []string
	}{
		{
			name: "module from cause chain",
			err: &ActionableError{
				Operation: "compile loader script",
				Cause:     fmt.Errorf("partition: %w", &rewriteFailure{module: "legacy/plain", bundle: "vendor"}),
			},
			contains: []string{"module: legacy/plain", "bundle: vendor"},
		},
		{
			name: "explicit module wins",
			err: &ActionableError{
				Operation: "minify bundle",
				Module:    "app/main",
				Cause:     &rewriteFailure{module: "other", bundle: "x"},
			},
			contains: []string{"module: app/main"},
			excludes: []string{"module: other", "bundle:"},
		},
		{
			name:     "no module",
			err:      &ActionableError{Operation: "write bundle", Cause: errors.New("disk full")},
			excludes: []string{"module:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(false)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("scan templates").
		WithResource("templates/").
		WithModule("app/main", "main").
		WithSuggestion("Check template_dirs").
		WithSuggestion("Create the directory").
		Wrap(cause).
		Build()

	if err.Operation != "scan templates" || err.Resource != "templates/" {
		t.Errorf("Build() = %+v", err)
	}
	if err.Module != "app/main" || err.Bundle != "main" {
		t.Errorf("Module, Bundle = %q, %q", err.Module, err.Bundle)
	}
	if len(err.Suggestions) != 2 {
		t.Errorf("Suggestions = %v, want 2", err.Suggestions)
	}
	if !errors.Is(err, cause) {
		t.Error("built error should wrap the cause")
	}

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return a nil error")
	}

	var ae *ActionableError
	if !errors.As(NewErrorContext().WithOperation("x").BuildError(), &ae) {
		t.Error("BuildError() should return an *ActionableError")
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("wrapping nil should return nil")
	}
	cause := errors.New("boom")
	if got := WrapWithContext(cause, "read template", "a.html").Error(); got != "failed to read template: a.html: boom" {
		t.Errorf("WrapWithContext() = %q", got)
	}
}
