// SPDX-License-Identifier: MPL-2.0

package finder

import "fmt"

const (
	// SeverityInfo marks expected, non-actionable events such as a module
	// that has no file on disk.
	SeverityInfo Severity = "info"
	// SeverityWarning marks events a developer probably wants to look at.
	SeverityWarning Severity = "warning"

	// CodeModuleNotFound is reported when an identifier has no backing file.
	CodeModuleNotFound = "module_not_found"
	// CodeDynamicDependency is reported for dependency-array entries that are
	// not string literals and were dropped.
	CodeDynamicDependency = "dynamic_dependency_dropped"
	// CodeDuplicateModule is reported when two files register the same id.
	CodeDuplicateModule = "duplicate_module"
	// CodePlainScript is reported when a located file has no define call.
	CodePlainScript = "plain_script"
)

type (
	// Severity is the diagnostic level.
	Severity string

	// Diagnostic is a structured, non-fatal resolution event returned to the
	// caller instead of being written to stderr.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "module_not_found").
		Code string
		// Message is the human-readable description.
		Message string
		// Module is the module identifier involved (optional).
		Module string
		// Path is the file associated with this diagnostic (optional).
		Path string
	}
)

func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s [%s] %s (%s)", d.Severity, d.Code, d.Message, d.Path)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

func notFound(id string) Diagnostic {
	return Diagnostic{
		Severity: SeverityInfo,
		Code:     CodeModuleNotFound,
		Message:  fmt.Sprintf("module %q has no file and is assumed to be provided externally", id),
		Module:   id,
	}
}

func dynamicDependency(id, path, entry string) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeDynamicDependency,
		Message:  fmt.Sprintf("dependency entry %s is not a string literal and was skipped", entry),
		Module:   id,
		Path:     path,
	}
}

func duplicateModule(id, path string) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeDuplicateModule,
		Message:  fmt.Sprintf("module %q is already registered; keeping the first definition", id),
		Module:   id,
		Path:     path,
	}
}

func plainScript(id, path string) Diagnostic {
	return Diagnostic{
		Severity: SeverityInfo,
		Code:     CodePlainScript,
		Message:  fmt.Sprintf("%q contains no define call and is not an AMD module", id),
		Module:   id,
		Path:     path,
	}
}
