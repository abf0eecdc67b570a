// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeSourceLoadFailed means a source could not be instantiated and
	// contributed nothing.
	CodeSourceLoadFailed DiagnosticCode = "source_load_failed"
	// CodeSourceScanFailed means a source location could not be enumerated.
	CodeSourceScanFailed DiagnosticCode = "source_scan_failed"
	// CodeDuplicateKey means a later source reused an existing key and was rejected.
	CodeDuplicateKey DiagnosticCode = "duplicate_key"
	// CodeUnresolvedParent means a parent reference names no known key; the
	// extension was promoted to top level.
	CodeUnresolvedParent DiagnosticCode = "unresolved_parent"
	// CodeUnresolvedChild means an explicit children entry names no known key
	// and was dropped.
	CodeUnresolvedChild DiagnosticCode = "unresolved_child"
	// CodeCycleDetected means a parent/child loop was found and truncated.
	CodeCycleDetected DiagnosticCode = "cycle_detected"
	// CodeNoNavigation means nothing was discovered.
	CodeNoNavigation DiagnosticCode = "no_navigation"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) so the host decides how to
	// display it.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity `json:"severity"`
		// Code is a machine-readable identifier (e.g., "duplicate_key").
		Code DiagnosticCode `json:"code"`
		// Message is the human-readable description.
		Message string `json:"message"`
		// SourceID identifies the extension source involved (optional).
		SourceID string `json:"source_id,omitempty"`
		// Key is the extension key involved (optional).
		Key string `json:"key,omitempty"`
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error `json:"-"`
	}
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Severity is one of the defined levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %q (valid: warning, error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is one of the defined codes.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeSourceLoadFailed, CodeSourceScanFailed, CodeDuplicateKey,
		CodeUnresolvedParent, CodeUnresolvedChild, CodeCycleDetected, CodeNoNavigation:
		return true, nil
	default:
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
}

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }

// NewDiagnostic creates a Diagnostic without source or key context.
func NewDiagnostic(severity Severity, code DiagnosticCode, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// NewSourceDiagnostic creates a Diagnostic attributed to a source, wrapping cause.
func NewSourceDiagnostic(severity Severity, code DiagnosticCode, sourceID string, cause error) Diagnostic {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return Diagnostic{Severity: severity, Code: code, Message: msg, SourceID: sourceID, Cause: cause}
}

// String formats the diagnostic on one line for logs and plain output.
func (d Diagnostic) String() string {
	subject := d.SourceID
	if subject == "" {
		subject = d.Key
	}
	if subject == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, subject, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
