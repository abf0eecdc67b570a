// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ValidationError is one schema violation in a user file.
type ValidationError struct {
	File string
	// Path is the JSON-style path to the value, empty for file-level errors.
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Path, e.Message)
}

// FormatError flattens a CUE error into ValidationErrors prefixed with
// filename. Multiple violations are joined one per line.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	violations := make([]*ValidationError, 0, len(list))
	for _, e := range list {
		path := JSONPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		violations = append(violations, &ValidationError{File: filename, Path: path, Message: msg})
	}

	if len(violations) == 1 {
		return violations[0]
	}
	return &MultiError{File: filename, Violations: violations}
}

// MultiError groups several violations found in the same file.
type MultiError struct {
	File       string
	Violations []*ValidationError
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d validation errors:", e.File, len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  ")
		if v.Path != "" {
			sb.WriteString(v.Path)
			sb.WriteString(": ")
		}
		sb.WriteString(v.Message)
	}
	return sb.String()
}

// Unwrap exposes the individual violations to errors.As.
func (e *MultiError) Unwrap() []error {
	out := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v
	}
	return out
}

// JSONPath renders a CUE selector path as "a.b[0].c".
func JSONPath(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
