// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	// RoleNormal marks a regular navigation entry.
	RoleNormal Role = ""
	// RoleGroup marks a group header. A group header may still have children.
	RoleGroup Role = "group"
	// RoleDivider marks an entry that is preceded by a divider.
	RoleDivider Role = "divider"
)

var (
	// ErrInvalidKey is the sentinel error wrapped by InvalidKeyError.
	ErrInvalidKey = errors.New("invalid extension key")
	// ErrInvalidRole is the sentinel error wrapped by InvalidRoleError.
	ErrInvalidRole = errors.New("invalid structural role")
)

type (
	// Key is the stable identifier of a discovered extension. It is derived
	// from the extension's source location (a page file stem or a
	// registration name) and never changes once assigned.
	Key string

	// InvalidKeyError is returned when a Key is empty or contains whitespace
	// or path separators.
	InvalidKeyError struct {
		Value Key
	}

	// Role is the structural presentation marker of a navigation entry.
	Role string

	// InvalidRoleError is returned when a Role value is not recognized.
	InvalidRoleError struct {
		Value Role
	}
)

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// IsValid returns whether the Key can identify an extension.
func (k Key) IsValid() (bool, []error) {
	if k == "" {
		return false, []error{&InvalidKeyError{Value: k}}
	}
	for _, r := range string(k) {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return false, []error{&InvalidKeyError{Value: k}}
		}
	}
	return true, nil
}

// Error implements the error interface for InvalidKeyError.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid extension key %q: must be non-empty without whitespace or path separators", e.Value)
}

// Unwrap returns ErrInvalidKey for errors.Is() compatibility.
func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// String returns the string representation of the Role.
func (r Role) String() string {
	if r == RoleNormal {
		return "normal"
	}
	return string(r)
}

// IsValid returns whether the Role is one of the defined roles.
func (r Role) IsValid() (bool, []error) {
	switch r {
	case RoleNormal, RoleGroup, RoleDivider:
		return true, nil
	default:
		return false, []error{&InvalidRoleError{Value: r}}
	}
}

// Error implements the error interface for InvalidRoleError.
func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid structural role %q (valid: %q, %q, or empty)", e.Value, RoleGroup, RoleDivider)
}

// Unwrap returns ErrInvalidRole for errors.Is() compatibility.
func (e *InvalidRoleError) Unwrap() error { return ErrInvalidRole }

// ParseKey trims surrounding whitespace and validates the result.
func ParseKey(s string) (Key, error) {
	k := Key(strings.TrimSpace(s))
	if ok, errs := k.IsValid(); !ok {
		return "", errs[0]
	}
	return k, nil
}
