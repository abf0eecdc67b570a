// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMissingLabel is returned when a Spec has no label.
var ErrMissingLabel = errors.New("extension label is required")

// Spec is the capability contract an implementation fills in. Optional
// fields have explicit zero-value defaults:
//   - IconType "" selects the default icon set
//   - Parent "" means top level
//   - Children nil means "no explicit children"
//   - GroupType "" means not a group header
//   - DividerBefore false means no divider
//
// Use NewSpec and the With* methods rather than filling the struct by hand
// when the call site reads better that way; both are supported.
type Spec struct {
	Label         string
	Icon          string
	IconType      string
	Order         int
	Parent        Key
	Children      []Key
	GroupType     Role
	DividerBefore bool
	Renderer      Renderer
}

// NewSpec returns a Spec with the three mandatory values set.
func NewSpec(label, icon string, order int) Spec {
	return Spec{Label: label, Icon: icon, Order: order}
}

// WithIconType sets the icon namespace prefix (e.g. "fa-solid:").
func (s Spec) WithIconType(iconType string) Spec {
	s.IconType = iconType
	return s
}

// WithParent declares the parent extension key.
func (s Spec) WithParent(parent Key) Spec {
	s.Parent = parent
	return s
}

// WithChildren declares an explicit, ordered children list.
func (s Spec) WithChildren(children ...Key) Spec {
	s.Children = slices.Clone(children)
	return s
}

// AsGroup marks the entry as a group header.
func (s Spec) AsGroup() Spec {
	s.GroupType = RoleGroup
	return s
}

// WithDividerBefore requests a divider before the entry.
func (s Spec) WithDividerBefore() Spec {
	s.DividerBefore = true
	return s
}

// WithRenderer attaches the opaque render entry point.
func (s Spec) WithRenderer(r Renderer) Spec {
	s.Renderer = r
	return s
}

// Validate reports every problem with the Spec at once.
func (s Spec) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Label) == "" {
		errs = append(errs, ErrMissingLabel)
	}
	if s.Parent != "" {
		if ok, fieldErrs := s.Parent.IsValid(); !ok {
			errs = append(errs, fmt.Errorf("parent: %w", fieldErrs[0]))
		}
	}
	for i, c := range s.Children {
		if ok, fieldErrs := c.IsValid(); !ok {
			errs = append(errs, fmt.Errorf("children[%d]: %w", i, fieldErrs[0]))
		}
	}
	// Only "group" or nothing is meaningful here; dividers have their own flag.
	if s.GroupType != RoleNormal && s.GroupType != RoleGroup {
		errs = append(errs, fmt.Errorf("group_type: %w", &InvalidRoleError{Value: s.GroupType}))
	}
	return errors.Join(errs...)
}
