// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"fmt"
	"slices"
)

// Descriptor is the validated, immutable record of one discovered
// extension. Descriptors are created once per discovery run by
// NewDescriptor and are shared read-only afterwards.
type Descriptor struct {
	// Key identifies the extension. Unique within one discovery run.
	Key Key
	// Label is the display name.
	Label string
	// IconName is the icon identifier within the icon set.
	IconName string
	// IconType is the icon set prefix ("" is the default set).
	IconType string
	// Order is the primary sibling sort key (ascending).
	Order int
	// Parent is the declared parent key, empty for top level.
	Parent Key
	// GroupType is RoleGroup for group headers, RoleNormal otherwise.
	GroupType Role
	// DividerBefore requests a divider before this entry.
	DividerBefore bool
	// Renderer is the opaque render entry point. The core never calls it.
	Renderer Renderer

	// SourceID is the id of the source that contributed this descriptor.
	SourceID string
	// Implementation is the name of the candidate that was activated.
	Implementation string
	// Depth is the specialization depth of the activated candidate.
	Depth int

	children []Key
}

// NewDescriptor validates spec and builds the descriptor for key.
func NewDescriptor(key Key, spec Spec) (*Descriptor, error) {
	if ok, errs := key.IsValid(); !ok {
		return nil, errs[0]
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("extension %q: %w", key, err)
	}
	return &Descriptor{
		Key:           key,
		Label:         spec.Label,
		IconName:      spec.Icon,
		IconType:      spec.IconType,
		Order:         spec.Order,
		Parent:        spec.Parent,
		GroupType:     spec.GroupType,
		DividerBefore: spec.DividerBefore,
		Renderer:      spec.Renderer,
		children:      slices.Clone(spec.Children),
	}, nil
}

// Children returns a copy of the explicit children list declared by this
// extension. An empty result means the extension did not curate its children.
func (d *Descriptor) Children() []Key {
	return slices.Clone(d.children)
}

// HasExplicitChildren reports whether the extension declared a non-empty
// children list.
func (d *Descriptor) HasExplicitChildren() bool {
	return len(d.children) > 0
}

// Icon returns the composite icon string (icon type prefix + icon name).
func (d *Descriptor) Icon() string {
	return d.IconType + d.IconName
}

// StructuralRole resolves the presentation role. A group header wins over a
// divider request.
func (d *Descriptor) StructuralRole() Role {
	switch {
	case d.GroupType == RoleGroup:
		return RoleGroup
	case d.DividerBefore:
		return RoleDivider
	default:
		return RoleNormal
	}
}

// String returns a short human-readable form for logs.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%q, order %d)", d.Key, d.Label, d.Order)
}
