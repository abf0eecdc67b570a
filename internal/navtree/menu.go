// SPDX-License-Identifier: MPL-2.0

package navtree

import "github.com/invowk/pageshell/pkg/extension"

// Menu item type markers. An empty type is a plain page entry.
const (
	TypeGroup   = "group"
	TypeDivider = "divider"
)

// MenuItem is the data a menu renderer consumes. The JSON shape is what
// `pageshell menu --json` prints.
type MenuItem struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Icon     string     `json:"icon"`
	Type     string     `json:"type,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// Assemble converts a built tree into menu items, preserving order.
func Assemble(tree Tree) []MenuItem {
	return assembleNodes(tree.Roots)
}

func assembleNodes(nodes []*Node) []MenuItem {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]MenuItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, MenuItem{
			Key:      string(n.Key),
			Label:    n.Label,
			Icon:     n.Icon,
			Type:     typeMarker(n.Role),
			Children: assembleNodes(n.Children),
		})
	}
	return items
}

// Flat lists every descriptor as a top-level item in global order, ignoring
// the hierarchy.
func Flat(descriptors []*extension.Descriptor) []MenuItem {
	sorted := Sort(descriptors)
	items := make([]MenuItem, 0, len(sorted))
	for _, d := range sorted {
		items = append(items, MenuItem{
			Key:   string(d.Key),
			Label: d.Label,
			Icon:  d.Icon(),
			Type:  typeMarker(d.StructuralRole()),
		})
	}
	return items
}

// Walk visits items depth-first. Returning false from fn skips the item's
// children.
func Walk(items []MenuItem, fn func(item MenuItem, depth int) bool) {
	walk(items, 0, fn)
}

func walk(items []MenuItem, depth int, fn func(MenuItem, int) bool) {
	for _, item := range items {
		if fn(item, depth) {
			walk(item.Children, depth+1, fn)
		}
	}
}

func typeMarker(role extension.Role) string {
	switch role {
	case extension.RoleGroup:
		return TypeGroup
	case extension.RoleDivider:
		return TypeDivider
	default:
		return ""
	}
}
