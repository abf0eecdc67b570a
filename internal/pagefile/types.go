// SPDX-License-Identifier: MPL-2.0

package pagefile

import "github.com/invowk/pageshell/pkg/extension"

type (
	// File is the decoded form of one page file.
	File struct {
		Implementations []Implementation `json:"implementations"`
	}

	// Implementation is one declared variant of a page.
	Implementation struct {
		Name          string   `json:"name"`
		Extends       string   `json:"extends,omitempty"`
		Label         string   `json:"label"`
		Icon          string   `json:"icon"`
		IconType      string   `json:"icon_type"`
		Order         int      `json:"order"`
		Parent        string   `json:"parent,omitempty"`
		Children      []string `json:"children,omitempty"`
		GroupType     string   `json:"group_type,omitempty"`
		DividerBefore bool     `json:"divider_before,omitempty"`
		Content       string   `json:"content,omitempty"`
	}
)

// Spec converts the declaration into an extension spec. The renderer is
// attached by the caller.
func (i Implementation) Spec() extension.Spec {
	spec := extension.NewSpec(i.Label, i.Icon, i.Order).
		WithIconType(i.IconType).
		WithParent(extension.Key(i.Parent))
	if len(i.Children) > 0 {
		children := make([]extension.Key, len(i.Children))
		for n, c := range i.Children {
			children[n] = extension.Key(c)
		}
		spec = spec.WithChildren(children...)
	}
	if i.GroupType != "" {
		spec.GroupType = extension.Role(i.GroupType)
	}
	if i.DividerBefore {
		spec = spec.WithDividerBefore()
	}
	return spec
}
