// SPDX-License-Identifier: MPL-2.0

package navtree

import (
	"cmp"
	"slices"

	"github.com/invowk/pageshell/pkg/extension"
)

// Compare orders descriptors by ascending Order. It is the only sibling
// comparator in the module; callers must pair it with a stable sort.
func Compare(a, b *extension.Descriptor) int {
	return cmp.Compare(a.Order, b.Order)
}

// Sort returns a new slice ordered by Compare. Equal orders keep their
// relative input order.
func Sort(descriptors []*extension.Descriptor) []*extension.Descriptor {
	sorted := slices.Clone(descriptors)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}
