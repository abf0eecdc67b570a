// SPDX-License-Identifier: MPL-2.0

package discovery

import "github.com/invowk/pageshell/pkg/extension"

// Result bundles the discovered descriptors (in source-enumeration order)
// with the diagnostics produced while discovering them.
type Result struct {
	Descriptors []*extension.Descriptor
	Diagnostics []Diagnostic
}

// Index maps every descriptor by key. Keys are unique after Discover.
func (r Result) Index() map[extension.Key]*extension.Descriptor {
	return IndexByKey(r.Descriptors)
}

// Empty reports whether nothing was discovered.
func (r Result) Empty() bool {
	return len(r.Descriptors) == 0
}

// IndexByKey maps descriptors by key. When keys repeat, the first one wins.
func IndexByKey(descriptors []*extension.Descriptor) map[extension.Key]*extension.Descriptor {
	idx := make(map[extension.Key]*extension.Descriptor, len(descriptors))
	for _, d := range descriptors {
		if _, exists := idx[d.Key]; !exists {
			idx[d.Key] = d
		}
	}
	return idx
}
