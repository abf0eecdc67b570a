// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"time"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/pkg/extension"
)

// Snapshot is the result of one discovery run. Snapshots are shared between
// callers and must not be modified.
type Snapshot struct {
	// Descriptors in global order.
	Descriptors []*extension.Descriptor
	Tree        navtree.Tree
	// Menu is hierarchical or flat depending on configuration.
	Menu        []navtree.MenuItem
	Diagnostics []discovery.Diagnostic
	Fingerprint uint64
	BuiltAt     time.Time
}

// Lookup returns the descriptor for key, or nil.
func (s *Snapshot) Lookup(key string) *extension.Descriptor {
	for _, d := range s.Descriptors {
		if string(d.Key) == key {
			return d
		}
	}
	return nil
}

// HasErrors reports whether any diagnostic is an error.
func (s *Snapshot) HasErrors() bool {
	return discovery.HasErrors(s.Diagnostics)
}
