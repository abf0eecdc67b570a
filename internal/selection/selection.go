// SPDX-License-Identifier: MPL-2.0

// Package selection maps a raw selection value onto a discovered extension.
// It holds no state; the previously selected key is owned by the host.
package selection

import (
	"errors"
	"strings"

	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/pkg/extension"
)

// ErrNoNavigation is returned when nothing was discovered, so there is no
// page to fall back to.
var ErrNoNavigation = errors.New("no navigation entries discovered")

// DefaultSelection returns the first descriptor in global order: lowest
// Order, ties broken by input order.
func DefaultSelection(descriptors []*extension.Descriptor) (*extension.Descriptor, error) {
	if len(descriptors) == 0 {
		return nil, ErrNoNavigation
	}
	best := descriptors[0]
	for _, d := range descriptors[1:] {
		if navtree.Compare(d, best) < 0 {
			best = d
		}
	}
	return best, nil
}

// Resolve looks raw up by key. Unknown or empty values fall back to the
// default selection; matched reports whether raw named a descriptor.
// An empty descriptor set yields (nil, false).
func Resolve(raw string, descriptors []*extension.Descriptor) (d *extension.Descriptor, matched bool) {
	key := extension.Key(strings.TrimSpace(raw))
	if key != "" {
		for _, candidate := range descriptors {
			if candidate.Key == key {
				return candidate, true
			}
		}
	}
	d, _ = DefaultSelection(descriptors)
	return d, false
}

// ResolveLabel is Resolve that also accepts a display label. Keys take
// precedence; labels are compared case-insensitively and the first match in
// global order wins.
func ResolveLabel(raw string, descriptors []*extension.Descriptor) (*extension.Descriptor, bool) {
	if d, ok := Resolve(raw, descriptors); ok {
		return d, true
	}
	label := strings.TrimSpace(raw)
	if label != "" {
		for _, d := range navtree.Sort(descriptors) {
			if strings.EqualFold(d.Label, label) {
				return d, true
			}
		}
	}
	return Resolve("", descriptors)
}
