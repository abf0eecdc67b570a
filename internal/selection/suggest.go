// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/pkg/extension"
)

// Suggest returns up to limit keys that fuzzy-match raw, best first. Keys
// and labels are both matched; each key is returned at most once.
func Suggest(raw string, descriptors []*extension.Descriptor, limit int) []extension.Key {
	raw = strings.TrimSpace(raw)
	if raw == "" || limit <= 0 {
		return nil
	}

	ordered := navtree.Sort(descriptors)
	options := make([]string, 0, 2*len(ordered))
	owners := make([]extension.Key, 0, 2*len(ordered))
	for _, d := range ordered {
		options = append(options, string(d.Key))
		owners = append(owners, d.Key)
		if d.Label != "" && !strings.EqualFold(d.Label, string(d.Key)) {
			options = append(options, d.Label)
			owners = append(owners, d.Key)
		}
	}

	matches := fuzzy.Find(raw, options)
	sort.Stable(matches)

	var out []extension.Key
	seen := make(map[extension.Key]bool, limit)
	for _, m := range matches {
		key := owners[m.Index]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
		if len(out) == limit {
			break
		}
	}
	return out
}
