// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"slices"
	"testing"

	"github.com/invowk/pageshell/pkg/extension"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	descriptors := []*extension.Descriptor{
		desc(t, "home", "Home", 0),
		desc(t, "reports", "Reports", 10),
		desc(t, "settings", "Settings", 20),
	}

	tests := []struct {
		name  string
		raw   string
		limit int
		want  []extension.Key
	}{
		{name: "typo in key", raw: "reprts", limit: 3, want: []extension.Key{"reports"}},
		{name: "label match once", raw: "Sett", limit: 3, want: []extension.Key{"settings"}},
		{name: "no match", raw: "zzz", limit: 3, want: nil},
		{name: "empty raw", raw: "  ", limit: 3, want: nil},
		{name: "zero limit", raw: "reports", limit: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Suggest(tt.raw, descriptors, tt.limit); !slices.Equal(got, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
