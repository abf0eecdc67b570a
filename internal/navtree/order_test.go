// SPDX-License-Identifier: MPL-2.0

package navtree

import (
	"slices"
	"testing"

	"github.com/invowk/pageshell/pkg/extension"
)

func TestSort_StableByOrder(t *testing.T) {
	t.Parallel()

	input := []*extension.Descriptor{
		leaf(t, "five-a", 5),
		leaf(t, "one", 1),
		leaf(t, "five-b", 5),
		leaf(t, "two", 2),
	}

	got := Sort(input)
	want := []extension.Key{"one", "two", "five-a", "five-b"}
	if keys := nodeKeysOf(got); !slices.Equal(keys, want) {
		t.Errorf("Sort() = %v, want %v", keys, want)
	}

	// Input slice is untouched.
	if input[0].Key != "five-a" {
		t.Errorf("Sort() modified its input: first = %q", input[0].Key)
	}
}

func TestSort_Empty(t *testing.T) {
	t.Parallel()

	if got := Sort(nil); len(got) != 0 {
		t.Errorf("Sort(nil) = %v, want empty", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b int
		want int
	}{
		{"less", 1, 2, -1},
		{"equal", 3, 3, 0},
		{"greater", 9, -4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Compare(leaf(t, "a", tt.a), leaf(t, "b", tt.b))
			if got != tt.want {
				t.Errorf("Compare(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func nodeKeysOf(ds []*extension.Descriptor) []extension.Key {
	out := make([]extension.Key, len(ds))
	for i, d := range ds {
		out[i] = d.Key
	}
	return out
}
