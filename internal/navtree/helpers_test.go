// SPDX-License-Identifier: MPL-2.0

package navtree

import (
	"slices"
	"testing"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/pkg/extension"
)

func mustDesc(t *testing.T, key string, spec extension.Spec) *extension.Descriptor {
	t.Helper()

	d, err := extension.NewDescriptor(extension.Key(key), spec)
	if err != nil {
		t.Fatalf("NewDescriptor(%q) error = %v", key, err)
	}
	return d
}

func leaf(t *testing.T, key string, order int) *extension.Descriptor {
	t.Helper()
	return mustDesc(t, key, extension.NewSpec(key+" label", "dot", order))
}

func child(t *testing.T, key string, order int, parent string) *extension.Descriptor {
	t.Helper()
	return mustDesc(t, key, extension.NewSpec(key+" label", "dot", order).WithParent(extension.Key(parent)))
}

func nodeKeys(nodes []*Node) []extension.Key {
	out := make([]extension.Key, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func findNode(tree Tree, key extension.Key) *Node {
	var found *Node
	tree.Walk(func(n *Node, _ int) {
		if found == nil && n.Key == key {
			found = n
		}
	})
	return found
}

func hasWarning(warnings []discovery.Diagnostic, code discovery.DiagnosticCode, key string) bool {
	for _, w := range warnings {
		if w.Code == code && w.Key == key {
			return true
		}
	}
	return false
}

// assertNoSelfDescendant fails when any node appears below a node with the
// same key, or when a key shows up more than once.
func assertNoSelfDescendant(t *testing.T, tree Tree) {
	t.Helper()

	seen := make(map[extension.Key]int)
	var visit func(nodes []*Node, ancestors []extension.Key)
	visit = func(nodes []*Node, ancestors []extension.Key) {
		for _, n := range nodes {
			seen[n.Key]++
			if slices.Contains(ancestors, n.Key) {
				t.Errorf("%q appears below itself (ancestors %v)", n.Key, ancestors)
			}
			visit(n.Children, append(slices.Clone(ancestors), n.Key))
		}
	}
	visit(tree.Roots, nil)

	for key, n := range seen {
		if n != 1 {
			t.Errorf("%q appears %d times, want 1", key, n)
		}
	}
}
