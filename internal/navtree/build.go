// SPDX-License-Identifier: MPL-2.0

package navtree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/pkg/extension"
)

type (
	// Node is one entry of the navigation tree. Nodes are built fresh by
	// every Build call and never modified afterwards.
	Node struct {
		Key        extension.Key
		Label      string
		Icon       string
		Role       extension.Role
		Descriptor *extension.Descriptor
		Children   []*Node
		// Truncated is set when a child was left out because it would have
		// closed a cycle back to this node or one of its ancestors.
		Truncated bool
	}

	// Tree is the result of Build: ordered roots plus the non-fatal
	// hierarchy warnings found while folding the relationships.
	Tree struct {
		Roots    []*Node
		Warnings []discovery.Diagnostic
	}

	builder struct {
		byKey    map[extension.Key]*extension.Descriptor
		implicit map[extension.Key][]*extension.Descriptor
		reached  map[extension.Key]bool
		warned   map[string]bool
		warnings []discovery.Diagnostic
	}
)

// Build folds descriptors into a navigation tree.
//
//  1. Descriptors without a parent, or whose parent is unknown, are top level,
//     unless an explicit children list names them. The others are recorded
//     as implicit children of their parent.
//  2. A node's children are its explicit list when non-empty (unknown keys
//     dropped, order as declared), otherwise its implicit children sorted by
//     Compare.
//  3. Roots are sorted by Compare and materialized recursively.
//  4. A child whose key is already on the ancestor chain is left out and
//     reported, so no descriptor ever sits below itself.
//
// Descriptors caught in a pure parent loop (A.parent=B, B.parent=A) are not
// reachable from any root; the loop member that sorts first is promoted to top
// level so the loop still shows up, and the loop is reported. A top-level
// candidate named by a children list that is itself never reached is promoted
// back to top level.
func Build(descriptors []*extension.Descriptor) Tree {
	b := &builder{
		byKey:    discovery.IndexByKey(descriptors),
		implicit: make(map[extension.Key][]*extension.Descriptor),
		reached:  make(map[extension.Key]bool),
		warned:   make(map[string]bool),
	}

	sorted := Sort(descriptors)
	rootSet := make(map[extension.Key]bool)
	listed := b.listedChildren(descriptors)
	curated := make(map[extension.Key]bool)

	for _, d := range descriptors {
		switch {
		case d.Parent == "":
			if listed[d.Key] {
				curated[d.Key] = true
				continue
			}
			rootSet[d.Key] = true
		case b.byKey[d.Parent] == nil:
			if listed[d.Key] {
				curated[d.Key] = true
			} else {
				rootSet[d.Key] = true
			}
			b.warn(discovery.SeverityWarning, discovery.CodeUnresolvedParent, d.Key,
				fmt.Sprintf("parent %q not found; shown at top level", d.Parent))
		default:
			b.implicit[d.Parent] = append(b.implicit[d.Parent], d)
		}
	}

	nodes := make(map[extension.Key]*Node, len(rootSet))
	for _, d := range sorted {
		if rootSet[d.Key] {
			nodes[d.Key] = b.materialize(d, nil)
		}
	}

	for _, d := range sorted {
		if b.reached[d.Key] {
			continue
		}
		if curated[d.Key] {
			rootSet[d.Key] = true
			nodes[d.Key] = b.materialize(d, nil)
			continue
		}
		loop := b.parentLoop(d)
		if len(loop) == 0 {
			// Hidden by a curated children list elsewhere.
			continue
		}
		promoted := b.firstInOrder(sorted, loop)
		rootSet[promoted.Key] = true
		b.warn(discovery.SeverityWarning, discovery.CodeCycleDetected, promoted.Key,
			fmt.Sprintf("parent cycle %s; %q promoted to top level", formatLoop(loop), promoted.Key))
		nodes[promoted.Key] = b.materialize(promoted, nil)
	}

	tree := Tree{Warnings: b.warnings}
	for _, d := range sorted {
		if rootSet[d.Key] {
			tree.Roots = append(tree.Roots, nodes[d.Key])
		}
	}
	return tree
}

// children resolves the children of d by precedence: explicit, then implicit.
func (b *builder) children(d *extension.Descriptor) []*extension.Descriptor {
	if d.HasExplicitChildren() {
		var out []*extension.Descriptor
		for _, key := range d.Children() {
			child := b.byKey[key]
			if child == nil {
				b.warn(discovery.SeverityWarning, discovery.CodeUnresolvedChild, d.Key,
					fmt.Sprintf("listed child %q not found; dropped", key))
				continue
			}
			out = append(out, child)
		}
		return out
	}
	return Sort(b.implicit[d.Key])
}

func (b *builder) materialize(d *extension.Descriptor, ancestors []extension.Key) *Node {
	b.reached[d.Key] = true
	node := &Node{
		Key:        d.Key,
		Label:      d.Label,
		Icon:       d.Icon(),
		Role:       d.StructuralRole(),
		Descriptor: d,
	}

	path := append(slices.Clone(ancestors), d.Key)
	for _, child := range b.children(d) {
		if slices.Contains(path, child.Key) {
			node.Truncated = true
			b.warn(discovery.SeverityWarning, discovery.CodeCycleDetected, child.Key,
				fmt.Sprintf("cycle %s; link from %q dropped", formatLoop(append(slices.Clone(path), child.Key)), d.Key))
			continue
		}
		node.Children = append(node.Children, b.materialize(child, path))
	}
	return node
}

// listedChildren returns every resolvable key named in an explicit children
// list by a descriptor other than itself.
func (b *builder) listedChildren(descriptors []*extension.Descriptor) map[extension.Key]bool {
	listed := make(map[extension.Key]bool)
	for _, d := range descriptors {
		if !d.HasExplicitChildren() {
			continue
		}
		for _, key := range d.Children() {
			if key != d.Key && b.byKey[key] != nil {
				listed[key] = true
			}
		}
	}
	return listed
}

// parentLoop follows parent pointers from d and returns the loop it runs
// into, or nil when the chain ends.
func (b *builder) parentLoop(d *extension.Descriptor) []extension.Key {
	var chain []extension.Key
	seen := make(map[extension.Key]int)
	for cur := d; cur != nil; cur = b.byKey[cur.Parent] {
		if start, ok := seen[cur.Key]; ok {
			return chain[start:]
		}
		seen[cur.Key] = len(chain)
		chain = append(chain, cur.Key)
		if cur.Parent == "" {
			return nil
		}
	}
	return nil
}

func (b *builder) firstInOrder(sorted []*extension.Descriptor, keys []extension.Key) *extension.Descriptor {
	for _, d := range sorted {
		if slices.Contains(keys, d.Key) {
			return d
		}
	}
	return b.byKey[keys[0]]
}

func (b *builder) warn(severity discovery.Severity, code discovery.DiagnosticCode, key extension.Key, msg string) {
	id := string(code) + "\x00" + string(key) + "\x00" + msg
	if b.warned[id] {
		return
	}
	b.warned[id] = true
	b.warnings = append(b.warnings, discovery.Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  msg,
		Key:      string(key),
	})
}

func formatLoop(keys []extension.Key) string {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, string(k))
	}
	if len(keys) > 0 && keys[0] != keys[len(keys)-1] {
		parts = append(parts, string(keys[0]))
	}
	return strings.Join(parts, " -> ")
}

// Walk visits every node depth-first in display order.
func (t Tree) Walk(fn func(n *Node, depth int)) {
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(t.Roots, 0)
}

// Len returns the number of nodes in the tree.
func (t Tree) Len() int {
	n := 0
	t.Walk(func(*Node, int) { n++ })
	return n
}
