// SPDX-License-Identifier: MPL-2.0

// Package navtree folds discovered descriptors into the navigation tree and
// the menu items the host draws.
//
// Sibling order is decided everywhere by the same comparator (Compare):
// ascending Order, ties kept in input order. Parent/child relationships may be
// declared by the parent (an explicit, curated children list) or by the child
// (a parent key). A non-empty explicit list always wins for that parent; the
// children pointing at it are then ignored.
//
// Nothing in this package performs I/O; every function is a pure transform
// of its input.
package navtree
