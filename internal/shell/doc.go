// SPDX-License-Identifier: MPL-2.0

// Package shell is the host around the discovery core. It gathers sources
// (page files and built-ins), runs discovery, builds the navigation tree,
// resolves selections, and remembers the last one.
//
// Discovery results are cached as immutable snapshots keyed by a fingerprint
// of the page files, so repeated calls are cheap and edits are picked up on
// the next call. Reload drops every cached snapshot.
package shell
