// SPDX-License-Identifier: MPL-2.0

// Package discovery turns an ordered list of extension sources into
// descriptors.
//
// For every source the engine activates exactly one candidate implementation,
// the most specific one, and records anything that goes wrong as a
// Diagnostic instead of aborting the run. A bad source never prevents the
// other sources from being discovered.
//
// File organization:
//   - diagnostic.go: Severity, DiagnosticCode, Diagnostic
//   - discovery.go: Engine, options, and the per-source loading logic
//   - set.go: Result and its key index
package discovery
