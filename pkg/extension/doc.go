// SPDX-License-Identifier: MPL-2.0

// Package extension defines the contract every discoverable page unit
// implements and the immutable Descriptor the discovery engine builds from it.
//
// A Source statically declares its candidate implementations. Each Candidate
// names the candidate it refines (Extends), which gives the engine an explicit
// derivation chain to pick the most specific implementation from. No runtime
// introspection is involved.
//
// File organization:
//   - key.go: Key and Role value types
//   - spec.go: Spec, the capability contract, and its builder methods
//   - descriptor.go: Descriptor, the validated immutable result
//   - source.go: Source, Candidate, Implementation, Renderer
//
// This package is a leaf dependency: it imports only the standard library.
package extension
