// SPDX-License-Identifier: MPL-2.0

// Package manifest loads declarative wiring manifests and checks them with
// the capwire resolution checker.
//
// A manifest describes capabilities, slots, providers and contexts with
// symbolic types, so a delegation graph can be verified in CI without
// compiling the program that uses it. Manifests may be written in CUE, YAML
// or TOML; all three are validated against the same embedded CUE schema.
//
//	m, err := manifest.Load("wiring.cue")
//	prog, err := m.Build()
//	results, err := prog.Check()
package manifest
