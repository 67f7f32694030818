// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas.
//
// Every document, whatever its source format, goes through the same flow:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Turn the document into a CUE value and unify it with the root
//  3. Validate (concrete by default) and decode into a Go struct
//
// CUE sources are compiled directly. YAML and TOML documents are decoded by
// their own libraries first and encoded into CUE with Encode, so the schema
// is the single source of truth for all formats.
//
//	//go:embed manifest_schema.cue
//	var schema string
//
//	res, err := cueutil.Compile[Manifest](schema, "#Manifest", data,
//	    cueutil.WithFilename("wiring.cue"))
package cueutil
