// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles embedded CUE schemas once and validates user files
// against them.
//
//	//go:embed pagefile_schema.cue
//	var schemaSrc []byte
//
//	schema := cueutil.MustCompile(schemaSrc, "#PageFile")
//	file, err := cueutil.Decode[PageFile](schema, data, cueutil.WithFilename(path))
//
// Errors carry the file name and a JSON-style path to the offending value
// (implementations[1].label).
package cueutil
