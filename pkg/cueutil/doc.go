// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// Parsing follows three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed amdpack_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[map[string]any](
//	    schema,
//	    data,
//	    "#Config",
//	    cueutil.WithFilename("amdpack.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and the JSON path of the offending field.
package cueutil
