// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE schema utilities.
//
// The package consolidates the 3-step CUE pattern used by the modinfo schema
// check and the project configuration loader:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate, and optionally decode to a Go value
//
// JSON is a subset of CUE, so a serialized modinfo.json document can be
// checked directly:
//
//	//go:embed modinfo_schema.cue
//	var schema string
//
//	if err := cueutil.ValidateBytes(schema, data, "#ModInfo",
//	    cueutil.WithFilename("modinfo.json")); err != nil {
//	    return err // Error includes the field path of each violation
//	}
package cueutil
