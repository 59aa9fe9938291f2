// SPDX-License-Identifier: MPL-2.0

// Package packager runs the packaging pipeline: load the mod info from the
// project directory, resolve it against build-supplied values, write the
// canonical modinfo.json into the output directory and optionally assemble
// the mod archive.
//
// A run is synchronous and has no cancellation. Every failure aborts the run
// and is returned as an *issue.ActionableError whose cause chain keeps the
// sentinel errors of pkg/modinfo and pkg/modpack reachable; Kind classifies
// such an error for exit-code mapping.
package packager
