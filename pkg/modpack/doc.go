// SPDX-License-Identifier: MPL-2.0

// Package modpack bundles a build output directory into a versioned mod
// archive.
//
// File selection follows one of three mutually exclusive modes: everything
// under the output directory, an explicit include list, or everything minus
// an exclude list. Select makes that decision without touching the
// filesystem; Assemble stages the selected files into a temporary zip and
// places it, together with a copy of modinfo.json, into a fresh
// <output>/<id>/ directory.
package modpack
