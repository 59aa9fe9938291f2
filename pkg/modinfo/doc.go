// SPDX-License-Identifier: MPL-2.0

// Package modinfo loads, resolves and writes the modinfo manifest that
// describes a mod: its identity, version, compatibility and dependencies.
//
// A manifest is read from modinfo.json or modinfo.yaml in the project
// directory (Load), checked and completed with build-supplied values
// (ModInfo.Resolve), and written as canonical JSON into the build output
// directory (Write). Optional fields are modeled with Optional so that an
// absent value is never confused with false, zero or the empty string, and
// absent values are omitted from the written document.
package modinfo
