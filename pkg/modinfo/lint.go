// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Lint returns non-fatal remarks about a manifest, such as versions that are
// not semantic versions. It never modifies the manifest.
func (m *ModInfo) Lint() []string {
	var notes []string

	if v, ok := m.Version.Get(); ok && !isSemver(v) {
		notes = append(notes, fmt.Sprintf("version %q is not a semantic version", v))
	}
	if v, ok := m.NetworkVersion.Get(); ok && !isSemver(v) {
		notes = append(notes, fmt.Sprintf("networkVersion %q is not a semantic version", v))
	}

	for _, dep := range slices.Sorted(maps.Keys(m.Dependencies)) {
		constraint := strings.TrimSpace(m.Dependencies[dep])
		if constraint == "" || constraint == "*" {
			continue
		}
		if !isSemver(constraint) {
			notes = append(notes, fmt.Sprintf("dependency %q: version %q is not a semantic version", dep, constraint))
		}
	}

	if side, ok := m.Side.Get(); ok {
		if side == SideClient && m.RequiredOnServer.OrElse(false) {
			notes = append(notes, "side is Client but requiredOnServer is true")
		}
		if side == SideServer && m.RequiredOnClient.OrElse(false) {
			notes = append(notes, "side is Server but requiredOnClient is true")
		}
	}

	return notes
}

// isSemver accepts versions with or without the leading "v".
func isSemver(v string) bool {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.IsValid(v)
}
