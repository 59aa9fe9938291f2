// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFields is the sentinel error wrapped by MissingFieldsError.
	ErrMissingFields = errors.New("missing required modinfo fields")

	// ErrEmptyFallbackID is returned when the manifest has no modId and the
	// build did not supply an identifier to fall back to.
	ErrEmptyFallbackID = errors.New("modId is absent and the build identifier is empty")
)

// MissingFieldsError lists every required field a manifest lacks.
type MissingFieldsError struct {
	Fields []string
}

// Error implements the error interface.
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("mod info is missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// Unwrap returns ErrMissingFields for errors.Is() compatibility.
func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// Validate checks that name is non-blank and type is present. Both checks
// always run so that every missing field is reported.
func (m *ModInfo) Validate() error {
	var missing []string
	if name, ok := m.Name.Get(); !ok || strings.TrimSpace(name) == "" {
		missing = append(missing, FieldName)
	}
	if !m.Kind.IsSet() {
		missing = append(missing, FieldType)
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// Resolve validates the manifest and merges in build-supplied values: a blank
// or absent modId becomes fallbackID verbatim, and version is always replaced
// by the build version. No other field changes. On error the manifest is left
// untouched.
func (m *ModInfo) Resolve(fallbackID, version string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if id, ok := m.ModID.Get(); !ok || strings.TrimSpace(id) == "" {
		if strings.TrimSpace(fallbackID) == "" {
			return ErrEmptyFallbackID
		}
		m.ModID = Some(fallbackID)
	}
	m.Version = Some(version)

	return nil
}
