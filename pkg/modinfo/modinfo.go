// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
)

const (
	// BaseName is the manifest file name without extension.
	BaseName = "modinfo"
	// FileName is the canonical manifest written into the build output directory.
	FileName = BaseName + ".json"

	// FormatAuto probes modinfo.json, then modinfo.yaml.
	FormatAuto Format = "auto"
	// FormatJSON reads modinfo.json only.
	FormatJSON Format = "json"
	// FormatYAML reads modinfo.yaml only.
	FormatYAML Format = "yaml"

	// FieldType is the serialized name of the mod type.
	FieldType = "type"
	// FieldModID is the serialized name of the mod identifier.
	FieldModID = "modId"
	// FieldName is the serialized name of the display name.
	FieldName = "name"
	// FieldSide is the serialized name of the side.
	FieldSide = "side"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid modinfo format")

type (
	// ModInfo is a mod's declared metadata.
	//
	// Field names are camelCase in both modinfo.json and modinfo.yaml. Fields
	// that are absent in the source stay absent and are omitted when written.
	ModInfo struct {
		Kind             Optional[Kind]    `json:"type,omitzero" yaml:"type"`
		ModID            Optional[string]  `json:"modId,omitzero" yaml:"modId"`
		Name             Optional[string]  `json:"name,omitzero" yaml:"name"`
		Version          Optional[string]  `json:"version,omitzero" yaml:"version"`
		NetworkVersion   Optional[string]  `json:"networkVersion,omitzero" yaml:"networkVersion"`
		Description      Optional[string]  `json:"description,omitzero" yaml:"description"`
		Website          Optional[string]  `json:"website,omitzero" yaml:"website"`
		Authors          []string          `json:"authors,omitzero" yaml:"authors"`
		Contributors     []string          `json:"contributors,omitzero" yaml:"contributors"`
		TextureSize      Optional[int]     `json:"textureSize,omitzero" yaml:"textureSize"`
		Side             Optional[Side]    `json:"side,omitzero" yaml:"side"`
		RequiredOnClient Optional[bool]    `json:"requiredOnClient,omitzero" yaml:"requiredOnClient"`
		RequiredOnServer Optional[bool]    `json:"requiredOnServer,omitzero" yaml:"requiredOnServer"`
		Dependencies     map[string]string `json:"dependencies,omitzero" yaml:"dependencies"`
	}

	// Format selects which manifest source files Load considers.
	Format string

	// InvalidFormatError is returned when a format preference is not one of
	// "auto", "json" or "yaml".
	InvalidFormatError struct {
		Value string
	}
)

// ID returns the mod identifier, or "" when absent.
func (m *ModInfo) ID() string {
	return m.ModID.OrElse("")
}

// ParseFormat converts a user-supplied preference into a Format. Matching is exact.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// Validate returns an error if the Format is not a recognized preference.
func (f Format) Validate() error {
	switch f {
	case FormatAuto, FormatJSON, FormatYAML:
		return nil
	default:
		return &InvalidFormatError{Value: string(f)}
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// FileName returns the source file for a concrete format ("modinfo.json",
// "modinfo.yaml"). It returns "" for FormatAuto.
func (f Format) FileName() string {
	switch f {
	case FormatJSON, FormatYAML:
		return BaseName + "." + string(f)
	default:
		return ""
	}
}

// candidates lists the concrete formats probed for a preference, in order.
func (f Format) candidates() []Format {
	switch f {
	case FormatAuto:
		return []Format{FormatJSON, FormatYAML}
	case FormatJSON, FormatYAML:
		return []Format{f}
	default:
		return nil
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid manifest type %q: expected either 'auto', 'json', or 'yaml'", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
