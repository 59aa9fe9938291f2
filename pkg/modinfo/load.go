// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/vsmodpack/vsmodpack/pkg/cueutil"
	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/types"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when no manifest file exists for the active format preference.
	// Callers can check for this error using errors.Is(err, ErrNotFound).
	ErrNotFound = errors.New("modinfo not found")

	// ErrParse is returned when a manifest file exists but its content is malformed.
	ErrParse = errors.New("modinfo parse error")

	errEmptyDocument = errors.New("document is empty")
)

type (
	// Source is a manifest together with the file it was loaded from.
	Source struct {
		ModInfo *ModInfo
		Path    types.FilesystemPath
		Format  Format
	}

	// NotFoundError lists the files that were looked for.
	NotFoundError struct {
		Dir        types.FilesystemPath
		Candidates []string
	}

	// ParseError identifies the manifest file that could not be decoded.
	ParseError struct {
		Path   types.FilesystemPath
		Format Format
		Err    error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find mod info in %s (looked for %s)", e.Dir, strings.Join(e.Candidates, ", "))
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s as %s: %v", e.Path, e.Format, e.Err)
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse so callers can classify the error without unwrapping the cause.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Load finds and decodes the manifest in projectDir.
//
// FormatJSON and FormatYAML look at a single file. FormatAuto tries
// modinfo.json first and modinfo.yaml second and stops at the first file
// that exists; a JSON manifest always wins over a YAML one. The format is
// validated before any file is accessed.
func Load(projectDir types.FilesystemPath, format Format) (*Source, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	candidates := format.candidates()
	searched := make([]string, 0, len(candidates))
	for _, f := range candidates {
		path := fspath.JoinStr(projectDir, f.FileName())
		searched = append(searched, f.FileName())

		info, err := os.Stat(string(path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}

		m, err := LoadFile(path, f)
		if err != nil {
			return nil, err
		}
		return &Source{ModInfo: m, Path: path, Format: f}, nil
	}

	return nil, &NotFoundError{Dir: projectDir, Candidates: searched}
}

// LoadFile decodes the manifest at path using a concrete format.
func LoadFile(path types.FilesystemPath, format Format) (*ModInfo, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, string(path)); err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	var m *ModInfo
	switch format {
	case FormatJSON:
		m, err = DecodeJSON(data)
	case FormatYAML:
		m, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("cannot decode %s: format %q is not concrete", path, format)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	return m, nil
}

// DecodeJSON decodes a JSON object into a ModInfo. Unknown fields are ignored
// and field names match case-insensitively.
func DecodeJSON(data []byte) (*ModInfo, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errEmptyDocument
	}

	var m ModInfo
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeYAML decodes the first YAML document, which must be a mapping.
// Unknown fields are ignored.
func DecodeYAML(data []byte) (*ModInfo, error) {
	var m ModInfo
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, err
	}
	return &m, nil
}
