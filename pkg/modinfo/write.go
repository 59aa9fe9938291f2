// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vsmodpack/vsmodpack/pkg/cueutil"
	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

//go:embed modinfo_schema.cue
var modinfoSchema string

// Marshal encodes the manifest in its canonical form: JSON, two-space
// indentation, absent fields omitted, LF line endings, trailing newline.
func Marshal(m *ModInfo) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode mod info: %w", err)
	}
	return bytes.ReplaceAll(buf.Bytes(), []byte("\r\n"), []byte("\n")), nil
}

// CheckSchema validates the manifest against the #ModInfo schema
// (enumerations, positive textureSize, string-valued dependencies).
func CheckSchema(m *ModInfo) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	return cueutil.ValidateBytes(modinfoSchema, data, "#ModInfo", cueutil.WithFilename(FileName))
}

// Write stores the resolved manifest as outputDir/modinfo.json and returns
// its path. The document must satisfy the #Resolved schema. The file is
// written to a temporary sibling and renamed into place, so an existing
// modinfo.json is either fully replaced or left as it was.
func Write(m *ModInfo, outputDir types.FilesystemPath) (types.FilesystemPath, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	data, err := Marshal(m)
	if err != nil {
		return "", err
	}
	if err := cueutil.ValidateBytes(modinfoSchema, data, "#Resolved", cueutil.WithFilename(FileName)); err != nil {
		return "", err
	}

	if err := os.MkdirAll(string(outputDir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dest := fspath.JoinStr(outputDir, FileName)
	if err := writeFileAtomic(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func writeFileAtomic(path types.FilesystemPath, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(string(fspath.Dir(path)), "."+BaseName+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath) // Best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, string(path)); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
