// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the separator normalization
// used for include/exclude lists.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// (e.g., "modinfo.json") or relative entries from a selection.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Rel wraps filepath.Rel and returns the relative path as a plain string,
// since relative paths are used as archive entry names.
func Rel(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("resolving relative path: %w", err)
	}
	return rel, nil
}

// Normalize converts both '/' and '\' to the host separator and strips
// trailing separators. It does not clean "." or ".." segments: two entries
// match only when their normalized forms are byte-equal.
func Normalize(path string) string {
	sep := string(os.PathSeparator)
	path = strings.ReplaceAll(path, "/", sep)
	path = strings.ReplaceAll(path, `\`, sep)
	return strings.TrimRight(path, sep)
}

// NormalizePath is Normalize for typed paths.
func NormalizePath(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(Normalize(string(p)))
}

// IsLocal reports whether a relative path stays within its root: it must
// not be absolute, empty, or escape through "..".
func IsLocal(path string) bool {
	return filepath.IsLocal(path)
}
