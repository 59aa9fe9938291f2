// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

const (
	// ModeAll selects every file under the output directory.
	ModeAll Mode = iota
	// ModeInclude selects exactly the include list.
	ModeInclude
	// ModeExclude selects every file except exact matches of the exclude list.
	ModeExclude

	// ListSeparator separates entries of an include or exclude string.
	ListSeparator = ";"
)

var (
	// ErrConflictingSelection is returned when both include and exclude entries are given.
	ErrConflictingSelection = errors.New("specify either include or exclude, not both")

	// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid include entry")
)

type (
	// Mode is the file selection strategy.
	Mode int

	// Selection is the outcome of Select: a mode and the normalized paths it
	// applies (the include list or the exclude list; empty for ModeAll).
	Selection struct {
		Mode  Mode
		Paths []string
	}

	// InvalidEntryError is returned for include entries that are absolute or
	// leave the output directory.
	InvalidEntryError struct {
		Entry string
	}
)

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid include entry %q: must be a relative path inside the output directory", e.Entry)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeInclude:
		return "include"
	case ModeExclude:
		return "exclude"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseList splits a semicolon-separated list, trims each entry, normalizes
// separators and drops blank entries.
func ParseList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ListSeparator) {
		entry = fspath.Normalize(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Select decides the selection mode. Entries are normalized again so that
// callers may pass raw lists. Include and exclude are mutually exclusive and
// include entries must be relative paths that stay inside the output
// directory. Select touches no files.
func Select(include, exclude []string) (Selection, error) {
	include = normalizeAll(include)
	exclude = normalizeAll(exclude)

	switch {
	case len(include) > 0 && len(exclude) > 0:
		return Selection{}, ErrConflictingSelection
	case len(include) > 0:
		if err := checkEntries(include); err != nil {
			return Selection{}, err
		}
		return Selection{Mode: ModeInclude, Paths: include}, nil
	case len(exclude) > 0:
		return Selection{Mode: ModeExclude, Paths: exclude}, nil
	default:
		return Selection{Mode: ModeAll}, nil
	}
}

// Files returns the selected paths relative to root. ModeAll and ModeExclude
// walk root recursively and return regular files in lexical order; symlinked
// directories are followed unless they lead back to a directory already being
// walked. ModeInclude returns the include list as given; existence is checked
// when archiving.
func (s Selection) Files(root types.FilesystemPath) ([]string, error) {
	switch s.Mode {
	case ModeInclude:
		if err := checkEntries(s.Paths); err != nil {
			return nil, err
		}
		return append([]string(nil), s.Paths...), nil
	case ModeAll, ModeExclude:
		all, err := walkFiles(root)
		if err != nil {
			return nil, err
		}
		if s.Mode == ModeAll {
			return all, nil
		}

		excluded := make(map[string]struct{}, len(s.Paths))
		for _, p := range s.Paths {
			excluded[p] = struct{}{}
		}
		kept := all[:0]
		for _, f := range all {
			if _, skip := excluded[f]; !skip {
				kept = append(kept, f)
			}
		}
		return kept, nil
	default:
		return nil, fmt.Errorf("unknown selection mode %s", s.Mode)
	}
}

func walkFiles(root types.FilesystemPath) ([]string, error) {
	var files []string
	if err := walkDir(root, string(root), nil, &files); err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", root, err)
	}
	return files, nil
}

// walkDir appends the regular files under dir to files, relative to root.
// ancestors holds the resolved paths of the directories above dir and guards
// against symlink cycles.
func walkDir(root types.FilesystemPath, dir string, ancestors []string, files *[]string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if slices.Contains(ancestors, resolved) {
		return nil
	}
	ancestors = append(ancestors, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range entries {
		path := filepath.Join(dir, d.Name())

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return statErr
			}
			isDir = info.IsDir()
		}

		if isDir {
			if err := walkDir(root, path, ancestors, files); err != nil {
				return err
			}
			continue
		}

		rel, err := fspath.Rel(root, types.FilesystemPath(path))
		if err != nil {
			return err
		}
		*files = append(*files, fspath.Normalize(rel))
	}
	return nil
}

func checkEntries(entries []string) error {
	for _, entry := range entries {
		if !fspath.IsLocal(entry) {
			return &InvalidEntryError{Entry: entry}
		}
	}
	return nil
}

func normalizeAll(paths []string) []string {
	var out []string
	for _, p := range paths {
		if n := fspath.Normalize(strings.TrimSpace(p)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
