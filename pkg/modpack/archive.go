// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// ArchiveExt is the extension of produced archives.
const ArchiveExt = ".zip"

var (
	// ErrInvalidIdentifier is the sentinel error wrapped by InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid mod identifier")

	// ErrNotRegularFile is returned when an include entry names a directory or special file.
	ErrNotRegularFile = errors.New("not a regular file")
)

type (
	// AssembleOptions configures Assemble.
	AssembleOptions struct {
		// OutputDir is the build output directory that holds the files to pack.
		OutputDir types.FilesystemPath
		// Include and Exclude are normalized relative paths; at most one may be non-empty.
		Include []string
		Exclude []string
		// ModID names the archive subdirectory and the archive itself.
		ModID string
		// Version is appended to the archive name when VersionInName is set.
		Version       string
		VersionInName bool
		// ManifestPath is the written modinfo.json copied next to the archive.
		ManifestPath types.FilesystemPath
	}

	// Result describes a placed archive.
	Result struct {
		Dir          types.FilesystemPath
		ArchivePath  types.FilesystemPath
		ManifestPath types.FilesystemPath
		// Entries are the archive entry names in insertion order.
		Entries []string
	}

	// Entry is a file stored in an archive.
	Entry struct {
		Name string
		Size uint64
	}

	// InvalidIdentifierError is returned when a mod identifier cannot be used
	// as a single directory name.
	InvalidIdentifierError struct {
		ID string
	}
)

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid mod id %q: must be a single path element", e.ID)
}

// Unwrap returns ErrInvalidIdentifier for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// ArchiveName returns "<id>.zip", or "<id>-<version>.zip" when withVersion is
// set and version is non-empty. The version is used literally.
func ArchiveName(id, version string, withVersion bool) string {
	if withVersion && version != "" {
		return id + "-" + version + ArchiveExt
	}
	return id + ArchiveExt
}

// ValidateIdentifier checks that id is usable as a single directory name.
func ValidateIdentifier(id string) error {
	switch {
	case strings.TrimSpace(id) == "",
		id == ".", id == "..",
		strings.ContainsAny(id, `/\`),
		!fspath.IsLocal(id):
		return &InvalidIdentifierError{ID: id}
	}
	return nil
}

// Assemble zips the selected files of opts.OutputDir and places the archive
// and a copy of the manifest into a fresh <OutputDir>/<ModID>/ directory.
// Any previous contents of that directory are removed before files are
// enumerated, so a rerun never packs its own earlier output. On failure the
// staged archive and the partially populated directory are removed.
func Assemble(opts AssembleOptions) (result *Result, err error) {
	sel, err := Select(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if err = ValidateIdentifier(opts.ModID); err != nil {
		return nil, err
	}

	modDir := fspath.JoinStr(opts.OutputDir, opts.ModID)
	if err = os.RemoveAll(string(modDir)); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", modDir, err)
	}

	files, err := sel.Files(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	tmpZip, entries, err := stageArchive(opts.OutputDir, opts.ModID, files)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(string(tmpZip)) // Best-effort cleanup of the staged archive
			_ = os.RemoveAll(string(modDir))
		}
	}()

	if err = os.MkdirAll(string(modDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", modDir, err)
	}

	manifestDst := fspath.JoinStr(modDir, modinfo.FileName)
	if err = copyFile(opts.ManifestPath, manifestDst); err != nil {
		return nil, fmt.Errorf("failed to copy manifest: %w", err)
	}

	archivePath := fspath.JoinStr(modDir, ArchiveName(opts.ModID, opts.Version, opts.VersionInName))
	if err = os.Rename(string(tmpZip), string(archivePath)); err != nil {
		return nil, fmt.Errorf("failed to place archive: %w", err)
	}

	return &Result{
		Dir:          modDir,
		ArchivePath:  archivePath,
		ManifestPath: manifestDst,
		Entries:      entries,
	}, nil
}

// stageArchive writes files into a temporary zip inside outputDir. The temp
// name starts with a dot so it never collides with a selected file.
func stageArchive(outputDir types.FilesystemPath, id string, files []string) (tmpPath types.FilesystemPath, entries []string, err error) {
	zipFile, err := os.CreateTemp(string(outputDir), "."+id+"-*"+ArchiveExt+".tmp")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary archive: %w", err)
	}
	staged := zipFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(staged)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entries = make([]string, 0, len(files))
	for _, rel := range files {
		name, addErr := addFile(zipWriter, outputDir, rel)
		if addErr != nil {
			return "", nil, addErr
		}
		entries = append(entries, name)
	}

	return types.FilesystemPath(staged), entries, nil
}

func addFile(zw *zip.Writer, root types.FilesystemPath, rel string) (string, error) {
	src := fspath.JoinStr(root, rel)

	info, err := os.Stat(string(src))
	if err != nil {
		return "", fmt.Errorf("failed to add %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("failed to add %s: %w", rel, ErrNotRegularFile)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return "", fmt.Errorf("failed to create file header: %w", err)
	}
	// Use forward slashes for ZIP compatibility
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return "", fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	f, err := os.Open(string(src))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", rel, err)
	}
	defer func() { _ = f.Close() }() // Read-only file; close error is non-critical

	if _, err := io.Copy(w, f); err != nil {
		return "", fmt.Errorf("failed to write file data: %w", err)
	}
	return header.Name, nil
}

func copyFile(src, dst types.FilesystemPath) (err error) {
	in, err := os.Open(string(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }() // Read-only file; close error is non-critical

	out, err := os.OpenFile(string(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// ListEntries returns the file entries of a zip archive in stored order.
func ListEntries(zipPath types.FilesystemPath) (entries []Entry, err error) {
	r, err := zip.OpenReader(string(zipPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{Name: f.Name, Size: f.UncompressedSize64})
	}
	return entries, nil
}
