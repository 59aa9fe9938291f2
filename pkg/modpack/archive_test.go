// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vsmodpack/vsmodpack/internal/testutil"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

const testManifest = `{
  "type": "Code",
  "modId": "mymod",
  "name": "My Mod",
  "version": "1.2.0"
}
`

func newOutputDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"mod.dll":        "dll bytes",
		"assets/tex.png": "png bytes",
		"modinfo.json":   testManifest,
	})
	return root
}

func baseOptions(root string) AssembleOptions {
	return AssembleOptions{
		OutputDir:     types.FilesystemPath(root),
		ModID:         "mymod",
		Version:       "1.2.0",
		VersionInName: true,
		ManifestPath:  types.FilesystemPath(filepath.Join(root, "modinfo.json")),
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id, version string
		withVersion bool
		want        string
	}{
		{"mymod", "1.2.0", true, "mymod-1.2.0.zip"},
		{"mymod", "1.2.0", false, "mymod.zip"},
		{"mymod", "", true, "mymod.zip"},
		{"mymod", "1.0.0-rc.1+build", true, "mymod-1.0.0-rc.1+build.zip"},
	}

	for _, tt := range tests {
		if got := ArchiveName(tt.id, tt.version, tt.withVersion); got != tt.want {
			t.Errorf("ArchiveName(%q, %q, %v) = %q, want %q", tt.id, tt.version, tt.withVersion, got, tt.want)
		}
	}
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()

	valid := []string{"mymod", "my-mod_2", "MyMod.Core"}
	for _, id := range valid {
		if err := ValidateIdentifier(id); err != nil {
			t.Errorf("ValidateIdentifier(%q) unexpected error: %v", id, err)
		}
	}

	invalid := []string{"", "  ", ".", "..", "a/b", `a\b`, "/abs"}
	for _, id := range invalid {
		err := ValidateIdentifier(id)
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("ValidateIdentifier(%q) error = %v, want ErrInvalidIdentifier", id, err)
		}
	}
}

func TestAssemble_AllFiles(t *testing.T) {
	t.Parallel()

	root := newOutputDir(t)

	res, err := Assemble(baseOptions(root))
	if err != nil {
		t.Fatalf("Assemble() unexpected error: %v", err)
	}

	wantArchive := filepath.Join(root, "mymod", "mymod-1.2.0.zip")
	if string(res.ArchivePath) != wantArchive {
		t.Errorf("ArchivePath = %q, want %q", res.ArchivePath, wantArchive)
	}
	if string(res.Dir) != filepath.Join(root, "mymod") {
		t.Errorf("Dir = %q", res.Dir)
	}

	wantEntries := []string{"assets/tex.png", "mod.dll", "modinfo.json"}
	if !slices.Equal(res.Entries, wantEntries) {
		t.Errorf("Entries = %q, want %q", res.Entries, wantEntries)
	}

	got := testutil.ListTree(t, filepath.Join(root, "mymod"))
	if want := []string{"modinfo.json", "mymod-1.2.0.zip"}; !slices.Equal(got, want) {
		t.Errorf("mod directory = %q, want %q", got, want)
	}

	if content := testutil.MustReadFile(t, string(res.ManifestPath)); content != testManifest {
		t.Errorf("copied manifest = %q, want %q", content, testManifest)
	}

	listed, err := ListEntries(res.ArchivePath)
	if err != nil {
		t.Fatalf("ListEntries() unexpected error: %v", err)
	}
	names := make([]string, len(listed))
	for i, e := range listed {
		names[i] = e.Name
	}
	if !slices.Equal(names, wantEntries) {
		t.Errorf("ListEntries() = %q, want %q", names, wantEntries)
	}
	if listed[1].Size != uint64(len("dll bytes")) {
		t.Errorf("mod.dll size = %d, want %d", listed[1].Size, len("dll bytes"))
	}

	// No staged archive is left behind in the output directory.
	for _, f := range testutil.ListTree(t, root) {
		if filepath.Ext(f) == ".tmp" {
			t.Errorf("leftover temporary file %s", f)
		}
	}
}

func TestAssemble_Selection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"include", []string{"mod.dll", "modinfo.json"}, nil, []string{"mod.dll", "modinfo.json"}},
		{"exclude with backslash", nil, ParseList(`assets\tex.png`), []string{"mod.dll", "modinfo.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := newOutputDir(t)
			opts := baseOptions(root)
			opts.Include = tt.include
			opts.Exclude = tt.exclude

			res, err := Assemble(opts)
			if err != nil {
				t.Fatalf("Assemble() unexpected error: %v", err)
			}
			if !slices.Equal(res.Entries, tt.want) {
				t.Errorf("Entries = %q, want %q", res.Entries, tt.want)
			}
		})
	}
}

func TestAssemble_NoVersionInName(t *testing.T) {
	t.Parallel()

	root := newOutputDir(t)
	opts := baseOptions(root)
	opts.VersionInName = false

	res, err := Assemble(opts)
	if err != nil {
		t.Fatalf("Assemble() unexpected error: %v", err)
	}
	if want := filepath.Join(root, "mymod", "mymod.zip"); string(res.ArchivePath) != want {
		t.Errorf("ArchivePath = %q, want %q", res.ArchivePath, want)
	}
}

func TestAssemble_RerunReplacesPreviousOutput(t *testing.T) {
	t.Parallel()

	root := newOutputDir(t)
	if _, err := Assemble(baseOptions(root)); err != nil {
		t.Fatalf("first Assemble() unexpected error: %v", err)
	}
	testutil.WriteTree(t, root, map[string]string{"mymod/stale.txt": "old"})

	res, err := Assemble(baseOptions(root))
	if err != nil {
		t.Fatalf("second Assemble() unexpected error: %v", err)
	}

	for _, e := range res.Entries {
		if filepath.Dir(filepath.FromSlash(e)) == "mymod" {
			t.Errorf("archive contains previous output entry %q", e)
		}
	}
	got := testutil.ListTree(t, filepath.Join(root, "mymod"))
	if want := []string{"modinfo.json", "mymod-1.2.0.zip"}; !slices.Equal(got, want) {
		t.Errorf("mod directory = %q, want %q", got, want)
	}
}

func TestAssemble_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*AssembleOptions)
		wantErr error
	}{
		{"conflicting selection", func(o *AssembleOptions) {
			o.Include = []string{"mod.dll"}
			o.Exclude = []string{"mod.pdb"}
		}, ErrConflictingSelection},
		{"invalid id", func(o *AssembleOptions) { o.ModID = "a/b" }, ErrInvalidIdentifier},
		{"missing include", func(o *AssembleOptions) { o.Include = []string{"missing.dll"} }, fs.ErrNotExist},
		{"directory include", func(o *AssembleOptions) { o.Include = []string{"assets"} }, ErrNotRegularFile},
		{"escaping include", func(o *AssembleOptions) { o.Include = []string{filepath.Join("..", "x")} }, ErrInvalidEntry},
		{"missing manifest", func(o *AssembleOptions) {
			o.ManifestPath = types.FilesystemPath(filepath.Join(string(o.OutputDir), "nope.json"))
		}, fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := newOutputDir(t)
			before := testutil.ListTree(t, root)

			opts := baseOptions(root)
			tt.modify(&opts)

			_, err := Assemble(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Assemble() error = %v, want %v", err, tt.wantErr)
			}

			if after := testutil.ListTree(t, root); !slices.Equal(after, before) {
				t.Errorf("output directory changed on failure: %q, want %q", after, before)
			}
			if _, statErr := os.Stat(filepath.Join(root, "mymod")); !errors.Is(statErr, fs.ErrNotExist) {
				t.Errorf("mod directory should not exist after failure, stat error = %v", statErr)
			}
		})
	}
}

func TestListEntries_NotZip(t *testing.T) {
	t.Parallel()

	root := newOutputDir(t)
	if _, err := ListEntries(types.FilesystemPath(filepath.Join(root, "mod.dll"))); err == nil {
		t.Fatal("ListEntries() expected error for non-zip file")
	}
}
