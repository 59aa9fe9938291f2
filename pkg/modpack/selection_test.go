// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vsmodpack/vsmodpack/internal/testutil"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank entries only", " ; ;;", nil},
		{"single", "mod.dll", []string{"mod.dll"}},
		{"trims whitespace", "  mod.dll ; assets/tex.png  ", []string{"mod.dll", filepath.Join("assets", "tex.png")}},
		{"backslashes", `assets\tex.png`, []string{filepath.Join("assets", "tex.png")}},
		{"trailing separator", "assets/", []string{"assets"}},
		{"keeps order and duplicates", "b;a;b", []string{"b", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseList(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("ParseList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		include   []string
		exclude   []string
		wantMode  Mode
		wantPaths []string
		wantErr   error
	}{
		{name: "neither", wantMode: ModeAll},
		{name: "blank lists count as empty", include: []string{" "}, exclude: []string{""}, wantMode: ModeAll},
		{name: "include", include: []string{"mod.dll"}, wantMode: ModeInclude, wantPaths: []string{"mod.dll"}},
		{name: "exclude", exclude: []string{"debug.pdb"}, wantMode: ModeExclude, wantPaths: []string{"debug.pdb"}},
		{name: "both", include: []string{"a"}, exclude: []string{"b"}, wantErr: ErrConflictingSelection},
		{name: "absolute include", include: []string{filepath.Join(os.TempDir(), "hostname")}, wantErr: ErrInvalidEntry},
		{name: "escaping include", include: []string{"mod.dll", filepath.Join("..", "secret")}, wantErr: ErrInvalidEntry},
		{name: "escaping exclude matches nothing", exclude: []string{filepath.Join("..", "secret")}, wantMode: ModeExclude, wantPaths: []string{filepath.Join("..", "secret")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel, err := Select(tt.include, tt.exclude)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Select() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() unexpected error: %v", err)
			}
			if sel.Mode != tt.wantMode {
				t.Errorf("Mode = %s, want %s", sel.Mode, tt.wantMode)
			}
			if !slices.Equal(sel.Paths, tt.wantPaths) {
				t.Errorf("Paths = %q, want %q", sel.Paths, tt.wantPaths)
			}
		})
	}
}

func TestSelection_Files(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"mod.dll":        "dll",
		"mod.pdb":        "pdb",
		"assets/tex.png": "png",
	})
	out := types.FilesystemPath(root)
	tex := filepath.Join("assets", "tex.png")

	tests := []struct {
		name    string
		sel     Selection
		want    []string
		wantErr error
	}{
		{"all", Selection{Mode: ModeAll}, []string{tex, "mod.dll", "mod.pdb"}, nil},
		{"exclude exact match", Selection{Mode: ModeExclude, Paths: []string{"mod.pdb"}}, []string{tex, "mod.dll"}, nil},
		{"exclude nested", Selection{Mode: ModeExclude, Paths: []string{tex}}, []string{"mod.dll", "mod.pdb"}, nil},
		{"exclude directory name matches nothing", Selection{Mode: ModeExclude, Paths: []string{"assets"}}, []string{tex, "mod.dll", "mod.pdb"}, nil},
		{"include as given", Selection{Mode: ModeInclude, Paths: []string{"mod.pdb", "missing.txt"}}, []string{"mod.pdb", "missing.txt"}, nil},
		{"include escaping root", Selection{Mode: ModeInclude, Paths: []string{filepath.Join("..", "secret")}}, nil, ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.sel.Files(out)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Files() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Files() unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Files() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelection_Files_SymlinkedDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	shared := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"mod.dll": "dll"})
	testutil.WriteTree(t, shared, map[string]string{"tex.png": "png"})
	if err := os.Symlink(shared, filepath.Join(root, "assets")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	// A link back to the root must not be walked forever.
	if err := os.Symlink(root, filepath.Join(root, "loop")); err != nil {
		t.Fatalf("Symlink() error: %v", err)
	}

	got, err := (Selection{Mode: ModeAll}).Files(types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("Files() unexpected error: %v", err)
	}
	want := []string{filepath.Join("assets", "tex.png"), "mod.dll"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %q, want %q", got, want)
	}
}

func TestSelection_Files_MissingRoot(t *testing.T) {
	t.Parallel()

	missing := types.FilesystemPath(filepath.Join(t.TempDir(), "nope"))
	if _, err := (Selection{Mode: ModeAll}).Files(missing); err == nil {
		t.Fatal("Files() expected error for missing output directory")
	}
}
