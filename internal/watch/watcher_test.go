// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	var once sync.Once
	var runErr error
	stop := func() error {
		once.Do(func() {
			cancel()
			select {
			case runErr = <-errCh:
			case <-time.After(5 * time.Second):
				runErr = errors.New("timed out waiting for Run to return")
			}
		})
		return runErr
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []types.FilesystemPath{types.FilesystemPath(dir)},
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name))
		time.Sleep(10 * time.Millisecond)
	}

	var changed []string
	select {
	case changed = <-batches:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for any additional callbacks.
	time.Sleep(300 * time.Millisecond)
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if extra := len(batches); extra != 0 {
		t.Errorf("expected 1 debounced callback, got %d more", extra)
	}
	if !slices.IsSorted(changed) {
		t.Errorf("changed paths not sorted: %v", changed)
	}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if !slices.Contains(changed, filepath.Join(dir, name)) {
			t.Errorf("expected %s in changed files, got %v", name, changed)
		}
	}
}

func TestWatcherIgnoreAndSkip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	generated := filepath.Join(dir, "modinfo.json")
	batches := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []types.FilesystemPath{types.FilesystemPath(dir)},
		Ignore:   []string{"**/*.log"},
		Skip:     func(path string) bool { return path == generated },
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "build.log"))
	writeFile(t, generated)
	writeFile(t, filepath.Join(dir, "file.swp"))

	select {
	case changed := <-batches:
		t.Fatalf("ignored files triggered a callback: %v", changed)
	case <-time.After(400 * time.Millisecond):
	}

	writeFile(t, filepath.Join(dir, "mod.dll"))
	select {
	case changed := <-batches:
		if !slices.Equal(changed, []string{filepath.Join(dir, "mod.dll")}) {
			t.Errorf("changed = %v, want only mod.dll", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherMultipleRootsAndNewDirectories(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	output := t.TempDir()
	batches := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []types.FilesystemPath{types.FilesystemPath(project), types.FilesystemPath(output)},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	writeFile(t, filepath.Join(project, "modinfo.json"))
	select {
	case changed := <-batches:
		if !slices.Contains(changed, filepath.Join(project, "modinfo.json")) {
			t.Errorf("changed = %v, want project modinfo.json", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for project callback")
	}

	assets := filepath.Join(output, "assets")
	if err := os.Mkdir(assets, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the create event register the new directory first.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(assets, "tex.png"))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-batches:
			if slices.Contains(changed, filepath.Join(assets, "tex.png")) {
				return
			}
		case <-deadline:
			t.Fatal("file in new directory never reported")
		}
	}
}

func TestWatcherCallbackError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := make(chan struct{}, 10)

	w, err := New(Config{
		Roots:    []types.FilesystemPath{types.FilesystemPath(dir)},
		Debounce: 30 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			calls <- struct{}{}
			return errors.New("rebuild failed")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "a"))
	<-calls
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "b"))
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after a callback error")
	}

	if err := stop(); err != nil {
		t.Errorf("Run() error: %v", err)
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []types.FilesystemPath{types.FilesystemPath(t.TempDir())}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	// The background Run may not have started yet; wait until it has.
	deadline := time.Now().Add(5 * time.Second)
	for !w.started.Load() {
		if time.Now().After(deadline) {
			t.Fatal("Run never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestNew_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Roots: []types.FilesystemPath{types.FilesystemPath(filepath.Join(t.TempDir(), "missing"))}})
	if err == nil {
		t.Fatal("New() succeeded for a missing root")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        Config
		wantFields int
	}{
		{"valid", Config{Roots: []types.FilesystemPath{"src"}, Ignore: []string{"**/*.tmp"}}, 0},
		{"no roots", Config{}, 1},
		{"blank root", Config{Roots: []types.FilesystemPath{"  "}}, 1},
		{"bad pattern", Config{Roots: []types.FilesystemPath{"src"}, Ignore: []string{"[", ""}}, 2},
		{"everything wrong", Config{Roots: []types.FilesystemPath{""}, Ignore: []string{"{a"}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantFields == 0 {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidWatchConfig) {
				t.Fatalf("error should wrap ErrInvalidWatchConfig, got: %v", err)
			}
			var configErr *InvalidWatchConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("error should be *InvalidWatchConfigError, got: %T", err)
			}
			if len(configErr.FieldErrors) != tt.wantFields {
				t.Errorf("expected %d field errors, got %d: %v", tt.wantFields, len(configErr.FieldErrors), configErr.FieldErrors)
			}
			if !strings.Contains(err.Error(), "field error") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}
