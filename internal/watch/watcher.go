// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files under a set of directories
// change. Events inside the debounce window are coalesced so the callback
// fires once with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher already running")

	// defaultIgnores are editor and VCS paths that never trigger a rebuild.
	defaultIgnores = []string{
		"**/.git/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are watched recursively. At least one is required.
		Roots []types.FilesystemPath

		// Ignore are doublestar patterns matched against absolute,
		// slash-separated paths. They are merged with the built-in ignores.
		Ignore []string

		// Skip reports additional paths that never trigger OnChange. It is
		// consulted for every event, so its answer may change between runs.
		Skip func(path string) bool

		// Debounce is the quiet period after the last event before OnChange fires.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated absolute paths that changed.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// InvalidWatchConfigError collects every invalid field of a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors Config.Roots and fires a debounced OnChange.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d field error(s): %s", ErrInvalidWatchConfig, len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate checks roots and ignore patterns without touching the filesystem.
func (c Config) Validate() error {
	var errs []error
	if len(c.Roots) == 0 {
		errs = append(errs, errors.New("at least one root is required"))
	}
	for _, root := range c.Roots {
		if err := root.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("root: %w", err))
		}
	}
	for _, pat := range c.Ignore {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q", pat))
		}
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// New validates cfg and registers every non-ignored directory under its roots.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		logger:   logger,
		debounce: debounce,
	}

	for _, root := range cfg.Roots {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run processes events until ctx is canceled. It returns nil on cancellation
// and an error when the underlying watcher breaks. OnChange never runs
// concurrently with itself; events arriving during a run are kept for the next.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}

		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("rebuild failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if w.ignored(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.addNewDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// addTree registers root and its non-ignored subdirectories.
func (w *Watcher) addTree(root types.FilesystemPath) error {
	abs, err := filepath.Abs(string(root))
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", root, err)
	}

	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch: register %s: %w", root, err)
	}
	return nil
}

// addNewDir extends the watch to a directory created after startup.
func (w *Watcher) addNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("cannot watch new directory", "path", path, "err", err)
	}
}

// ignored reports whether path matches an ignore pattern or Skip.
func (w *Watcher) ignored(path string) bool {
	if w.cfg.Skip != nil && w.cfg.Skip(path) {
		return true
	}
	normalized := filepath.ToSlash(path)
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

