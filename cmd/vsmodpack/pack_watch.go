// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/watch"
	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// artifactFilter recognizes files written by pack itself so that a rebuild
// does not trigger another one.
type artifactFilter struct {
	outputDir  string
	archiveDir atomic.Pointer[string]
}

func newArtifactFilter(outputDir types.FilesystemPath) (*artifactFilter, error) {
	abs, err := fspath.Abs(outputDir)
	if err != nil {
		return nil, err
	}
	return &artifactFilter{outputDir: string(abs)}, nil
}

// setArchiveDir records the archive directory of the last successful run.
func (f *artifactFilter) setArchiveDir(dir types.FilesystemPath) {
	abs, err := fspath.Abs(dir)
	if err != nil {
		return
	}
	s := string(abs)
	f.archiveDir.Store(&s)
}

// skip reports whether path is modinfo.json or a staging file in the output
// directory, or lies inside the last archive directory.
func (f *artifactFilter) skip(path string) bool {
	if filepath.Dir(path) == f.outputDir {
		name := filepath.Base(path)
		if name == modinfo.FileName || (strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")) {
			return true
		}
	}
	if dir := f.archiveDir.Load(); dir != nil {
		return path == *dir || strings.HasPrefix(path, *dir+string(filepath.Separator))
	}
	return false
}

// watchPack runs pack once, then again after every change to the project or
// output directory until the command context is canceled. Failed runs are
// reported and the watch continues.
func watchPack(cmd *cobra.Command, app *App, flags packFlags) error {
	filter, err := newArtifactFilter(types.FilesystemPath(flags.outputDir))
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
	logger := app.logger()

	build := func() {
		result, err := packOnce(cmd, app, flags)
		if err != nil {
			renderError(app.stderr, err, app.verbose, false)
			return
		}
		if result.Archive != nil {
			filter.setArchiveDir(result.Archive.Dir)
		}
		renderPackResult(cmd.OutOrStdout(), result)
	}
	build()

	w, err := watch.New(watch.Config{
		Roots: []types.FilesystemPath{
			types.FilesystemPath(flags.projectDir),
			types.FilesystemPath(flags.outputDir),
		},
		Skip:     filter.skip,
		Debounce: flags.debounce,
		Logger:   logger,
		OnChange: func(_ context.Context, changed []string) error {
			logger.Info("change detected, rebuilding", "files", len(changed))
			logger.Debug("changed files", "paths", changed)
			build()
			return nil
		},
	})
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("start watch: %w", err)}
	}

	logger.Info("watching for changes", "project", flags.projectDir, "output", flags.outputDir)
	return w.Run(cmd.Context())
}
