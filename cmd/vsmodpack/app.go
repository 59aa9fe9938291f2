// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/config"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App reference and reads options through its ConfigProvider.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// verbose and configPath are bound to the root persistent flags.
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates a new App with the given dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig resolves options for cmd. The command's own flags are layered
// on top of the project file and environment. A load failure is returned as
// a configuration ExitError.
func (a *App) loadConfig(cmd *cobra.Command, projectDir string) (*config.Config, error) {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
		ProjectDir:     types.FilesystemPath(projectDir),
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return nil, configExit(err)
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return cfg, nil
}

// logger returns the pipeline logger writing to stderr.
func (a *App) logger() *log.Logger {
	level := log.InfoLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
}
