// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/issue"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vsmodpack",
		Short: "Package Vintage Story mods for distribution",
		Long: TitleStyle.Render("vsmodpack") + SubtitleStyle.Render(" - Package Vintage Story mods for distribution") + `

vsmodpack reads a mod's modinfo.json or modinfo.yaml, fills in the mod id
and version, writes modinfo.json into the build output directory and can
pack the output into a distributable zip archive.

Options come from built-in defaults, an optional vsmodpack.cue in the
project directory, VSMODPACK_* environment variables and flags, in that
order.

` + SubtitleStyle.Render("Examples:") + `
  vsmodpack pack -o bin/Release --assembly-name mymod --build-version 1.2.0
  vsmodpack pack -o bin/Release --assembly-name mymod --build-version 1.2.0 --zip
  vsmodpack validate --project-dir src/mymod
  vsmodpack inspect bin/Release/mymod/mymod-1.2.0.zip
  vsmodpack config show`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is <project-dir>/vsmodpack.cue)")

	rootCmd.AddCommand(newPackCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by the failing command.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose, isTerminal(app.stderr))
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// renderError prints err and, in verbose mode, the troubleshooting guide of
// the issue it carries.
func renderError(w io.Writer, err error, verbose, tty bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	guide := issue.Get(ae.Issue)
	if guide == nil {
		return
	}
	style := "notty"
	if tty {
		style = "dark"
	}
	rendered, renderErr := guide.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(term.File)
	return ok && term.IsTerminal(f.Fd())
}
