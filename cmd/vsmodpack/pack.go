// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/config"
	"github.com/vsmodpack/vsmodpack/internal/packager"
	"github.com/vsmodpack/vsmodpack/internal/watch"
	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

type packFlags struct {
	projectDir   string
	outputDir    string
	assemblyName string
	buildVersion string
	watch        bool
	debounce     time.Duration
}

func newPackCommand(app *App) *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write modinfo.json into the output directory and optionally zip it",
		Long: `Resolve the project's mod info and write modinfo.json into the build
output directory.

The manifest is read from modinfo.json or modinfo.yaml in the project
directory (--modinfo-type picks one, "auto" tries json first). A missing
modId defaults to --assembly-name, and the version is always set from
--mod-version or, when that is blank, --build-version.

With --zip the output directory is packed into <output>/<id>/<id>-<version>.zip
next to a copy of modinfo.json. --include and --exclude take semicolon
separated relative paths and cannot be combined.`,
		Example: `  vsmodpack pack -o bin/Release --assembly-name mymod --build-version 1.2.0
  vsmodpack pack -o bin/Release --assembly-name mymod --build-version 1.2.0 --zip --exclude "mymod.pdb"
  vsmodpack pack -o out --assembly-name mymod --build-version 1.0.0 --zip --include "mymod.dll;assets/tex.png"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPack(cmd, app, flags)
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().StringVar(&flags.projectDir, "project-dir", ".", "directory holding modinfo.json or modinfo.yaml")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "build output directory (required)")
	cmd.Flags().StringVar(&flags.assemblyName, "assembly-name", "", "fallback mod id when the manifest has none (required)")
	cmd.Flags().StringVar(&flags.buildVersion, "build-version", "", "version reported by the build")
	cmd.Flags().String("mod-version", defaults.Version, "version that overrides --build-version")
	cmd.Flags().String("modinfo-type", defaults.ModInfoType, "manifest source: auto, json or yaml")
	cmd.Flags().Bool("zip", defaults.MakeZip, "assemble a zip archive of the output directory")
	cmd.Flags().Bool("version-zip-name", defaults.VersionZipName, "append the version to the archive name")
	cmd.Flags().String("include", defaults.Include, "semicolon separated files to archive")
	cmd.Flags().String("exclude", defaults.Exclude, "semicolon separated files to leave out of the archive")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever the manifest or build output changes")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before a watch rebuild")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runPack(cmd *cobra.Command, app *App, flags packFlags) error {
	if flags.watch {
		return watchPack(cmd, app, flags)
	}

	result, err := packOnce(cmd, app, flags)
	if err != nil {
		return err
	}
	renderPackResult(cmd.OutOrStdout(), result)
	return nil
}

// packOnce loads options and runs the pipeline. Errors are ExitErrors.
func packOnce(cmd *cobra.Command, app *App, flags packFlags) (*packager.Result, error) {
	cfg, err := app.loadConfig(cmd, flags.projectDir)
	if err != nil {
		return nil, err
	}

	opts := packager.Options{
		ProjectDir:      types.FilesystemPath(flags.projectDir),
		OutputDir:       types.FilesystemPath(flags.outputDir),
		AssemblyName:    flags.assemblyName,
		BuildVersion:    flags.buildVersion,
		VersionOverride: cfg.Version,
		ModInfoType:     cfg.ModInfoType,
		MakeZip:         cfg.MakeZip,
		VersionZipName:  cfg.VersionZipName,
		Include:         cfg.Include,
		Exclude:         cfg.Exclude,
	}

	result, err := packager.Run(opts, app.logger())
	if err != nil {
		return nil, pipelineExit(err)
	}
	return result, nil
}

func renderPackResult(w io.Writer, result *packager.Result) {
	m := result.ModInfo
	fmt.Fprintf(w, "%s %s %s\n", successIcon, TitleStyle.Render(m.Name.OrElse("")), SubtitleStyle.Render(modSummary(m)))
	fmt.Fprintf(w, "  %s manifest: %s\n", infoIcon, PathStyle.Render(string(result.ManifestPath)))
	for _, note := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warningIcon, WarningStyle.Render(note))
	}
	if result.Archive == nil {
		return
	}
	fmt.Fprintf(w, "  %s archive:  %s (%d files)\n", infoIcon, PathStyle.Render(string(result.Archive.ArchivePath)), len(result.Archive.Entries))
}

// modSummary renders "(<id> <version>)".
func modSummary(m *modinfo.ModInfo) string {
	return fmt.Sprintf("(%s %s)", m.ID(), m.Version.OrElse(""))
}
