// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/config"
	"github.com/vsmodpack/vsmodpack/internal/packager"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

func newValidateCommand(app *App) *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the project's mod info without writing anything",
		Long: `Load the project's modinfo.json or modinfo.yaml, check that the required
fields are present and that the document matches the mod info schema, and
report non-fatal notes such as non-semver versions.

Nothing is written. The exit code matches what pack would return for the
same manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd, projectDir)
			if err != nil {
				return err
			}

			result, err := packager.Check(packager.Options{
				ProjectDir:  types.FilesystemPath(projectDir),
				ModInfoType: cfg.ModInfoType,
			}, app.logger())
			if err != nil {
				return pipelineExit(err)
			}

			renderCheckResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectDir, "project-dir", ".", "directory holding modinfo.json or modinfo.yaml")
	cmd.Flags().String("modinfo-type", config.DefaultConfig().ModInfoType, "manifest source: auto, json or yaml")

	return cmd
}

func renderCheckResult(w io.Writer, result *packager.Result) {
	fmt.Fprintf(w, "%s %s is valid (%s)\n", successIcon, PathStyle.Render(string(result.Source.Path)), result.Source.Format)
	for _, note := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warningIcon, WarningStyle.Render(note))
	}
}
