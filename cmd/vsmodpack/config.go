// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/config"
)

// newConfigCommand creates the `vsmodpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	var projectDir string

	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect vsmodpack configuration",
		Long: `Inspect vsmodpack configuration.

Options are read from built-in defaults, then <project-dir>/vsmodpack.cue
(or the file given with --config), then VSMODPACK_* environment variables.
Command-line flags of 'vsmodpack pack' override all of them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cfgCmd.PersistentFlags().StringVar(&projectDir, "project-dir", ".", "directory searched for vsmodpack.cue")

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd, projectDir)
			if err != nil {
				return err
			}
			renderConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd, projectDir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func renderConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Configuration"))

	source := "(defaults, no config file)"
	if cfg.Source != "" {
		source = string(cfg.Source)
	}
	fmt.Fprintf(w, "%s %s\n\n", SubtitleStyle.Render("source:"), PathStyle.Render(source))

	rows := []struct {
		key   string
		value string
	}{
		{"modinfo_type", cfg.ModInfoType},
		{"version", cfg.Version},
		{"make_zip", strconv.FormatBool(cfg.MakeZip)},
		{"version_zip_name", strconv.FormatBool(cfg.VersionZipName)},
		{"include", cfg.Include},
		{"exclude", cfg.Exclude},
		{"ui.verbose", strconv.FormatBool(cfg.UI.Verbose)},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = SubtitleStyle.Render("(not set)")
		}
		fmt.Fprintf(w, "  %s = %s\n", KeyStyle.Render(r.key), value)
	}
}
