// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsmodpack/vsmodpack/internal/issue"
	"github.com/vsmodpack/vsmodpack/pkg/modpack"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

func newInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the files stored in a mod archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := types.FilesystemPath(args[0])
			entries, err := modpack.ListEntries(path)
			if err != nil {
				return &ExitError{
					Code: types.ExitFailure,
					Err: issue.NewErrorContext().
						WithOperation("inspect archive").
						WithResource(string(path)).
						WithIssue(issue.ArchiveFailedId).
						WithSuggestion("Check that the path points to a zip archive produced by 'vsmodpack pack --zip'").
						Wrap(err).
						BuildError(),
				}
			}
			renderEntries(cmd.OutOrStdout(), path, entries)
			return nil
		},
	}
}

func renderEntries(w io.Writer, path types.FilesystemPath, entries []modpack.Entry) {
	var total uint64
	for _, e := range entries {
		total += e.Size
	}

	fmt.Fprintln(w, TitleStyle.Render(string(path)))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s %s %s\n", infoIcon, e.Name, SubtitleStyle.Render(formatFileSize(int64(e.Size))))
	}
	fmt.Fprintf(w, "%s %d files, %s\n", successIcon, len(entries), formatFileSize(int64(total)))
}

// formatFileSize formats a file size in human-readable form.
func formatFileSize(size int64) string {
	const (
		kb = 1024
		mb = kb * 1024
	)

	switch {
	case size >= mb:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
