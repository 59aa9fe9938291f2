// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for vsmodpack.
//
// The root command carries the global --verbose and --config flags. Its
// subcommands are pack (the packaging pipeline), validate (manifest checks
// without writing), inspect (list an archive) and config (show the
// effective options).
package cmd
