// SPDX-License-Identifier: MPL-2.0

// Package config handles packaging options using Viper with CUE as the file format.
//
// Options are layered, lowest precedence first: built-in defaults, the project
// file (<project>/vsmodpack.cue, or the file named by --config), VSMODPACK_*
// environment variables and finally command-line flags. The project file is
// validated against the embedded config_schema.cue before it is merged.
package config
