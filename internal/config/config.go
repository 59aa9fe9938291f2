// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/vsmodpack/vsmodpack/internal/issue"
	"github.com/vsmodpack/vsmodpack/pkg/cueutil"
	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "vsmodpack"
	// ConfigFileName is the name of the project config file (without extension).
	ConfigFileName = "vsmodpack"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment variable override (VSMODPACK_MAKE_ZIP, ...).
	EnvPrefix = "VSMODPACK"
)

//go:embed config_schema.cue
var configSchema string

// flagBindings maps config keys to the command-line flags that override them.
var flagBindings = []struct {
	key  string
	flag string
}{
	{"modinfo_type", "modinfo-type"},
	{"version", "mod-version"},
	{"make_zip", "zip"},
	{"version_zip_name", "version-zip-name"},
	{"include", "include"},
	{"exclude", "exclude"},
	{"ui.verbose", "verbose"},
}

// ProjectConfigPath returns the path of the project config file inside dir.
func ProjectConfigPath(dir types.FilesystemPath) types.FilesystemPath {
	return fspath.JoinStr(dir, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("modinfo_type", defaults.ModInfoType)
	v.SetDefault("version", defaults.Version)
	v.SetDefault("make_zip", defaults.MakeZip)
	v.SetDefault("version_zip_name", defaults.VersionZipName)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	source, err := loadConfigFile(v, opts)
	if err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for _, b := range flagBindings {
			f := opts.Flags.Lookup(b.flag)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", b.flag, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("modinfo_type accepts exactly 'auto', 'json' or 'yaml'").
			WithSuggestion("Check VSMODPACK_* environment variables and command-line flags").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// loadConfigFile merges the explicit config file, or the project config file
// when present, into v. It returns the merged path, or "" when none was used.
func loadConfigFile(v *viper.Viper, opts LoadOptions) (types.FilesystemPath, error) {
	path := opts.ConfigFilePath
	if path == "" {
		if opts.ProjectDir == "" {
			return "", nil
		}
		path = ProjectConfigPath(opts.ProjectDir)
		if !fileExists(path) {
			return "", nil
		}
	} else if !fileExists(path) {
		return "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path.String()).
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'vsmodpack config show' to see the effective configuration").
			Wrap(fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)).
			BuildError()
	}

	if err := loadCUEIntoViper(v, path); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path.String()).
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Verify the configuration values match the expected schema").
			Wrap(err).
			BuildError()
	}
	return path, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The file decodes to map[string]any rather than Config so that Viper keeps
// track of which keys were actually set, and env/flag layers still apply.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	parsed, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path.String()))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*parsed.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// vsmodpack configuration\n\n")
	fmt.Fprintf(&sb, "modinfo_type: %q\n", cfg.ModInfoType)
	if cfg.Version != "" {
		fmt.Fprintf(&sb, "version: %q\n", cfg.Version)
	}
	fmt.Fprintf(&sb, "make_zip: %v\n", cfg.MakeZip)
	fmt.Fprintf(&sb, "version_zip_name: %v\n", cfg.VersionZipName)
	if cfg.Include != "" {
		fmt.Fprintf(&sb, "include: %q\n", cfg.Include)
	}
	if cfg.Exclude != "" {
		fmt.Fprintf(&sb, "exclude: %q\n", cfg.Exclude)
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
