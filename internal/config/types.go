// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
	// ErrConfigFileNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigFileNotFound = errors.New("config file not found")
)

type (
	// Config holds the packaging options.
	Config struct {
		// ModInfoType selects the manifest file: "auto", "json" or "yaml".
		ModInfoType string `json:"modinfo_type" mapstructure:"modinfo_type"`
		// Version overrides the build-supplied version when non-blank.
		Version string `json:"version" mapstructure:"version"`
		// MakeZip enables archive assembly.
		MakeZip bool `json:"make_zip" mapstructure:"make_zip"`
		// VersionZipName appends the version to the archive name.
		VersionZipName bool `json:"version_zip_name" mapstructure:"version_zip_name"`
		// Include is a semicolon-separated list of files to archive.
		Include string `json:"include" mapstructure:"include"`
		// Exclude is a semicolon-separated list of files to leave out.
		Exclude string `json:"exclude" mapstructure:"exclude"`
		// UI holds presentation settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the config file that was merged, empty when none was found.
		Source types.FilesystemPath `json:"-" mapstructure:"-"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ProjectDir is searched for vsmodpack.cue when ConfigFilePath is empty.
		ProjectDir types.FilesystemPath
		// Flags are bound on top of every other source when non-nil.
		Flags *pflag.FlagSet
	}

	// InvalidConfigError collects every invalid field of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError collects every invalid field of LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ModInfoType:    string(modinfo.FormatAuto),
		MakeZip:        false,
		VersionZipName: true,
	}
}

// Validate checks option values that the CUE schema cannot see, such as
// values that arrived through the environment or flags.
func (c *Config) Validate() error {
	var errs []error
	if _, err := modinfo.ParseFormat(c.ModInfoType); err != nil {
		errs = append(errs, fmt.Errorf("modinfo_type: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Validate rejects whitespace-only paths. Empty paths are allowed and mean
// "not set".
func (o LoadOptions) Validate() error {
	var errs []error
	if o.ConfigFilePath != "" {
		if err := o.ConfigFilePath.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config file: %w", err))
		}
	}
	if o.ProjectDir != "" {
		if err := o.ProjectDir.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("project dir: %w", err))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %s", joinErrors(e.FieldErrors))
}

// Unwrap exposes ErrInvalidLoadOptions and every field error to errors.Is/As.
func (e *InvalidLoadOptionsError) Unwrap() []error {
	return append([]error{ErrInvalidLoadOptions}, e.FieldErrors...)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
