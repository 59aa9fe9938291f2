// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means the run completed.
	ExitSuccess ExitCode = 0
	// ExitFailure is used for filesystem and otherwise unclassified failures.
	ExitFailure ExitCode = 1
	// ExitConfiguration is used for invalid options (format preference, include/exclude).
	ExitConfiguration ExitCode = 2
	// ExitManifestNotFound is used when no modinfo file exists for the preference.
	ExitManifestNotFound ExitCode = 3
	// ExitManifestParse is used when the chosen modinfo file is malformed.
	ExitManifestParse ExitCode = 4
	// ExitManifestInvalid is used when required manifest fields are missing.
	ExitManifestInvalid ExitCode = 5
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates a successful run.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
