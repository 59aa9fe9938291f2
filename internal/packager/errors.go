// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"

	"github.com/vsmodpack/vsmodpack/pkg/cueutil"
	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/modpack"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

// Error kinds, in the order Kind checks them.
const (
	// KindFilesystem covers I/O failures and anything unclassified.
	KindFilesystem ErrorKind = iota
	// KindConfiguration is an invalid option value, reported before any I/O.
	KindConfiguration
	// KindNotFound means no manifest exists for the active format preference.
	KindNotFound
	// KindParse means the chosen manifest is malformed.
	KindParse
	// KindValidation means the manifest lacks required fields or breaks the schema.
	KindValidation
)

var (
	// ErrMissingAssemblyName is returned when no build identifier was supplied.
	ErrMissingAssemblyName = errors.New("assembly name must not be blank")
	// ErrMissingVersion is returned when neither an override nor a build version was supplied.
	ErrMissingVersion = errors.New("a build version or a version override is required")
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "filesystem"
	}
}

// ExitCode maps the kind to the process exit code.
func (k ErrorKind) ExitCode() types.ExitCode {
	switch k {
	case KindConfiguration:
		return types.ExitConfiguration
	case KindNotFound:
		return types.ExitManifestNotFound
	case KindParse:
		return types.ExitManifestParse
	case KindValidation:
		return types.ExitManifestInvalid
	default:
		return types.ExitFailure
	}
}

// Kind classifies err by the sentinel errors in its chain.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingAssemblyName),
		errors.Is(err, ErrMissingVersion),
		errors.Is(err, types.ErrInvalidFilesystemPath),
		errors.Is(err, modinfo.ErrInvalidFormat),
		errors.Is(err, modinfo.ErrEmptyFallbackID),
		errors.Is(err, modpack.ErrConflictingSelection),
		errors.Is(err, modpack.ErrInvalidEntry):
		return KindConfiguration
	case errors.Is(err, modinfo.ErrNotFound):
		return KindNotFound
	case errors.Is(err, modinfo.ErrParse):
		return KindParse
	case errors.Is(err, modinfo.ErrMissingFields),
		errors.Is(err, cueutil.ErrSchemaViolation),
		errors.Is(err, modpack.ErrInvalidIdentifier):
		return KindValidation
	default:
		return KindFilesystem
	}
}
