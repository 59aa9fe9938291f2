// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrSchemaViolation is the sentinel error wrapped by SchemaError.
var ErrSchemaViolation = errors.New("schema violation")

// SchemaError lists every schema violation found in one document.
type SchemaError struct {
	// FilePath is the file being validated.
	FilePath string

	// Problems holds one "<json-path>: <message>" line per violation.
	Problems []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Problems[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(e.Problems, "\n  "))
}

// Unwrap returns ErrSchemaViolation for errors.Is() compatibility.
func (e *SchemaError) Unwrap() error { return ErrSchemaViolation }

// FormatError formats a CUE error with JSON path prefixes for clear error messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - modinfo.json: textureSize: invalid value 0 (out of bound >0)
//   - vsmodpack.cue: make_zip: conflicting values "yes" and bool
//
// Errors that do not originate from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	problems := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		if pathStr != "" {
			problems = append(problems, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			problems = append(problems, msg)
		}
	}

	return &SchemaError{FilePath: filePath, Problems: problems}
}

// formatPath converts a CUE error path to JSON-path notation for user-facing messages.
// CUE provides error paths as flat string slices (e.g., ["authors", "0"]) where
// numeric elements represent array indices; the result is "authors[0]".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
// Returns an error if the size limit is exceeded.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
