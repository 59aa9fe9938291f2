// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of any schema-checked input (5 MiB).
const DefaultMaxFileSize int64 = 5 << 20

type (
	// Option configures ParseAndDecode and ValidateBytes.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}

	// ParseResult contains the result of a successful CUE parse operation.
	ParseResult[T any] struct {
		// Value is the decoded Go value.
		Value *T

		// Unified is the unified CUE value.
		Unified cue.Value
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete controls whether every field must resolve to a concrete value.
// Partial documents that leave fields open use WithConcrete(false).
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// ParseAndDecode compiles schema, unifies data with the definition at
// schemaPath (e.g. "#Config"), validates the result and decodes it into T.
func ParseAndDecode[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, filename, err := unify(schema, data, schemaPath, opts)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}

// ValidateBytes checks data against the definition at schemaPath without decoding.
func ValidateBytes(schema string, data []byte, schemaPath string, opts ...Option) error {
	_, _, err := unify(schema, data, schemaPath, opts)
	return err
}

func unify(schema string, data []byte, schemaPath string, opts []Option) (cue.Value, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, filename, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, filename, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, filename, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, filename, FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, filename, FormatError(err, filename)
	}

	return unified, filename, nil
}
