// Package errors provides error handling for retrospec.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := decode(path); err != nil {
//	    return errors.Wrapf(err, "failed to decode %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run the parser with --render-as json")
//
// Only the glue around the generator returns errors. The generator core
// (symtab, ir, specgen/rspec) never fails a pass; it reports diagnostics
// through the logger instead.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrUnknownFormat indicates an AST dump whose encoding cannot be determined
	ErrUnknownFormat = New("unknown AST dump format")

	// ErrInvalidAST indicates a dump that decodes but is not a node tree
	ErrInvalidAST = New("invalid AST")

	// ErrNoDeclarations indicates a program without classes or defined types
	ErrNoDeclarations = New("no declarations found")
)

// IsUnknownFormatError checks if an error is or wraps ErrUnknownFormat
func IsUnknownFormatError(err error) bool {
	return err != nil && Is(err, ErrUnknownFormat)
}

// IsInvalidASTError checks if an error is or wraps ErrInvalidAST
func IsInvalidASTError(err error) bool {
	return err != nil && Is(err, ErrInvalidAST)
}

// NewInvalidASTError creates an invalid-AST error with a formatted message
func NewInvalidASTError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidAST, Newf(format, args...).Error())
}
