// Package errors provides error handling for compdoc.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//   - Marking errors with a sentinel while keeping their message
//
// Usage:
//
//	// Wrap with context
//	if err := os.ReadFile(path); err != nil {
//	    return errors.Wrapf(errors.Mark(err, errors.ErrSourceRead), "failed to read %s", path)
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrParse) {
//	    // a component source was rejected
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
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
	Mark         = crdb.Mark
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

// AssertionFailedf reports an internal-consistency bug.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the documentation pipeline.
// Mark failures with these so callers can classify them with errors.Is
// without losing the original message or the offending path.
var (
	// ErrSourceRead indicates a located component source could not be read
	ErrSourceRead = New("source read failed")

	// ErrParse indicates the parsing service rejected a component source
	ErrParse = New("parse failed")

	// ErrFormat indicates the formatting service rejected generated text.
	// This means an emitter produced structurally invalid output.
	ErrFormat = New("format failed")

	// ErrBundle indicates the bundle description is malformed
	ErrBundle = New("invalid bundle description")

	// ErrConfig indicates invalid configuration or package metadata
	ErrConfig = New("invalid configuration")
)

// NewSourceReadError marks err as a source read failure for path.
func NewSourceReadError(err error, path string) error {
	return Wrapf(Mark(err, ErrSourceRead), "failed to read component source %s", path)
}

// NewParseError marks err as a parse failure for path.
func NewParseError(err error, path string) error {
	return Wrapf(Mark(err, ErrParse), "failed to parse %s", path)
}

// NewFormatError marks err as a format failure for the named artifact.
func NewFormatError(err error, artifact string) error {
	return Wrapf(Mark(err, ErrFormat), "failed to format %s", artifact)
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfig)
}

// IsParseError checks if an error is or wraps ErrParse
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// IsFormatError checks if an error is or wraps ErrFormat
func IsFormatError(err error) bool {
	return err != nil && Is(err, ErrFormat)
}

// IsSourceReadError checks if an error is or wraps ErrSourceRead
func IsSourceReadError(err error) bool {
	return err != nil && Is(err, ErrSourceRead)
}
