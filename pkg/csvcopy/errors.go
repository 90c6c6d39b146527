package csvcopy

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvcopy/internal/parser"
)

// Common pipeline errors.
var (
	// ErrUnterminatedQuote indicates a quoted field was still open at end of input.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote

	// ErrFieldCount indicates a non-flexible writer was given a record whose
	// width differs from the first record it wrote.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrUnknownEncoding indicates an encoding label that names no known encoding.
	ErrUnknownEncoding = errors.New("unknown encoding label")
)

// DecodeError reports bytes that cannot be decoded under the selected encoding.
type DecodeError struct {
	// Encoding is the canonical name of the encoding in use.
	Encoding string
	// Offset is the number of raw bytes successfully decoded before the failure.
	Offset int64
	// Err is the underlying transformer error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error (%s) at byte %d: %v", e.Encoding, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error with position information.
// Decode failures met while reading are reported as a ParseError whose Err
// is a *DecodeError.
type ParseError struct {
	// StartLine is the line where the failing record started (1-indexed).
	StartLine int
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Column is the byte column where the error occurred (1-indexed).
	Column int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("CSV parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("CSV parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure of the output sink.
type WriteError struct {
	// Record is the 1-indexed number of the output record being written.
	Record int64
	// Err is the underlying I/O error.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error on output record %d: %v", e.Record, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csvcopy: invalid " + e.Field + ": " + e.Message
}
