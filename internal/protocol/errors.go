package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is wrapped by FormatError when a buffer ends before the layout does
	ErrShortBuffer = errors.New("buffer too short")

	// ErrChecksumMismatch is returned when a frame's checksum byte does not match its contents
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// FormatError reports a buffer that does not fit the expected wire layout.
// A decode that fails with FormatError produces no record.
type FormatError struct {
	Op   string // Decoder that failed, e.g. "parse header"
	Need int    // Bytes required by the layout (0 if not a length problem)
	Have int    // Bytes available
	Err  error  // Underlying cause
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("%s: %v: need %d bytes, have %d", e.Op, e.Err, e.Need, e.Have)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FormatError) Unwrap() error {
	return e.Err
}

// ArgumentError reports invalid caller input to a builder
type ArgumentError struct {
	Arg    string
	Reason string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

func shortBuffer(op string, need, have int) *FormatError {
	return &FormatError{Op: op, Need: need, Have: have, Err: ErrShortBuffer}
}

// IsFormatError checks if an error is (or wraps) a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsArgumentError checks if an error is (or wraps) an ArgumentError
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}
