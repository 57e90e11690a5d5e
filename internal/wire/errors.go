package wire

import "errors"

var (
	// ErrTruncated indicates the input ended before a complete value.
	ErrTruncated = errors.New("wire: truncated data")

	// ErrInvalidString indicates a string whose length prefix or NUL
	// terminator is malformed.
	ErrInvalidString = errors.New("wire: invalid string encoding")
)
