package lingonberry

import "errors"

var (
	// ErrUnexpectedEOF indicates the message ended before a complete value.
	ErrUnexpectedEOF = errors.New("lingonberry: unexpected end of data")

	// ErrInvalidString indicates a malformed string encoding.
	ErrInvalidString = errors.New("lingonberry: invalid string encoding")

	// ErrFingerprintMismatch indicates a message whose fingerprint prefix
	// does not match the expected type.
	ErrFingerprintMismatch = errors.New("lingonberry: fingerprint mismatch")

	// ErrInvalidLength indicates a negative or impossible array length.
	ErrInvalidLength = errors.New("lingonberry: invalid length")
)
