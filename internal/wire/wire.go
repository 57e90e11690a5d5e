// Package wire implements the fixed-width binary primitives of the
// lingonberry message encoding. All multi-byte values are big-endian
// two's-complement; floating-point values use IEEE-754 bit patterns.
package wire

import (
	"encoding/binary"
	"math"
)

// Canonical NaN bit patterns for deterministic encoding: quiet NaN with no
// payload. Any NaN encodes to these so byte-identical structs produce
// byte-identical messages.
const (
	canonicalNaN32 = 0x7FC00000
	canonicalNaN64 = 0x7FF8000000000000
)

// AppendInt8 appends an 8-bit value.
func AppendInt8(buf []byte, v int8) []byte {
	return append(buf, byte(v))
}

// AppendInt16 appends a 16-bit value in big-endian format.
func AppendInt16(buf []byte, v int16) []byte {
	return append(buf,
		byte(uint16(v)>>8),
		byte(v),
	)
}

// AppendInt32 appends a 32-bit value in big-endian format.
func AppendInt32(buf []byte, v int32) []byte {
	return append(buf,
		byte(uint32(v)>>24),
		byte(uint32(v)>>16),
		byte(uint32(v)>>8),
		byte(v),
	)
}

// AppendInt64 appends a 64-bit value in big-endian format.
func AppendInt64(buf []byte, v int64) []byte {
	return append(buf,
		byte(uint64(v)>>56),
		byte(uint64(v)>>48),
		byte(uint64(v)>>40),
		byte(uint64(v)>>32),
		byte(uint64(v)>>24),
		byte(uint64(v)>>16),
		byte(uint64(v)>>8),
		byte(v),
	)
}

// AppendFloat32 appends a float in big-endian IEEE-754 format. NaN values
// are normalized to the canonical quiet NaN.
func AppendFloat32(buf []byte, v float32) []byte {
	bits := math.Float32bits(v)
	if v != v {
		bits = canonicalNaN32
	}
	return AppendInt32(buf, int32(bits))
}

// AppendFloat64 appends a double in big-endian IEEE-754 format. NaN values
// are normalized to the canonical quiet NaN.
func AppendFloat64(buf []byte, v float64) []byte {
	bits := math.Float64bits(v)
	if v != v {
		bits = canonicalNaN64
	}
	return AppendInt64(buf, int64(bits))
}

// AppendBool appends a boolean as a single byte, 1 or 0.
func AppendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// AppendString appends a string as a 32-bit big-endian byte length that
// counts the NUL terminator, the bytes, then the terminator.
func AppendString(buf []byte, s string) []byte {
	buf = AppendInt32(buf, int32(len(s)+1))
	buf = append(buf, s...)
	return append(buf, 0)
}

// DecodeInt8 decodes an 8-bit value. Returns the value, the number of bytes
// consumed, and an error if the input is too short.
func DecodeInt8(data []byte) (int8, int, error) {
	if len(data) < 1 {
		return 0, 0, ErrTruncated
	}
	return int8(data[0]), 1, nil
}

// DecodeInt16 decodes a big-endian 16-bit value.
func DecodeInt16(data []byte) (int16, int, error) {
	if len(data) < 2 {
		return 0, 0, ErrTruncated
	}
	return int16(binary.BigEndian.Uint16(data)), 2, nil
}

// DecodeInt32 decodes a big-endian 32-bit value.
func DecodeInt32(data []byte) (int32, int, error) {
	if len(data) < 4 {
		return 0, 0, ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(data)), 4, nil
}

// DecodeInt64 decodes a big-endian 64-bit value.
func DecodeInt64(data []byte) (int64, int, error) {
	if len(data) < 8 {
		return 0, 0, ErrTruncated
	}
	return int64(binary.BigEndian.Uint64(data)), 8, nil
}

// DecodeFloat32 decodes a big-endian IEEE-754 float.
func DecodeFloat32(data []byte) (float32, int, error) {
	v, n, err := DecodeInt32(data)
	if err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(uint32(v)), n, nil
}

// DecodeFloat64 decodes a big-endian IEEE-754 double.
func DecodeFloat64(data []byte) (float64, int, error) {
	v, n, err := DecodeInt64(data)
	if err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(uint64(v)), n, nil
}

// DecodeBool decodes a single-byte boolean. Any nonzero byte is true.
func DecodeBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, ErrTruncated
	}
	return data[0] != 0, 1, nil
}

// DecodeString decodes a length-prefixed NUL-terminated string.
func DecodeString(data []byte) (string, int, error) {
	length, n, err := DecodeInt32(data)
	if err != nil {
		return "", 0, err
	}
	if length < 1 {
		return "", 0, ErrInvalidString
	}
	end := n + int(length)
	if end > len(data) || end < n {
		return "", 0, ErrTruncated
	}
	if data[end-1] != 0 {
		return "", 0, ErrInvalidString
	}
	return string(data[n : end-1]), end, nil
}
