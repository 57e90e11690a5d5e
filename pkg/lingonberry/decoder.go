package lingonberry

import (
	"errors"

	"github.com/blockberries/lingonberry/internal/wire"
)

// Decoder consumes an encoded message front to back.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder creates a decoder over data. The decoder does not copy; the
// caller must not mutate data while decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// translate maps wire-level errors onto the package's exported values.
func translate(err error) error {
	switch {
	case errors.Is(err, wire.ErrTruncated):
		return ErrUnexpectedEOF
	case errors.Is(err, wire.ErrInvalidString):
		return ErrInvalidString
	default:
		return err
	}
}

// ReadInt8 reads an int8_t value.
func (d *Decoder) ReadInt8() (int8, error) {
	v, n, err := wire.DecodeInt8(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadInt16 reads an int16_t value.
func (d *Decoder) ReadInt16() (int16, error) {
	v, n, err := wire.DecodeInt16(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadInt32 reads an int32_t value.
func (d *Decoder) ReadInt32() (int32, error) {
	v, n, err := wire.DecodeInt32(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadInt64 reads an int64_t value.
func (d *Decoder) ReadInt64() (int64, error) {
	v, n, err := wire.DecodeInt64(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadUint8 reads a byte value.
func (d *Decoder) ReadUint8() (uint8, error) {
	if d.pos >= len(d.data) {
		return 0, ErrUnexpectedEOF
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

// ReadFloat32 reads a float value.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, n, err := wire.DecodeFloat32(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadFloat64 reads a double value.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, n, err := wire.DecodeFloat64(d.data[d.pos:])
	if err != nil {
		return 0, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadBool reads a boolean value.
func (d *Decoder) ReadBool() (bool, error) {
	v, n, err := wire.DecodeBool(d.data[d.pos:])
	if err != nil {
		return false, translate(err)
	}
	d.pos += n
	return v, nil
}

// ReadString reads a string value.
func (d *Decoder) ReadString() (string, error) {
	v, n, err := wire.DecodeString(d.data[d.pos:])
	if err != nil {
		return "", translate(err)
	}
	d.pos += n
	return v, nil
}

// CheckLength validates a variable array length read from a size member
// before the caller allocates. Lengths are bounded by the bytes actually
// remaining, with elemSize the minimum encoded size of one element, so a
// hostile length cannot force a huge allocation.
func (d *Decoder) CheckLength(n int64, elemSize int) error {
	if n < 0 {
		return ErrInvalidLength
	}
	if elemSize < 1 {
		elemSize = 1
	}
	if n > int64(d.Remaining()/elemSize) {
		return ErrUnexpectedEOF
	}
	return nil
}
