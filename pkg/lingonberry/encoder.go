// Package lingonberry is the runtime for generated lingonberry bindings:
// a fingerprint-prefixed, big-endian binary message encoding.
//
// Generated types implement Message; EncodeMessage and DecodeMessage frame
// a message with its 64-bit structural fingerprint so a receiver can reject
// payloads produced from an incompatible schema revision.
package lingonberry

import (
	"sync"

	"github.com/blockberries/lingonberry/internal/wire"
)

// Encoder accumulates an encoded message. Encoders can be reused to reduce
// allocations; the zero value is ready to use.
type Encoder struct {
	buf []byte
}

// encoderPool provides pooled encoders for reduced allocations.
var encoderPool = sync.Pool{
	New: func() any {
		return &Encoder{buf: make([]byte, 0, 256)}
	},
}

// NewEncoder creates an encoder with a small initial buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// GetEncoder gets an encoder from the pool. Return it with PutEncoder.
func GetEncoder() *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.Reset()
	return e
}

// PutEncoder returns an encoder to the pool. The encoder must not be used
// afterwards.
func PutEncoder(e *Encoder) {
	if e == nil {
		return
	}
	// Don't pool large buffers to avoid memory bloat.
	if cap(e.buf) > 64*1024 {
		return
	}
	encoderPool.Put(e)
}

// Reset clears the encoder for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Len returns the current length of the encoded data.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns the encoded data. The slice is only valid until the next
// write or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// BytesCopy returns a copy of the encoded data.
func (e *Encoder) BytesCopy() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

// WriteInt8 appends an int8_t value.
func (e *Encoder) WriteInt8(v int8) {
	e.buf = wire.AppendInt8(e.buf, v)
}

// WriteInt16 appends an int16_t value.
func (e *Encoder) WriteInt16(v int16) {
	e.buf = wire.AppendInt16(e.buf, v)
}

// WriteInt32 appends an int32_t value.
func (e *Encoder) WriteInt32(v int32) {
	e.buf = wire.AppendInt32(e.buf, v)
}

// WriteInt64 appends an int64_t value.
func (e *Encoder) WriteInt64(v int64) {
	e.buf = wire.AppendInt64(e.buf, v)
}

// WriteUint8 appends a byte value. The name avoids colliding with the
// io.ByteWriter method set.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

// WriteFloat32 appends a float value.
func (e *Encoder) WriteFloat32(v float32) {
	e.buf = wire.AppendFloat32(e.buf, v)
}

// WriteFloat64 appends a double value.
func (e *Encoder) WriteFloat64(v float64) {
	e.buf = wire.AppendFloat64(e.buf, v)
}

// WriteBool appends a boolean value.
func (e *Encoder) WriteBool(v bool) {
	e.buf = wire.AppendBool(e.buf, v)
}

// WriteString appends a string value.
func (e *Encoder) WriteString(s string) {
	e.buf = wire.AppendString(e.buf, s)
}
