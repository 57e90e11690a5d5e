package lingonberry

import (
	"bytes"
	"math"
	"testing"
)

// temperature mirrors the shape of a generated binding type.
type temperature struct {
	Utime      int64
	DegCelsius float64
	Site       string
	Valid      bool
}

func (m *temperature) Fingerprint() int64 { return 0x1122334455667788 }

func (m *temperature) EncodeTo(e *Encoder) {
	e.WriteInt64(m.Utime)
	e.WriteFloat64(m.DegCelsius)
	e.WriteString(m.Site)
	e.WriteBool(m.Valid)
}

func (m *temperature) DecodeFrom(d *Decoder) error {
	var err error
	if m.Utime, err = d.ReadInt64(); err != nil {
		return err
	}
	if m.DegCelsius, err = d.ReadFloat64(); err != nil {
		return err
	}
	if m.Site, err = d.ReadString(); err != nil {
		return err
	}
	if m.Valid, err = d.ReadBool(); err != nil {
		return err
	}
	return nil
}

// samples mirrors a generated type with a variable-length array.
type samples struct {
	N      int32
	Values []float32
}

func (m *samples) Fingerprint() int64 { return 0x0102030405060708 }

func (m *samples) EncodeTo(e *Encoder) {
	e.WriteInt32(m.N)
	for _, v := range m.Values {
		e.WriteFloat32(v)
	}
}

func (m *samples) DecodeFrom(d *Decoder) error {
	var err error
	if m.N, err = d.ReadInt32(); err != nil {
		return err
	}
	if err = d.CheckLength(int64(m.N), 4); err != nil {
		return err
	}
	m.Values = make([]float32, m.N)
	for i := range m.Values {
		if m.Values[i], err = d.ReadFloat32(); err != nil {
			return err
		}
	}
	return nil
}

func TestMessageRoundTrip(t *testing.T) {
	in := &temperature{
		Utime:      1724673912000000,
		DegCelsius: 21.5,
		Site:       "lab-3",
		Valid:      true,
	}

	data := EncodeMessage(in)

	var out temperature
	if err := DecodeMessage(data, &out); err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, *in)
	}
}

func TestMessageFingerprintPrefix(t *testing.T) {
	data := EncodeMessage(&temperature{})

	expected := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	if !bytes.Equal(data[:8], expected) {
		t.Errorf("expected fingerprint prefix %v, got %v", expected, data[:8])
	}
}

func TestMessageFingerprintMismatch(t *testing.T) {
	data := EncodeMessage(&temperature{})

	var wrong samples
	if err := DecodeMessage(data, &wrong); err != ErrFingerprintMismatch {
		t.Errorf("expected ErrFingerprintMismatch, got %v", err)
	}
}

func TestMessageTruncated(t *testing.T) {
	data := EncodeMessage(&temperature{Site: "x"})

	for cut := 0; cut < len(data); cut++ {
		var out temperature
		if err := DecodeMessage(data[:cut], &out); err == nil {
			t.Errorf("expected error decoding %d of %d bytes", cut, len(data))
		}
	}
}

func TestVariableArrayRoundTrip(t *testing.T) {
	in := &samples{N: 3, Values: []float32{1.5, -2.5, float32(math.Pi)}}

	data := EncodeMessage(in)

	var out samples
	if err := DecodeMessage(data, &out); err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if out.N != in.N || len(out.Values) != len(in.Values) {
		t.Fatalf("round trip shape mismatch: %+v", out)
	}
	for i := range in.Values {
		if out.Values[i] != in.Values[i] {
			t.Errorf("value %d: got %v, want %v", i, out.Values[i], in.Values[i])
		}
	}
}

func TestHostileArrayLength(t *testing.T) {
	// A length prefix far beyond the actual payload must be rejected
	// before allocation.
	e := NewEncoder()
	e.WriteInt64((&samples{}).Fingerprint())
	e.WriteInt32(math.MaxInt32)

	var out samples
	if err := DecodeMessage(e.Bytes(), &out); err != ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}

	e.Reset()
	e.WriteInt64((&samples{}).Fingerprint())
	e.WriteInt32(-1)

	if err := DecodeMessage(e.Bytes(), &out); err != ErrInvalidLength {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}

func TestEncoderReuse(t *testing.T) {
	e := GetEncoder()
	e.WriteInt32(7)
	first := e.BytesCopy()
	PutEncoder(e)

	e = GetEncoder()
	if e.Len() != 0 {
		t.Fatalf("expected pooled encoder to be reset, len=%d", e.Len())
	}
	e.WriteInt32(7)
	if !bytes.Equal(e.Bytes(), first) {
		t.Errorf("expected identical encoding after reuse")
	}
	PutEncoder(e)
}

func TestDecoderRemaining(t *testing.T) {
	d := NewDecoder([]byte{0x00, 0x01, 0x02, 0x03})
	if d.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", d.Remaining())
	}
	if _, err := d.ReadInt16(); err != nil {
		t.Fatalf("ReadInt16: %v", err)
	}
	if d.Remaining() != 2 {
		t.Errorf("expected 2 remaining, got %d", d.Remaining())
	}
}
