package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestAppendInt16(t *testing.T) {
	tests := []struct {
		name     string
		value    int16
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00}},
		{"one", 1, []byte{0x00, 0x01}},
		{"256", 256, []byte{0x01, 0x00}},
		{"minus_one", -1, []byte{0xff, 0xff}},
		{"max_int16", math.MaxInt16, []byte{0x7f, 0xff}},
		{"min_int16", math.MinInt16, []byte{0x80, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendInt16(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendInt16(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestAppendInt32(t *testing.T) {
	tests := []struct {
		name     string
		value    int32
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00, 0x00, 0x00}},
		{"one", 1, []byte{0x00, 0x00, 0x00, 0x01}},
		{"0x12345678", 0x12345678, []byte{0x12, 0x34, 0x56, 0x78}},
		{"minus_one", -1, []byte{0xff, 0xff, 0xff, 0xff}},
		{"min_int32", math.MinInt32, []byte{0x80, 0x00, 0x00, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendInt32(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendInt32(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestAppendInt64(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"0x123456789ABCDEF0", 0x123456789ABCDEF0, []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}},
		{"minus_one", -1, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendInt64(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendInt64(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, -128, 32767, -32768, math.MaxInt64, math.MinInt64} {
		buf := AppendInt64(nil, v)
		got, n, err := DecodeInt64(buf)
		if err != nil {
			t.Fatalf("DecodeInt64(%d): %v", v, err)
		}
		if n != 8 || got != v {
			t.Errorf("round trip %d: got %d (n=%d)", v, got, n)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, math.Pi, math.Inf(1), math.Inf(-1), math.SmallestNonzeroFloat64} {
		buf := AppendFloat64(nil, v)
		got, n, err := DecodeFloat64(buf)
		if err != nil {
			t.Fatalf("DecodeFloat64(%v): %v", v, err)
		}
		if n != 8 || got != v {
			t.Errorf("round trip %v: got %v (n=%d)", v, got, n)
		}
	}
}

func TestNaNCanonicalized(t *testing.T) {
	buf32 := AppendFloat32(nil, float32(math.NaN()))
	expected32 := AppendInt32(nil, int32(uint32(canonicalNaN32)))
	if !bytes.Equal(buf32, expected32) {
		t.Errorf("float32 NaN = %v, want %v", buf32, expected32)
	}

	buf64 := AppendFloat64(nil, math.NaN())
	expected64 := AppendInt64(nil, int64(uint64(canonicalNaN64)))
	if !bytes.Equal(buf64, expected64) {
		t.Errorf("float64 NaN = %v, want %v", buf64, expected64)
	}

	got, _, err := DecodeFloat64(buf64)
	if err != nil {
		t.Fatalf("DecodeFloat64: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("expected NaN after round trip, got %v", got)
	}
}

func TestAppendBool(t *testing.T) {
	if got := AppendBool(nil, true); !bytes.Equal(got, []byte{1}) {
		t.Errorf("AppendBool(true) = %v", got)
	}
	if got := AppendBool(nil, false); !bytes.Equal(got, []byte{0}) {
		t.Errorf("AppendBool(false) = %v", got)
	}
}

func TestAppendString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []byte
	}{
		{"empty", "", []byte{0x00, 0x00, 0x00, 0x01, 0x00}},
		{"abc", "abc", []byte{0x00, 0x00, 0x00, 0x04, 'a', 'b', 'c', 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendString(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendString(%q) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "hello world", "héllo \n wörld"} {
		buf := AppendString(nil, s)
		got, n, err := DecodeString(buf)
		if err != nil {
			t.Fatalf("DecodeString(%q): %v", s, err)
		}
		if n != len(buf) || got != s {
			t.Errorf("round trip %q: got %q (n=%d, len=%d)", s, got, n, len(buf))
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		call func([]byte) error
	}{
		{"int8_empty", nil, func(d []byte) error { _, _, err := DecodeInt8(d); return err }},
		{"int16_short", []byte{0x01}, func(d []byte) error { _, _, err := DecodeInt16(d); return err }},
		{"int32_short", []byte{0x01, 0x02, 0x03}, func(d []byte) error { _, _, err := DecodeInt32(d); return err }},
		{"int64_short", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, func(d []byte) error { _, _, err := DecodeInt64(d); return err }},
		{"string_short_prefix", []byte{0x00, 0x00}, func(d []byte) error { _, _, err := DecodeString(d); return err }},
		{"string_short_body", []byte{0x00, 0x00, 0x00, 0x05, 'a'}, func(d []byte) error { _, _, err := DecodeString(d); return err }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(tc.data); err != ErrTruncated {
				t.Errorf("expected ErrTruncated, got %v", err)
			}
		})
	}
}

func TestDecodeStringInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"zero_length", []byte{0x00, 0x00, 0x00, 0x00}},
		{"negative_length", []byte{0xff, 0xff, 0xff, 0xff}},
		{"missing_nul", []byte{0x00, 0x00, 0x00, 0x02, 'a', 'b'}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeString(tc.data); err != ErrInvalidString {
				t.Errorf("expected ErrInvalidString, got %v", err)
			}
		})
	}
}
