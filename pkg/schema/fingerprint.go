package schema

import "unicode/utf8"

// fingerprintSeed is the initial value of every struct fingerprint.
const fingerprintSeed int64 = 0x12345678

// hashUpdate mixes one scalar into the running hash. All arithmetic is
// 64-bit two's-complement with wraparound; the shift pair makes the mix
// order-sensitive. The order of hashUpdate calls IS significant.
func hashUpdate(v, c int64) int64 {
	return ((v << 8) ^ (v >> 55)) + c
}

// hashStringUpdate mixes a string into the running hash: its length first,
// then each code point.
func hashStringUpdate(v int64, s string) int64 {
	v = hashUpdate(v, int64(utf8.RuneCountInString(s)))
	for _, r := range s {
		v = hashUpdate(v, int64(r))
	}
	return v
}

// Fingerprint computes the 64-bit structural hash of a struct: a pure
// function of the ordered member names, each primitive member's type name,
// and each member's dimension list.
//
// The struct's own name is purposefully NOT hashed, so a type can be
// renamed without breaking wire compatibility. Member types ARE hashed,
// but only for primitives: a compound member's contents carry their own
// fingerprint, and hashing the type name too would make a referenced
// struct's rename a break. Constants are not hashed either.
func Fingerprint(st *Struct) int64 {
	v := fingerprintSeed

	for _, m := range st.Members {
		v = hashStringUpdate(v, m.Name)

		if IsPrimitive(m.Type.Full) {
			v = hashStringUpdate(v, m.Type.Full)
		}

		v = hashUpdate(v, int64(len(m.Dimensions)))
		for _, d := range m.Dimensions {
			v = hashUpdate(v, int64(d.Mode))
			v = hashStringUpdate(v, d.Size)
		}
	}

	return v
}
