package schema

import (
	"fmt"
	"strings"
	"testing"
)

func TestDumpEmptyStruct(t *testing.T) {
	s := mustParse(t, "struct empty_t { }")

	var b strings.Builder
	DumpStruct(&b, s.Structs[0])

	// An empty struct's fingerprint is the bare seed, which pins the
	// unsigned zero-padded hash rendering.
	expected := "struct empty_t [hash=0x00000012345678]\n"
	if b.String() != expected {
		t.Errorf("expected %q, got %q", expected, b.String())
	}
}

func TestDumpStructMembers(t *testing.T) {
	s := mustParse(t, `
struct scan_t {
    int32_t num_ranges;
    float ranges[num_ranges];
    double origin[3];
}
`)
	st := s.Structs[0]

	var b strings.Builder
	DumpStruct(&b, st)

	expected := fmt.Sprintf("struct scan_t [hash=0x%014x]\n", uint64(st.Hash)) +
		fmt.Sprintf("\t%-20s  %s\n", "int32_t", "num_ranges") +
		fmt.Sprintf("\t%-20s  %s [ (var) num_ranges ]\n", "float", "ranges") +
		fmt.Sprintf("\t%-20s  %s [ (const) 3 ]\n", "double", "origin")
	if b.String() != expected {
		t.Errorf("expected:\n%q\ngot:\n%q", expected, b.String())
	}
}

func TestDumpNegativeHash(t *testing.T) {
	// A fingerprint with the sign bit set renders as unsigned hex.
	st := &Struct{Name: TypeName{Full: "a_t", Short: "a_t"}, Hash: -1}

	var b strings.Builder
	DumpStruct(&b, st)

	expected := "struct a_t [hash=0xffffffffffffffff]\n"
	if b.String() != expected {
		t.Errorf("expected %q, got %q", expected, b.String())
	}
}

func TestDumpSchema(t *testing.T) {
	s := mustParse(t, "struct a_t { }\nstruct b_t { }\n")

	var b strings.Builder
	DumpSchema(&b, s)

	out := b.String()
	if !strings.Contains(out, "struct a_t [hash=") || !strings.Contains(out, "struct b_t [hash=") {
		t.Errorf("expected both structs in dump, got %q", out)
	}
	if strings.Index(out, "a_t") > strings.Index(out, "b_t") {
		t.Error("expected declaration order to be preserved")
	}
}

func TestDumpTokens(t *testing.T) {
	tokens := tokenize(t, "struct a_t\n{")

	var b strings.Builder
	DumpTokens(&b, tokens)

	expected := "tok#   line   col   : token\n" +
		"     0      1      0: struct\n" +
		"     1      1      7: a_t\n" +
		"     2      2      0: {\n"
	if b.String() != expected {
		t.Errorf("expected:\n%q\ngot:\n%q", expected, b.String())
	}
}
