package schema

import (
	"fmt"
	"io"
)

// DumpStruct writes a debug view of one struct: its qualified name, the
// fingerprint as an unsigned hexadecimal value, and each member's resolved
// type name with its dimension annotations.
func DumpStruct(w io.Writer, st *Struct) {
	// The hash pads to 16 characters total, prefix included.
	fmt.Fprintf(w, "struct %s [hash=0x%014x]\n", st.Name.Full, uint64(st.Hash))
	for _, m := range st.Members {
		dumpMember(w, m)
	}
}

func dumpMember(w io.Writer, m *Member) {
	fmt.Fprintf(w, "\t%-20s  %s", m.Type.Full, m.Name)
	for _, d := range m.Dimensions {
		fmt.Fprintf(w, " [ (%s) %s ]", d.Mode, d.Size)
	}
	fmt.Fprintln(w)
}

// DumpSchema writes the debug view of every struct in the schema, in the
// order they were declared.
func DumpSchema(w io.Writer, s *Schema) {
	for _, st := range s.Structs {
		DumpStruct(w, st)
	}
}

// DumpTokens writes the raw tokenization view: one line per token with its
// index, source line, source column, and text, in the order the tokens
// were produced.
func DumpTokens(w io.Writer, tokens []Token) {
	fmt.Fprintf(w, "%-6s %-6s %-6s: token\n", "tok#", "line", "col")
	for i, tok := range tokens {
		fmt.Fprintf(w, "%6d %6d %6d: %s\n", i, tok.Line, tok.Column, tok.Text)
	}
}
