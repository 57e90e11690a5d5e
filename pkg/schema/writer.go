package schema

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer renders schema structs back into canonical .lingonberry source.
type Writer struct {
	indent string
}

// NewWriter creates a schema writer with the default indentation.
func NewWriter() *Writer {
	return &Writer{indent: "    "}
}

// SetIndent sets the indentation string (default is four spaces).
func (w *Writer) SetIndent(indent string) {
	w.indent = indent
}

// WriteSchema writes every struct in the schema, emitting a package
// directive whenever the package changes between consecutive structs.
func (w *Writer) WriteSchema(out io.Writer, s *Schema) error {
	pkg := ""
	first := true
	for _, st := range s.Structs {
		if st.Name.Package != pkg {
			if !first {
				fmt.Fprintln(out)
			}
			pkg = st.Name.Package
			fmt.Fprintf(out, "package %s;\n\n", pkg)
		} else if !first {
			fmt.Fprintln(out)
		}
		w.WriteStruct(out, st)
		first = false
	}
	return nil
}

// WriteStruct writes one struct declaration: doc comment, constants, then
// members in declaration order.
func (w *Writer) WriteStruct(out io.Writer, st *Struct) {
	w.writeDoc(out, "", st.Doc)
	fmt.Fprintf(out, "struct %s {\n", st.Name.Short)

	for _, c := range st.Constants {
		w.writeDoc(out, w.indent, c.Doc)
		fmt.Fprintf(out, "%sconst %s %s = %s;\n", w.indent, c.Type, c.Name, c.Value)
	}

	for _, m := range st.Members {
		w.writeDoc(out, w.indent, m.Doc)
		fmt.Fprintf(out, "%s%s %s%s;\n", w.indent, w.typeName(st, m.Type), m.Name, dimSuffix(m))
	}

	fmt.Fprintln(out, "}")
}

// typeName picks the shortest unambiguous spelling for a member type:
// primitives and same-package types by short name, everything else fully
// qualified.
func (w *Writer) typeName(st *Struct, t TypeName) string {
	if IsPrimitive(t.Full) || t.Package == "" || t.Package == st.Name.Package {
		return t.Short
	}
	return t.Full
}

func (w *Writer) writeDoc(out io.Writer, indent string, doc DocComment) {
	if !doc.Valid {
		return
	}
	for _, line := range strings.Split(doc.Text, "\n") {
		if line == "" {
			fmt.Fprintf(out, "%s//\n", indent)
		} else {
			fmt.Fprintf(out, "%s// %s\n", indent, line)
		}
	}
}

func dimSuffix(m *Member) string {
	var b strings.Builder
	for _, d := range m.Dimensions {
		fmt.Fprintf(&b, "[%s]", d.Size)
	}
	return b.String()
}

// FormatSchema returns the canonical source form of a schema.
func FormatSchema(s *Schema) string {
	var sb strings.Builder
	_ = NewWriter().WriteSchema(&sb, s)
	return sb.String()
}

// WriteToFile writes the canonical source form of a schema to a file.
func WriteToFile(path string, s *Schema) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return NewWriter().WriteSchema(f, s)
}
