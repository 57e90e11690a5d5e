package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/blockberries/lingonberry/pkg/schema"
)

// defaultRuntimeImport is the encoding runtime generated bindings use.
const defaultRuntimeImport = "github.com/blockberries/lingonberry/pkg/lingonberry"

// GoGenerator generates Go bindings from schema structs.
type GoGenerator struct{}

// NewGoGenerator creates a new Go code generator.
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{}
}

// Language returns the target language.
func (g *GoGenerator) Language() Language {
	return LanguageGo
}

// FileExtension returns the file extension for generated files.
func (g *GoGenerator) FileExtension() string {
	return ".go"
}

// Generate produces one Go source file for st: the typed struct, its
// constants, and Fingerprint/EncodeTo/DecodeFrom against the runtime.
func (g *GoGenerator) Generate(w io.Writer, st *schema.Struct, opts Options) error {
	for _, m := range st.Members {
		for _, d := range m.Dimensions {
			if d.Mode == schema.ConstDim && !isDecimal(d.Size) {
				return fmt.Errorf("member %s.%s: array size %q is not an integer",
					st.Name.Full, m.Name, d.Size)
			}
		}
	}

	ctx := &goContext{Struct: st, Options: opts}
	tmpl, err := template.New("go").Funcs(ctx.funcMap()).Parse(goTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(w, ctx)
}

// goContext holds context for Go code generation.
type goContext struct {
	Struct  *schema.Struct
	Options Options
}

func (c *goContext) funcMap() template.FuncMap {
	return template.FuncMap{
		"goPackage":        c.goPackage,
		"goName":           func() string { return ToPascalCase(c.Struct.Name.Short) },
		"goFieldName":      func(m *schema.Member) string { return ToPascalCase(m.Name) },
		"goFieldType":      goFieldType,
		"goConstName":      c.goConstName,
		"goConstType":      goConstType,
		"runtimeImport":    c.runtimeImport,
		"fingerprint":      func() string { return fmt.Sprintf("%d", c.Struct.Hash) },
		"fingerprintHex":   func() string { return fmt.Sprintf("%#016x", uint64(c.Struct.Hash)) },
		"encodeMember":     encodeMember,
		"decodeMember":     decodeMember,
		"comment":          func(d schema.DocComment) string { return c.docComment(d, "") },
		"fieldComment":     func(d schema.DocComment) string { return c.docComment(d, "\t") },
		"generateComments": func() bool { return c.Options.GenerateComments },
	}
}

func (c *goContext) goPackage() string {
	if c.Options.Package != "" {
		return c.Options.Package
	}
	pkg := c.Struct.Name.Package
	if i := strings.LastIndexByte(pkg, '.'); i >= 0 {
		pkg = pkg[i+1:]
	}
	if pkg == "" {
		return "schemas"
	}
	return pkg
}

func (c *goContext) runtimeImport() string {
	if c.Options.RuntimeImport != "" {
		return c.Options.RuntimeImport
	}
	return defaultRuntimeImport
}

func (c *goContext) goConstName(cn *schema.Constant) string {
	return ToPascalCase(c.Struct.Name.Short) + ToPascalCase(cn.Name)
}

func (c *goContext) docComment(d schema.DocComment, indent string) string {
	if !c.Options.GenerateComments || !d.Valid {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(Comment(d.Text, "//"), "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// goBaseType maps a schema type to its Go spelling. Compound types use the
// PascalCase binding name; cross-package references assume a shared output
// package.
func goBaseType(t schema.TypeName) string {
	switch t.Full {
	case "int8_t":
		return "int8"
	case "int16_t":
		return "int16"
	case "int32_t":
		return "int32"
	case "int64_t":
		return "int64"
	case "byte":
		return "byte"
	case "float":
		return "float32"
	case "double":
		return "float64"
	case "string":
		return "string"
	case "boolean":
		return "bool"
	default:
		return ToPascalCase(t.Short)
	}
}

// goConstType maps a const type to its Go spelling.
func goConstType(typ string) string {
	switch typ {
	case "float":
		return "float32"
	case "double":
		return "float64"
	default:
		// int8_t, int16_t, int32_t, int64_t
		return strings.TrimSuffix(typ, "_t")
	}
}

// goFieldType renders the member's Go type: const dimensions become fixed
// arrays, var dimensions become slices.
func goFieldType(m *schema.Member) string {
	var b strings.Builder
	for _, d := range m.Dimensions {
		if d.Mode == schema.ConstDim {
			fmt.Fprintf(&b, "[%s]", d.Size)
		} else {
			b.WriteString("[]")
		}
	}
	b.WriteString(goBaseType(m.Type))
	return b.String()
}

// encodeCall renders the runtime call that encodes one element.
func encodeCall(t schema.TypeName, expr string) string {
	switch t.Full {
	case "int8_t":
		return fmt.Sprintf("e.WriteInt8(%s)", expr)
	case "int16_t":
		return fmt.Sprintf("e.WriteInt16(%s)", expr)
	case "int32_t":
		return fmt.Sprintf("e.WriteInt32(%s)", expr)
	case "int64_t":
		return fmt.Sprintf("e.WriteInt64(%s)", expr)
	case "byte":
		return fmt.Sprintf("e.WriteUint8(%s)", expr)
	case "float":
		return fmt.Sprintf("e.WriteFloat32(%s)", expr)
	case "double":
		return fmt.Sprintf("e.WriteFloat64(%s)", expr)
	case "string":
		return fmt.Sprintf("e.WriteString(%s)", expr)
	case "boolean":
		return fmt.Sprintf("e.WriteBool(%s)", expr)
	default:
		return fmt.Sprintf("%s.EncodeTo(e)", expr)
	}
}

// decodeStmt renders the statement block that decodes one element into expr.
func decodeStmt(t schema.TypeName, expr, indent string) string {
	var call string
	switch t.Full {
	case "int8_t":
		call = "d.ReadInt8()"
	case "int16_t":
		call = "d.ReadInt16()"
	case "int32_t":
		call = "d.ReadInt32()"
	case "int64_t":
		call = "d.ReadInt64()"
	case "byte":
		call = "d.ReadUint8()"
	case "float":
		call = "d.ReadFloat32()"
	case "double":
		call = "d.ReadFloat64()"
	case "string":
		call = "d.ReadString()"
	case "boolean":
		call = "d.ReadBool()"
	default:
		return fmt.Sprintf("%sif err = %s.DecodeFrom(d); err != nil {\n%s\treturn err\n%s}\n",
			indent, expr, indent, indent)
	}
	return fmt.Sprintf("%sif %s, err = %s; err != nil {\n%s\treturn err\n%s}\n",
		indent, expr, call, indent, indent)
}

// encodeMember renders the EncodeTo body lines for one member: fields in
// declaration order, arrays element by element in row-major order.
func encodeMember(m *schema.Member) string {
	var b strings.Builder
	expr := "m." + ToPascalCase(m.Name)
	indent := "\t"

	for i := range m.Dimensions {
		fmt.Fprintf(&b, "%sfor i%d := range %s {\n", indent, i, expr)
		expr = fmt.Sprintf("%s[i%d]", expr, i)
		indent += "\t"
	}
	b.WriteString(indent)
	b.WriteString(encodeCall(m.Type, expr))
	b.WriteString("\n")
	for i := len(m.Dimensions); i > 0; i-- {
		indent = indent[:len(indent)-1]
		b.WriteString(indent)
		b.WriteString("}\n")
	}
	return b.String()
}

// decodeMember renders the DecodeFrom body lines for one member. Variable
// dimensions allocate from the previously decoded size member, bounded by
// the bytes remaining.
func decodeMember(m *schema.Member) string {
	var b strings.Builder
	writeDecodeDims(&b, m, 0, "m."+ToPascalCase(m.Name), "\t")
	return b.String()
}

func writeDecodeDims(b *strings.Builder, m *schema.Member, level int, expr, indent string) {
	if level == len(m.Dimensions) {
		b.WriteString(decodeStmt(m.Type, expr, indent))
		return
	}

	dim := m.Dimensions[level]
	if dim.Mode == schema.VarDim {
		size := "m." + ToPascalCase(dim.Size)
		fmt.Fprintf(b, "%sif err = d.CheckLength(int64(%s), %d); err != nil {\n%s\treturn err\n%s}\n",
			indent, size, minElementSize(m, level+1), indent, indent)
		fmt.Fprintf(b, "%s%s = make(%s, %s)\n", indent, expr, sliceType(m, level), size)
	}

	fmt.Fprintf(b, "%sfor i%d := range %s {\n", indent, level, expr)
	writeDecodeDims(b, m, level+1, fmt.Sprintf("%s[i%d]", expr, level), indent+"\t")
	fmt.Fprintf(b, "%s}\n", indent)
}

// sliceType renders the Go type of the dimensions from level onward.
func sliceType(m *schema.Member, level int) string {
	var b strings.Builder
	b.WriteString("[]")
	for _, d := range m.Dimensions[level+1:] {
		if d.Mode == schema.ConstDim {
			fmt.Fprintf(&b, "[%s]", d.Size)
		} else {
			b.WriteString("[]")
		}
	}
	b.WriteString(goBaseType(m.Type))
	return b.String()
}

// minElementSize is the smallest possible encoded size of one element of
// the dimensions from level onward, used to bound variable array lengths.
func minElementSize(m *schema.Member, level int) int {
	size := 1
	switch m.Type.Full {
	case "int16_t":
		size = 2
	case "int32_t", "float":
		size = 4
	case "int64_t", "double":
		size = 8
	case "string":
		size = 5
	}
	for _, d := range m.Dimensions[level:] {
		if d.Mode != schema.ConstDim {
			return 1
		}
		n := 0
		fmt.Sscanf(d.Size, "%d", &n)
		if n > 0 {
			size *= n
		}
	}
	return size
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const goTemplate = `// Code generated by lingonberry. DO NOT EDIT.
// Source: {{ .Struct.File }}

package {{ goPackage }}

import (
	lingonberry "{{ runtimeImport }}"
)

{{ if .Struct.Constants }}const (
{{- range .Struct.Constants }}
{{ fieldComment .Doc }}	{{ goConstName . }} {{ goConstType .Type }} = {{ .Value }}
{{- end }}
)

{{ end }}{{ comment .Struct.Doc }}type {{ goName }} struct {
{{- range .Struct.Members }}
{{ fieldComment .Doc }}	{{ goFieldName . }} {{ goFieldType . }}
{{- end }}
}

// Fingerprint returns the structural fingerprint {{ fingerprintHex }}.
func (m *{{ goName }}) Fingerprint() int64 {
	return {{ fingerprint }}
}

// EncodeTo appends the message body to e.
func (m *{{ goName }}) EncodeTo(e *lingonberry.Encoder) {
{{- range .Struct.Members }}
{{ encodeMember . }}
{{- end -}}
}

// DecodeFrom reads the message body from d.
func (m *{{ goName }}) DecodeFrom(d *lingonberry.Decoder) error {
{{- if .Struct.Members }}
	var err error
{{- range .Struct.Members }}
{{ decodeMember . }}
{{- end }}
{{- end }}
	return nil
}
`
