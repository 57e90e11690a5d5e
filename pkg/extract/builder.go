package extract

import (
	"fmt"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/blockberries/lingonberry/pkg/schema"
)

// SchemaBuilder converts collected Go types into schema structs. Fields
// whose types have no schema counterpart are skipped with a warning.
type SchemaBuilder struct {
	types    map[string]*TypeInfo
	pkg      string // schema package override, empty to use the Go package name
	names    map[string]schema.TypeName
	schema   *schema.Schema
	warnings []string
}

// NewSchemaBuilder creates a new schema builder. packageName overrides the
// schema package of every struct; empty keeps the declaring Go package's
// name.
func NewSchemaBuilder(typeInfos map[string]*TypeInfo, packageName string) *SchemaBuilder {
	return &SchemaBuilder{
		types: typeInfos,
		pkg:   packageName,
		names: make(map[string]schema.TypeName),
	}
}

// Warnings returns any warnings generated during schema building.
func (b *SchemaBuilder) Warnings() []string {
	return b.warnings
}

func (b *SchemaBuilder) addWarning(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// Build constructs a schema from the collected types.
func (b *SchemaBuilder) Build() (*schema.Schema, error) {
	b.schema = schema.NewSchema(schema.Options{})

	// Assign every type its schema name first, so members can reference
	// structs that are built later.
	qualified := make([]string, 0, len(b.types))
	for name := range b.types {
		qualified = append(qualified, name)
	}
	sort.Strings(qualified)
	for _, q := range qualified {
		b.names[q] = b.schemaTypeName(b.types[q])
	}

	// Deterministic output: group by schema package, then by name.
	sort.Slice(qualified, func(i, j int) bool {
		a, c := b.names[qualified[i]], b.names[qualified[j]]
		if a.Package != c.Package {
			return a.Package < c.Package
		}
		return a.Short < c.Short
	})

	for _, q := range qualified {
		info := b.types[q]
		name := b.names[q]
		if b.schema.FindStruct(name.Package, name.Short) != nil {
			b.addWarning("%s: duplicate schema name %s, skipping", q, name.Full)
			continue
		}
		b.schema.Structs = append(b.schema.Structs, b.buildStruct(info, name))
	}

	return b.schema, nil
}

// schemaTypeName derives the schema name of a Go type. Names follow the
// usual convention of snake_case with a _t suffix.
func (b *SchemaBuilder) schemaTypeName(info *TypeInfo) schema.TypeName {
	short := toSnakeCase(info.Name)
	if !strings.HasSuffix(short, "_t") {
		short += "_t"
	}

	pkg := b.pkg
	if pkg == "" {
		pkg = info.Package
	}

	full := short
	if pkg != "" {
		full = pkg + "." + short
	}
	return schema.TypeName{Full: full, Package: pkg, Short: short}
}

func (b *SchemaBuilder) buildStruct(info *TypeInfo, name schema.TypeName) *schema.Struct {
	st := &schema.Struct{
		Name: name,
		File: info.PkgPath,
		Doc:  docComment(info.Doc),
	}

	for _, field := range info.Fields {
		b.buildMember(st, info, field)
	}

	st.Hash = schema.Fingerprint(st)
	return st
}

// buildMember appends the member for one Go field, peeling array and slice
// dimensions down to the element type. A slice becomes a variable-size
// dimension backed by a num_<member> size member, synthesized unless a
// member of that name already exists.
func (b *SchemaBuilder) buildMember(st *schema.Struct, info *TypeInfo, field *FieldInfo) {
	name := field.Tag.Name
	if name == "" {
		name = toSnakeCase(field.Name)
	}

	var dims []schema.Dimension
	typ := field.GoType
loop:
	for {
		switch t := typ.(type) {
		case *types.Array:
			dims = append(dims, schema.Dimension{
				Mode: schema.ConstDim,
				Size: strconv.FormatInt(t.Len(), 10),
			})
			typ = t.Elem()
		case *types.Slice:
			// One runtime length per member: a slice nested under
			// another dimension has no single size to record.
			if len(dims) > 0 {
				b.addWarning("%s.%s: nested slice is not representable, skipping",
					info.Name, field.Name)
				return
			}
			dims = append(dims, schema.Dimension{
				Mode: schema.VarDim,
				Size: "num_" + name,
			})
			typ = t.Elem()
		case *types.Pointer:
			b.addWarning("%s.%s: pointer flattened to value", info.Name, field.Name)
			typ = t.Elem()
		default:
			break loop
		}
	}

	memberType, ok := b.memberType(typ, info.Name, field.Name)
	if !ok {
		return
	}

	if len(dims) > 0 && dims[0].Mode == schema.VarDim {
		sizeName := dims[0].Size
		if existing := st.FindMember(sizeName); existing == nil {
			st.Members = append(st.Members, &schema.Member{
				Type: primitiveType("int32_t"),
				Name: sizeName,
			})
		} else if !schema.IsArrayDimensionType(existing.Type) {
			b.addWarning("%s.%s: size member %s is not an integer, skipping",
				info.Name, field.Name, sizeName)
			return
		}
	}

	st.Members = append(st.Members, &schema.Member{
		Type:       memberType,
		Name:       name,
		Dimensions: dims,
		Doc:        docComment(field.Doc),
	})
}

// memberType maps a Go element type to a schema type name.
func (b *SchemaBuilder) memberType(typ types.Type, owner, field string) (schema.TypeName, bool) {
	switch t := typ.(type) {
	case *types.Basic:
		name, ok := mapBasicKind(t.Kind())
		if !ok {
			b.addWarning("%s.%s: unsupported type %s, skipping", owner, field, t.String())
			return schema.TypeName{}, false
		}
		return primitiveType(name), true

	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() != nil {
			if tn, ok := b.names[obj.Pkg().Path()+"."+obj.Name()]; ok {
				return tn, true
			}
		}
		// Named scalars flatten to their underlying primitive.
		if basic, ok := t.Underlying().(*types.Basic); ok {
			if name, ok := mapBasicKind(basic.Kind()); ok {
				return primitiveType(name), true
			}
		}
		b.addWarning("%s.%s: type %s is not an extracted struct, skipping",
			owner, field, obj.Name())
		return schema.TypeName{}, false

	default:
		b.addWarning("%s.%s: unsupported type %s, skipping", owner, field, typ.String())
		return schema.TypeName{}, false
	}
}

// mapBasicKind maps a Go basic kind to a schema primitive type name.
func mapBasicKind(kind types.BasicKind) (string, bool) {
	switch kind {
	case types.Bool:
		return "boolean", true
	case types.Int8:
		return "int8_t", true
	case types.Int16:
		return "int16_t", true
	case types.Int32:
		return "int32_t", true
	case types.Int64, types.Int:
		return "int64_t", true
	case types.Uint8:
		return "byte", true
	case types.Float32:
		return "float", true
	case types.Float64:
		return "double", true
	case types.String:
		return "string", true
	default:
		return "", false
	}
}

func primitiveType(name string) schema.TypeName {
	return schema.TypeName{Full: name, Short: name}
}

func docComment(text string) schema.DocComment {
	text = strings.TrimRight(text, "\n")
	return schema.DocComment{Text: text, Valid: text != ""}
}

// toSnakeCase converts a Go identifier to snake_case, keeping acronym runs
// together (HTTPServer becomes http_server).
func toSnakeCase(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			prevLower := i > 0 && isLower(s[i-1])
			nextLower := i+1 < len(s) && isLower(s[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteByte(c - 'A' + 'a')
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
