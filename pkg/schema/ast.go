// Package schema provides tokenizing, parsing, and fingerprinting for
// Lingonberry schema files.
//
// Schema files (.lingonberry) define the structure of wire-format messages:
// packages, structs, typed fields with optional array dimensions, and typed
// struct-scoped constants. Parsing produces an in-memory model in which each
// struct carries a deterministic 64-bit structural fingerprint used for
// wire-compatibility checking.
package schema

import "strings"

// TypeName is a resolved type reference. It is derived once at parse time
// from the raw source text, the current package, and the configured package
// prefix, and is immutable afterwards.
type TypeName struct {
	// Full is the fully-qualified name, e.g. "edu.mit.dgc.laser_t".
	Full string
	// Package is the package portion, e.g. "edu.mit.dgc".
	Package string
	// Short is the unqualified name, e.g. "laser_t".
	Short string
}

// DimensionMode indicates whether an array dimension has a fixed size or a
// size given by another field's runtime value.
//
// The mode is part of a struct's fingerprint, so the numeric values are
// frozen; changing them would be a wire-compatibility break.
type DimensionMode int

const (
	// ConstDim is a fixed-size dimension.
	ConstDim DimensionMode = 0
	// VarDim is a dimension sized by a previously declared scalar
	// integer member.
	VarDim DimensionMode = 1
)

// String returns a human-readable name for the dimension mode.
func (m DimensionMode) String() string {
	switch m {
	case ConstDim:
		return "const"
	case VarDim:
		return "var"
	default:
		return "unknown"
	}
}

// Dimension is one axis of an array member. Size holds either a decimal
// literal (ConstDim) or the name of a previously declared member (VarDim).
type Dimension struct {
	Mode DimensionMode
	Size string
}

// DocComment is a doc comment attached to a declaration. Valid reports
// whether a comment was present; an empty comment is distinct from none.
type DocComment struct {
	Text  string
	Valid bool
}

// Member is one field of a struct. A scalar has no dimensions.
type Member struct {
	Type       TypeName
	Name       string
	Dimensions []Dimension
	Doc        DocComment
}

// Constant is a named, typed literal scoped to its struct. The value is
// kept as the literal source text.
type Constant struct {
	Type  string
	Name  string
	Value string
	Doc   DocComment
}

// Struct is a top-level schema entity. Members and constants appear in
// declaration order. The fingerprint is computed once, when the closing
// brace is parsed, and the struct is immutable afterwards.
type Struct struct {
	Name      TypeName
	Members   []*Member
	Constants []*Constant

	// Structs is reserved for nested declarations, which the grammar
	// rejects; it is always empty.
	Structs []*Struct

	// File is the path of the source file that declared the struct.
	File string

	// Hash is the 64-bit structural fingerprint.
	Hash int64

	Doc     DocComment
	FileDoc DocComment
}

// FindMember returns the member with the given name, or nil.
func (st *Struct) FindMember(name string) *Member {
	for _, m := range st.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindConstant returns the constant with the given name, or nil.
func (st *Struct) FindConstant(name string) *Constant {
	for _, c := range st.Constants {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Options configures schema compilation.
type Options struct {
	// PackagePrefix is prepended to the package of every non-primitive
	// type name during resolution. Default is empty.
	PackagePrefix string
}

// Schema is the accumulated compiler state for one run. A single Schema is
// shared across all input files: the struct list is append-only, and the
// current package persists from one file into the next until a new package
// directive resets it. There is exactly one writer (the active parse), so
// no locking is needed.
type Schema struct {
	Options Options
	Structs []*Struct

	// Parse cache. pkg carries over between files on purpose: the last
	// package directive stays in effect until re-specified, even across
	// file boundaries.
	pkg     string
	doc     DocComment
	fileDoc DocComment
}

// NewSchema creates an empty schema with the given options.
func NewSchema(opts Options) *Schema {
	return &Schema{Options: opts}
}

// Package returns the package currently in effect for declarations.
func (s *Schema) Package() string {
	return s.pkg
}

// FindStruct returns the struct with the given package and short name, or
// nil. Struct identity is (package, short name) across the whole run.
func (s *Schema) FindStruct(pkg, short string) *Struct {
	for _, st := range s.Structs {
		if st.Name.Package == pkg && st.Name.Short == short {
			return st
		}
	}
	return nil
}

// ResolveTypeName resolves raw source text into a TypeName. An unqualified
// name inherits the current package, like in Java; a configured package
// prefix is prepended to every non-primitive name.
func (s *Schema) ResolveTypeName(raw string) TypeName {
	full := raw
	var pkg, short string
	if i := strings.LastIndexByte(raw, '.'); i < 0 {
		short = raw
		if !IsPrimitive(short) {
			pkg = s.pkg
			if pkg != "" {
				full = pkg + "." + short
			}
		}
	} else {
		pkg = raw[:i]
		short = raw[i+1:]
	}

	if prefix := s.Options.PackagePrefix; prefix != "" && !IsPrimitive(short) {
		if pkg != "" {
			pkg = prefix + "." + pkg
		} else {
			pkg = prefix
		}
		full = pkg + "." + short
	}

	return TypeName{Full: full, Package: pkg, Short: short}
}

// takeDoc returns the pending doc comment and clears it. Attachment is
// consume-once.
func (s *Schema) takeDoc() DocComment {
	d := s.doc
	s.doc = DocComment{}
	return d
}

// takeFileDoc returns the pending file-header comment and clears it.
func (s *Schema) takeFileDoc() DocComment {
	d := s.fileDoc
	s.fileDoc = DocComment{}
	return d
}

// PrimitiveTypes lists the built-in types, in a stable order. Unsigned
// types are deliberately absent: not every target language can represent
// them safely.
var PrimitiveTypes = []string{
	"int8_t",
	"int16_t",
	"int32_t",
	"int64_t",
	"byte",
	"float",
	"double",
	"string",
	"boolean",
}

var primitiveSet = func() map[string]bool {
	m := make(map[string]bool, len(PrimitiveTypes))
	for _, t := range PrimitiveTypes {
		m[t] = true
	}
	return m
}()

// IsPrimitive returns true if name is a built-in type.
func IsPrimitive(name string) bool {
	return primitiveSet[name]
}

// arrayDimensionTypes are the types legal as a variable array dimension.
var arrayDimensionTypes = map[string]bool{
	"int8_t":  true,
	"int16_t": true,
	"int32_t": true,
	"int64_t": true,
}

// IsArrayDimensionType returns true if the resolved type may size an array.
func IsArrayDimensionType(t TypeName) bool {
	return arrayDimensionTypes[t.Full]
}

// constTypes are the types legal in a const declaration.
var constTypes = map[string]bool{
	"int8_t":  true,
	"int16_t": true,
	"int32_t": true,
	"int64_t": true,
	"float":   true,
	"double":  true,
}

// IsConstType returns true if name may be used as a const type.
func IsConstType(name string) bool {
	return constTypes[name]
}

// intBounds maps fixed-width integer type names to their two's-complement
// ranges, per <stdint.h>.
var intBounds = map[string]struct{ Min, Max int64 }{
	"int8_t":  {-128, 127},
	"int16_t": {-32768, 32767},
	"int32_t": {-2147483648, 2147483647},
	"int64_t": {-9223372036854775808, 9223372036854775807},
}

// intInBounds reports whether v fits the named fixed-width integer type.
func intInBounds(v int64, typ string) bool {
	b, ok := intBounds[typ]
	return ok && v >= b.Min && v <= b.Max
}

// isLegalName reports whether s is a legal member, constant, or type name:
// the first character must be a letter or underscore.
func isLegalName(s string) bool {
	for _, r := range s {
		return r == '_' || isLetter(r)
	}
	return false
}
