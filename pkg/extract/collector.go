package extract

import (
	"go/ast"
	"go/types"
	"reflect"
	"regexp"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Config configures the type collector.
type Config struct {
	IncludePrivate  bool     // Include unexported types
	IncludePatterns []string // Type name patterns to include (glob)
	ExcludePatterns []string // Type name patterns to exclude (glob)
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		IncludePrivate: false,
	}
}

// TypeCollector collects struct types from Go packages. Only struct types
// are collected; interfaces, maps, and function types have no schema
// counterpart.
type TypeCollector struct {
	packages []*packages.Package
	config   *Config
	types    map[string]*TypeInfo
}

// NewTypeCollector creates a new type collector.
func NewTypeCollector(pkgs []*packages.Package, cfg *Config) *TypeCollector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &TypeCollector{
		packages: pkgs,
		config:   cfg,
		types:    make(map[string]*TypeInfo),
	}
}

// Collect analyzes all packages and collects struct type information.
func (c *TypeCollector) Collect() error {
	for _, pkg := range c.packages {
		if err := c.collectPackage(pkg); err != nil {
			return err
		}
	}
	return nil
}

// Types returns collected struct types, keyed by qualified Go name.
func (c *TypeCollector) Types() map[string]*TypeInfo {
	return c.types
}

func (c *TypeCollector) collectPackage(pkg *packages.Package) error {
	// Walk syntax first: type docs and field docs only exist in the AST.
	typeDocs := make(map[string]string)
	fieldDocs := make(map[string]map[string]string)
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := extractDoc(genDecl.Doc)
				if doc == "" {
					doc = extractDoc(typeSpec.Doc)
				}
				typeDocs[typeSpec.Name.Name] = strings.TrimSpace(doc)

				structType, ok := typeSpec.Type.(*ast.StructType)
				if !ok {
					continue
				}
				docs := make(map[string]string)
				for _, field := range structType.Fields.List {
					doc := extractDoc(field.Doc)
					if doc == "" {
						doc = extractDoc(field.Comment)
					}
					for _, name := range field.Names {
						docs[name.Name] = strings.TrimSpace(doc)
					}
				}
				fieldDocs[typeSpec.Name.Name] = docs
			}
		}
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if obj == nil {
			continue
		}
		if !c.config.IncludePrivate && !obj.Exported() {
			continue
		}
		if !c.matchesPatterns(name) {
			continue
		}

		if typeName, ok := obj.(*types.TypeName); ok {
			c.collectType(typeName, pkg.PkgPath, typeDocs[name], fieldDocs[name])
		}
	}

	return nil
}

func (c *TypeCollector) collectType(typeName *types.TypeName, pkgPath, doc string, fieldDocs map[string]string) {
	st, ok := typeName.Type().Underlying().(*types.Struct)
	if !ok {
		return
	}

	info := &TypeInfo{
		Name:    typeName.Name(),
		Package: typeName.Pkg().Name(),
		PkgPath: pkgPath,
		Doc:     doc,
		GoType:  typeName.Type(),
	}

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if field.Anonymous() {
			continue
		}
		if !c.config.IncludePrivate && !field.Exported() {
			continue
		}

		tag := parseTag(st.Tag(i))
		if tag.Skip {
			continue
		}

		info.Fields = append(info.Fields, &FieldInfo{
			Name:   field.Name(),
			GoType: field.Type(),
			Doc:    fieldDocs[field.Name()],
			Tag:    tag,
		})
	}

	c.types[pkgPath+"."+typeName.Name()] = info
}

// parseTag parses a `lingonberry:"..."` struct tag. The first element is a
// member name override; "-" skips the field.
func parseTag(tag string) *StructTag {
	st := &StructTag{}

	value := reflect.StructTag(tag).Get("lingonberry")
	if value == "-" {
		st.Skip = true
		return st
	}
	if value != "" {
		st.Name = strings.Split(value, ",")[0]
	}
	return st
}

func (c *TypeCollector) matchesPatterns(name string) bool {
	// If no include patterns, include all
	if len(c.config.IncludePatterns) == 0 {
		for _, pattern := range c.config.ExcludePatterns {
			if matchGlob(pattern, name) {
				return false
			}
		}
		return true
	}

	matched := false
	for _, pattern := range c.config.IncludePatterns {
		if matchGlob(pattern, name) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, pattern := range c.config.ExcludePatterns {
		if matchGlob(pattern, name) {
			return false
		}
	}
	return true
}

func matchGlob(pattern, name string) bool {
	// Simple glob matching: * matches any sequence
	regexPattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`) + "$"
	matched, _ := regexp.MatchString(regexPattern, name)
	return matched
}
