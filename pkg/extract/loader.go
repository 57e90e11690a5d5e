// Package extract derives lingonberry schema definitions from Go source
// code, so existing Go types can be published as message definitions.
package extract

import (
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// PackageLoader loads Go packages for analysis.
type PackageLoader struct {
	config *packages.Config
}

// NewPackageLoader creates a new package loader.
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{
		config: &packages.Config{
			Mode: packages.NeedName |
				packages.NeedTypes |
				packages.NeedTypesInfo |
				packages.NeedSyntax |
				packages.NeedImports |
				packages.NeedDeps,
		},
	}
}

// Load loads packages matching the given patterns.
func (l *PackageLoader) Load(patterns []string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(l.config, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for errors in loaded packages
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			errs = append(errs, err)
		}
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs[0])
	}

	return pkgs, nil
}

// TypeInfo describes one extracted Go struct type.
type TypeInfo struct {
	Name    string
	Package string
	PkgPath string
	Doc     string
	Fields  []*FieldInfo
	GoType  types.Type
}

// FieldInfo describes one field of an extracted struct.
type FieldInfo struct {
	Name   string
	GoType types.Type
	Doc    string
	Tag    *StructTag
}

// StructTag is a parsed lingonberry struct tag. The tag carries an
// optional member name override; "-" skips the field entirely.
type StructTag struct {
	Name string
	Skip bool
}

// extractDoc extracts documentation from an AST comment group.
func extractDoc(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return cg.Text()
}
