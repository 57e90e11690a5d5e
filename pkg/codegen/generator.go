// Package codegen generates language bindings from lingonberry schemas.
package codegen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/blockberries/lingonberry/pkg/schema"
)

// Language represents a target code generation language.
type Language string

const (
	LanguageGo Language = "go"
)

// Generator is the interface for code generators. One schema struct
// produces one source file.
type Generator interface {
	// Generate produces binding code for one struct.
	Generate(w io.Writer, st *schema.Struct, opts Options) error

	// Language returns the target language.
	Language() Language

	// FileExtension returns the file extension for generated files.
	FileExtension() string
}

// Options configures code generation.
type Options struct {
	// Package overrides the target-language package name derived from
	// the schema package.
	Package string

	// OutputPath is the base output directory.
	OutputPath string

	// RuntimeImport is the import path of the encoding runtime. Empty
	// means the default lingonberry runtime.
	RuntimeImport string

	// GenerateComments includes doc comments from the schema.
	GenerateComments bool
}

// DefaultOptions returns the default code generation options.
func DefaultOptions() Options {
	return Options{
		GenerateComments: true,
	}
}

// registry holds registered generators by language.
var registry = make(map[Language]Generator)

// Register registers a generator for a language.
func Register(gen Generator) {
	registry[gen.Language()] = gen
}

// Get returns the generator for a language.
func Get(lang Language) (Generator, bool) {
	gen, ok := registry[lang]
	return gen, ok
}

// Languages returns all registered languages.
func Languages() []Language {
	langs := make([]Language, 0, len(registry))
	for lang := range registry {
		langs = append(langs, lang)
	}
	return langs
}

// GenerateAll writes one binding file per struct under opts.OutputPath,
// grouped into a directory per schema package.
func GenerateAll(gen Generator, s *schema.Schema, opts Options) error {
	for _, st := range s.Structs {
		dir := opts.OutputPath
		if pkg := packageDir(st.Name.Package); pkg != "" {
			dir = filepath.Join(dir, pkg)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		path := filepath.Join(dir, st.Name.Short+gen.FileExtension())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := gen.Generate(f, st, opts); err != nil {
			f.Close()
			return fmt.Errorf("failed to generate %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// packageDir maps a dotted schema package to a directory path.
func packageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", string(filepath.Separator))
}

// Helper functions for code generation

// titleCaser is used for converting strings to title case.
var titleCaser = cases.Title(language.English)

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = titleCaser.String(strings.ToLower(p))
	}
	return strings.Join(parts, "")
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return ""
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "_")
}

// ToUpperSnakeCase converts a string to UPPER_SNAKE_CASE.
func ToUpperSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p)
	}
	return strings.Join(parts, "_")
}

// splitName splits a name into parts based on underscores and case transitions.
func splitName(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	for i, r := range s {
		if r == '_' || r == '-' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			continue
		}

		// Check for case transition
		if i > 0 && isUpper(r) && !isUpper(rune(s[i-1])) {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Comment wraps text as a comment with the given prefix.
func Comment(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = prefix
		} else {
			lines[i] = prefix + " " + line
		}
	}
	return strings.Join(lines, "\n")
}
