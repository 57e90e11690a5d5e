package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blockberries/lingonberry/pkg/schema"
)

// Extractor extracts schemas from Go packages.
type Extractor struct {
	loader *PackageLoader
}

// NewExtractor creates a new schema extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		loader: NewPackageLoader(),
	}
}

// ExtractorConfig configures the extraction process.
type ExtractorConfig struct {
	Config     *Config  // Type collector configuration
	Patterns   []string // Go package patterns to load
	OutputPath string   // Output file path (empty for stdout)
	Package    string   // Schema package override (empty keeps Go package names)
}

// Extract extracts a schema from Go packages. Warnings report fields and
// types that were skipped for having no schema counterpart.
func (e *Extractor) Extract(cfg *ExtractorConfig) (*schema.Schema, []string, error) {
	pkgs, err := e.loader.Load(cfg.Patterns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, nil, fmt.Errorf("no packages matched patterns: %v", cfg.Patterns)
	}

	collector := NewTypeCollector(pkgs, cfg.Config)
	if err := collector.Collect(); err != nil {
		return nil, nil, fmt.Errorf("failed to collect types: %w", err)
	}

	builder := NewSchemaBuilder(collector.Types(), cfg.Package)
	s, err := builder.Build()
	if err != nil {
		return nil, builder.Warnings(), fmt.Errorf("failed to build schema: %w", err)
	}

	return s, builder.Warnings(), nil
}

// ExtractAndWrite extracts a schema and writes it in source form to
// cfg.OutputPath, or to stdout when no path is configured.
func (e *Extractor) ExtractAndWrite(cfg *ExtractorConfig) ([]string, error) {
	s, warnings, err := e.Extract(cfg)
	if err != nil {
		return warnings, err
	}

	var out io.Writer = os.Stdout
	if cfg.OutputPath != "" {
		dir := filepath.Dir(cfg.OutputPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return warnings, fmt.Errorf("failed to create output directory: %w", err)
		}

		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return warnings, fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer := schema.NewWriter()
	return warnings, writer.WriteSchema(out, s)
}

// ExtractToString extracts a schema and returns it in source form.
func ExtractToString(patterns []string, config *Config) (string, error) {
	extractor := NewExtractor()
	s, _, err := extractor.Extract(&ExtractorConfig{
		Config:   config,
		Patterns: patterns,
	})
	if err != nil {
		return "", err
	}
	return schema.FormatSchema(s), nil
}
