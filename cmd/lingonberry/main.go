// Command lingonberry is the lingonberry schema compiler and code generator.
//
// Usage:
//
//	lingonberry check [options] <schema-file>...
//	lingonberry gen [options] <schema-file>...
//	lingonberry format [options] <schema-file>...
//	lingonberry extract [options] <go-package>...
//	lingonberry watch [options] <schema-file>...
//	lingonberry version
//
// Check Command:
//
//	Parse and validate schema files without generating code.
//
//	Options:
//	  -d                Dump parsed structs with their fingerprints
//	  -t                Dump the token stream of each file
//	  -prefix string    Prepend a package prefix to every declared type
//
// Gen Command:
//
//	Generate language bindings from schema files.
//
//	Options:
//	  -lang string      Target language (default "go")
//	  -o string         Output directory (default ".")
//	  -package string   Override the target-language package name
//	  -prefix string    Prepend a package prefix to every declared type
//	  -nc               Omit doc comments from generated code
//
// Format Command:
//
//	Print schema files in canonical form.
//
//	Options:
//	  -w                Write result to (source) file instead of stdout
//
// Extract Command:
//
//	Derive schema definitions from Go struct types.
//
//	Options:
//	  -out string       Output file (default: stdout)
//	  -package string   Override the schema package
//	  -private          Include unexported types
//	  -include string   Type name pattern to include (glob, can be repeated)
//	  -exclude string   Type name pattern to exclude (glob, can be repeated)
//
// Watch Command:
//
//	Re-check schema files whenever they change on disk.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/blockberries/lingonberry/pkg/codegen"
	"github.com/blockberries/lingonberry/pkg/extract"
	"github.com/blockberries/lingonberry/pkg/lingonberry"
	"github.com/blockberries/lingonberry/pkg/schema"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	codegen.Register(codegen.NewGoGenerator())

	switch os.Args[1] {
	case "check", "validate", "c":
		cmdCheck(os.Args[2:])
	case "gen", "generate", "g":
		cmdGen(os.Args[2:])
	case "format", "fmt", "f":
		cmdFormat(os.Args[2:])
	case "extract", "schema", "x":
		cmdExtract(os.Args[2:])
	case "watch", "w":
		cmdWatch(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Lingonberry Schema Compiler

Usage:
  lingonberry <command> [options] <files>...

Commands:
  check       Parse and validate schema files
  gen         Generate language bindings from schema files
  format      Print schema files in canonical form
  extract     Derive schema definitions from Go struct types
  watch       Re-check schema files whenever they change
  version     Print version information
  help        Print this help message

Run 'lingonberry <command> -h' for command-specific help.`)
}

// stringSliceFlag allows a flag to be repeated.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// checkFiles parses all files into one schema. The package directive
// carries over from one file into the next, so order matters. Warnings go
// to stderr. A duplicate struct fails only the file that declares it and
// the remaining files are still checked; any other parse or semantic error
// stops the whole run. The fatal result reports that early stop, so
// callers know the schema is incomplete.
func checkFiles(files []string, prefix string) (s *schema.Schema, ok, fatal bool) {
	s = schema.NewSchema(schema.Options{PackagePrefix: prefix})
	ok = true

	for _, inputFile := range files {
		warnings, err := s.ParseFile(inputFile)
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, w)
		}
		if err == nil {
			continue
		}
		fmt.Fprintln(os.Stderr, err)
		ok = false
		var dup *schema.DuplicateStructError
		if !errors.As(err, &dup) {
			return s, false, true
		}
	}
	return s, ok, false
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	dump := fs.Bool("d", false, "Dump parsed structs with their fingerprints")
	tokens := fs.Bool("t", false, "Dump the token stream of each file")
	prefix := fs.String("prefix", "", "Prepend a package prefix to every declared type")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry check [options] <schema-file>...

Parse and validate lingonberry schema files.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	if *tokens {
		hasErrors := false
		for _, inputFile := range fs.Args() {
			f, err := os.Open(inputFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", inputFile, err)
				hasErrors = true
				continue
			}
			toks, err := schema.Tokenize(inputFile, f)
			f.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				hasErrors = true
				continue
			}
			schema.DumpTokens(os.Stdout, toks)
		}
		if hasErrors {
			os.Exit(1)
		}
		return
	}

	s, ok, fatal := checkFiles(fs.Args(), *prefix)
	if *dump && !fatal {
		schema.DumpSchema(os.Stdout, s)
	}
	if !ok {
		os.Exit(1)
	}
}

func cmdGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	lang := fs.String("lang", "go", "Target language")
	outDir := fs.String("o", ".", "Output directory")
	pkg := fs.String("package", "", "Override the target-language package name")
	prefix := fs.String("prefix", "", "Prepend a package prefix to every declared type")
	noComments := fs.Bool("nc", false, "Omit doc comments from generated code")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry gen [options] <schema-file>...

Generate language bindings from lingonberry schema files.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	gen, ok := codegen.Get(codegen.Language(*lang))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unsupported language: %s\n", *lang)
		fmt.Fprintf(os.Stderr, "Supported languages: %v\n", codegen.Languages())
		os.Exit(1)
	}

	s, parsedOK, _ := checkFiles(fs.Args(), *prefix)
	if !parsedOK {
		os.Exit(1)
	}

	opts := codegen.DefaultOptions()
	opts.Package = *pkg
	opts.OutputPath = *outDir
	opts.GenerateComments = !*noComments

	if err := codegen.GenerateAll(gen, s, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating code: %v\n", err)
		os.Exit(1)
	}

	for _, st := range s.Structs {
		fmt.Printf("Generated: %s\n",
			filepath.Join(*outDir, filepath.FromSlash(strings.ReplaceAll(st.Name.Package, ".", "/")),
				st.Name.Short+gen.FileExtension()))
	}
}

func cmdFormat(args []string) {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	write := fs.Bool("w", false, "Write result to (source) file instead of stdout")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry format [options] <schema-file>...

Print lingonberry schema files in canonical form.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	hasErrors := false
	for _, inputFile := range fs.Args() {
		// Each file formats independently: a fresh schema per file keeps
		// the output self-contained.
		s := schema.NewSchema(schema.Options{})
		warnings, err := s.ParseFile(inputFile)
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, w)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			hasErrors = true
			continue
		}

		formatted := schema.FormatSchema(s)
		if *write {
			if err := os.WriteFile(inputFile, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", inputFile, err)
				hasErrors = true
				continue
			}
			fmt.Printf("Formatted: %s\n", inputFile)
		} else {
			fmt.Print(formatted)
		}
	}

	if hasErrors {
		os.Exit(1)
	}
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	outFile := fs.String("out", "", "Output file (default: stdout)")
	pkg := fs.String("package", "", "Override the schema package")
	private := fs.Bool("private", false, "Include unexported types")
	var includePatterns stringSliceFlag
	fs.Var(&includePatterns, "include", "Type name pattern to include (glob, can be repeated)")
	var excludePatterns stringSliceFlag
	fs.Var(&excludePatterns, "exclude", "Type name pattern to exclude (glob, can be repeated)")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry extract [options] <go-package>...

Derive lingonberry schema definitions from Go struct types.

Examples:
  lingonberry extract ./...
  lingonberry extract -out msgs.lingonberry ./pkg/models
  lingonberry extract -include "Pose*" -exclude "*Internal" ./...

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no Go packages specified")
		fs.Usage()
		os.Exit(1)
	}

	cfg := &extract.ExtractorConfig{
		Config: &extract.Config{
			IncludePrivate:  *private,
			IncludePatterns: includePatterns,
			ExcludePatterns: excludePatterns,
		},
		Patterns:   fs.Args(),
		OutputPath: *outFile,
		Package:    *pkg,
	}

	extractor := extract.NewExtractor()
	warnings, err := extractor.ExtractAndWrite(cfg)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outFile != "" {
		fmt.Printf("Extracted: %s\n", *outFile)
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	prefix := fs.String("prefix", "", "Prepend a package prefix to every declared type")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry watch [options] <schema-file>...

Re-check schema files whenever they change on disk.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	files := fs.Args()
	watched := make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		watched[abs] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch directories, not files: editors replace files on save, which
	// drops a watch placed on the file itself.
	dirs := make(map[string]bool)
	for abs := range watched {
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	runCheck := func() {
		if _, ok, _ := checkFiles(files, *prefix); ok {
			fmt.Printf("OK: %s\n", strings.Join(files, " "))
		}
	}

	runCheck()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				runCheck()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}

func cmdVersion() {
	fmt.Printf("lingonberry version %s\n", lingonberry.VersionInfo())
}
