package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Keywords of the schema grammar. "enum" is reserved but rejected, like
// "goto" in Java.
const (
	kwStruct  = "struct"
	kwPackage = "package"
	kwConst   = "const"
	kwEnum    = "enum"
)

// Parser is a recursive-descent entity parser for one input source. It
// drives a Tokenizer, populates the shared Schema, and performs all
// semantic checks inline while declarations are still being built, so
// array-dimension references resolve against the owning struct's growing
// member and constant lists.
type Parser struct {
	schema   *Schema
	t        *Tokenizer
	path     string
	warnings []Warning
}

// NewParser creates a parser that reads source from r and accumulates
// results into schema. path is used for diagnostics and struct provenance.
func NewParser(schema *Schema, path string, r io.Reader) *Parser {
	return &Parser{
		schema: schema,
		t:      NewTokenizer(path, r),
		path:   path,
	}
}

// Parse consumes entities until end of stream. On the first error the
// whole parse stops; there is no partial-result recovery.
func (p *Parser) Parse() error {
	for {
		more, err := p.parseEntity()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Warnings returns the non-fatal diagnostics emitted so far.
func (p *Parser) Warnings() []Warning {
	return p.warnings
}

// ParseFile opens and parses one schema file into s, returning any
// warnings alongside the first error.
func (s *Schema) ParseFile(path string) ([]Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	p := NewParser(s, path, f)
	err = p.Parse()
	return p.Warnings(), err
}

// parseEntity parses one top-level construct: a package directive or a
// struct declaration. It returns false at end of stream.
func (p *Parser) parseEntity() (bool, error) {
	if err := p.consumeComments(true); err != nil {
		return false, err
	}

	tok, err := p.t.Next()
	if err != nil {
		return false, err
	}
	if tok.Type == TokenEOF {
		return false, nil
	}

	switch tok.Text {
	case kwPackage:
		// Comments before the package directive are the file header.
		p.schema.fileDoc = p.schema.takeDoc()

		if err := p.consumeComments(false); err != nil {
			return false, err
		}
		tok, err := p.nextOrFail("package name")
		if err != nil {
			return false, err
		}
		p.schema.pkg = tok.Text
		if err := p.require(";"); err != nil {
			return false, err
		}
		return true, nil

	case kwStruct:
		st, err := p.parseStruct()
		if err != nil {
			return false, err
		}
		if prev := p.schema.FindStruct(st.Name.Package, st.Name.Short); prev != nil {
			return false, &DuplicateStructError{
				Name:     st.Name.Full,
				File:     p.path,
				PrevFile: prev.File,
			}
		}
		p.schema.Structs = append(p.schema.Structs, st)
		return true, nil

	case kwEnum:
		return false, p.semanticErrorf("enums are not supported")
	}

	return false, p.parseErrorf("Missing struct token.")
}

// parseStruct parses a struct declaration, with the "struct" keyword
// already consumed. The fingerprint is computed exactly once, from the
// final member list, when the closing brace is seen.
func (p *Parser) parseStruct() (*Struct, error) {
	if err := p.consumeComments(false); err != nil {
		return nil, err
	}
	tok, err := p.nextOrFail("struct name")
	if err != nil {
		return nil, err
	}

	st := &Struct{
		Name: p.schema.ResolveTypeName(tok.Text),
		File: p.path,
	}
	st.FileDoc = p.schema.takeFileDoc()
	st.Doc = p.schema.takeDoc()

	if err := p.require("{"); err != nil {
		return nil, err
	}

	for {
		// Remember comments so they can attach to the next member or
		// constant.
		if err := p.consumeComments(true); err != nil {
			return nil, err
		}
		done, err := p.tryConsume("}")
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if err := p.parseMember(st); err != nil {
			return nil, err
		}
	}

	st.Hash = Fingerprint(st)
	return st, nil
}

// parseMember parses one member or constant declaration inside a struct
// body. Multiple members may share a type on one line, each with its own
// array dimensionality. Most of the code is semantic checking.
func (p *Parser) parseMember(st *Struct) error {
	if ok, err := p.tryConsume(kwStruct); err != nil {
		return err
	} else if ok {
		return p.parseErrorf("Recursive structs are not supported.")
	}
	if ok, err := p.tryConsume(kwEnum); err != nil {
		return err
	} else if ok {
		return p.parseErrorf("Enums are not supported.")
	}
	if ok, err := p.tryConsume(kwConst); err != nil {
		return err
	} else if ok {
		return p.parseConst(st)
	}

	if err := p.consumeComments(false); err != nil {
		return err
	}
	tok, err := p.nextOrFail("type identifier")
	if err != nil {
		return err
	}
	if !isLegalName(tok.Text) {
		return p.parseErrorf("Invalid type name.")
	}
	if tok.Text == "int" {
		p.warnf("int type should probably be int8_t, int16_t, int32_t, or int64_t")
	}
	typename := p.schema.ResolveTypeName(tok.Text)

	for {
		if err := p.consumeComments(false); err != nil {
			return err
		}
		tok, err := p.nextOrFail("name identifier")
		if err != nil {
			return err
		}
		name := tok.Text
		if !isLegalName(name) {
			return p.parseErrorf("Invalid member name. Name must start with [a-zA-Z_].")
		}
		if st.FindConstant(name) != nil || st.FindMember(name) != nil {
			return p.semanticErrorf("Duplicate member name '%s'.", name)
		}

		m := &Member{
			Type: typename,
			Name: name,
			Doc:  p.schema.takeDoc(),
		}
		st.Members = append(st.Members, m)

		for {
			open, err := p.tryConsume("[")
			if err != nil {
				return err
			}
			if !open {
				break
			}
			dim, err := p.parseDimension(st)
			if err != nil {
				return err
			}
			if err := p.require("]"); err != nil {
				return err
			}
			m.Dimensions = append(m.Dimensions, dim)
		}

		more, err := p.tryConsume(",")
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	return p.require(";")
}

// parseDimension parses and resolves one array-dimension token, with the
// opening bracket already consumed. A decimal literal is a const dimension;
// otherwise the token must name either a constant of an integer or float
// const type (const dimension, sized by the constant's literal) or a
// previously declared scalar member of a fixed integer type (var
// dimension). Forward references are unresolved and rejected.
func (p *Parser) parseDimension(st *Struct) (Dimension, error) {
	if err := p.consumeComments(false); err != nil {
		return Dimension{}, err
	}
	tok, err := p.nextOrFail("array size")
	if err != nil {
		return Dimension{}, err
	}
	if tok.Text == "]" {
		return Dimension{}, p.semanticErrorf("Array size must be provided.")
	}

	sizeArg := tok.Text
	if isAllDigits(sizeArg) {
		n, err := strconv.ParseInt(sizeArg, 10, 64)
		if err != nil || n <= 0 {
			return Dimension{}, p.semanticErrorf("Constant array size must be > 0")
		}
		return Dimension{Mode: ConstDim, Size: sizeArg}, nil
	}

	if !isLegalName(sizeArg) {
		return Dimension{}, p.semanticErrorf("Array size variable must have a valid name.")
	}

	if c := st.FindConstant(sizeArg); c != nil {
		if !IsConstType(c.Type) {
			return Dimension{}, p.semanticErrorf("Array dimension '%s' must be an integer type.", sizeArg)
		}
		return Dimension{Mode: ConstDim, Size: c.Value}, nil
	}

	v := st.FindMember(sizeArg)
	if v == nil {
		return Dimension{}, p.semanticErrorf(
			"Unknown array size argument '%s'.\nSize arguments must be declared before the array.", sizeArg)
	}
	if len(v.Dimensions) != 0 || !IsArrayDimensionType(v.Type) {
		return Dimension{}, p.semanticErrorf("Array dimension '%s' must be a scalar integer type.", sizeArg)
	}
	return Dimension{Mode: VarDim, Size: sizeArg}, nil
}

// parseConst parses a const declaration, with the "const" keyword already
// consumed: one type, then one or more comma-separated name = literal
// items.
func (p *Parser) parseConst(st *Struct) error {
	if err := p.consumeComments(false); err != nil {
		return err
	}
	tok, err := p.nextOrFail("type identifier")
	if err != nil {
		return err
	}
	if !IsConstType(tok.Text) {
		return p.parseErrorf("Invalid type for const")
	}
	typename := tok.Text

	item := func() error {
		if err := p.consumeComments(false); err != nil {
			return err
		}
		tok, err := p.nextOrFail("name identifier")
		if err != nil {
			return err
		}
		name := tok.Text
		if !isLegalName(name) {
			return p.parseErrorf("Invalid member name. Name must start with [a-zA-Z_].")
		}
		if st.FindConstant(name) != nil || st.FindMember(name) != nil {
			return p.semanticErrorf("Duplicate member name '%s'.", name)
		}

		if err := p.require("="); err != nil {
			return err
		}
		if err := p.consumeComments(false); err != nil {
			return err
		}
		tok, err = p.nextOrFail("constant value")
		if err != nil {
			return err
		}
		doc := p.schema.takeDoc()

		val := tok.Text
		if _, isInt := intBounds[typename]; isInt {
			n, perr := strconv.ParseInt(val, 0, 64)
			if perr != nil {
				if errors.Is(perr, strconv.ErrRange) {
					return p.semanticErrorf("Integer value out of bounds for %s.", typename)
				}
				return p.parseErrorf("Expected integer value")
			}
			if !intInBounds(n, typename) {
				return p.semanticErrorf("Integer value out of bounds for %s.", typename)
			}
		} else {
			// float and double literals must parse; range is not
			// strictly validated.
			if _, perr := strconv.ParseFloat(val, 64); perr != nil {
				return p.parseErrorf("Expected floating point value")
			}
		}

		st.Constants = append(st.Constants, &Constant{
			Type:  typename,
			Name:  name,
			Value: val,
			Doc:   doc,
		})
		return nil
	}

	if err := item(); err != nil {
		return err
	}
	for {
		more, err := p.tryConsume(",")
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := item(); err != nil {
			return err
		}
	}

	return p.require(";")
}

// consumeComments consumes any comment tokens at the current position.
// Comments are allowed almost everywhere in the grammar but significant in
// few places: with store set, consecutive comments are newline-joined into
// the pending doc comment (replacing any previous one); without it they are
// discarded.
func (p *Parser) consumeComments(store bool) error {
	if store {
		p.schema.doc = DocComment{}
	}
	for {
		tok, err := p.t.Peek()
		if err != nil {
			return err
		}
		if tok.Type != TokenComment {
			return nil
		}
		if _, err := p.t.Next(); err != nil {
			return err
		}
		if store {
			if p.schema.doc.Valid {
				p.schema.doc.Text += "\n" + tok.Text
			} else {
				p.schema.doc = DocComment{Text: tok.Text, Valid: true}
			}
		}
	}
}

// tryConsume consumes the next non-comment token if its text is want.
func (p *Parser) tryConsume(want string) (bool, error) {
	if err := p.consumeComments(false); err != nil {
		return false, err
	}
	tok, err := p.t.Peek()
	if err != nil {
		return false, err
	}
	if tok.Type == TokenEOF {
		return false, p.parseErrorf("End of file while looking for %s.", want)
	}
	if tok.Type != TokenComment && tok.Text == want {
		if _, err := p.t.Next(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// require consumes the next non-comment token and fails unless its text is
// want.
func (p *Parser) require(want string) error {
	if err := p.consumeComments(false); err != nil {
		return err
	}
	tok, err := p.t.Next()
	if err != nil {
		return err
	}
	for tok.Type == TokenComment {
		tok, err = p.t.Next()
		if err != nil {
			return err
		}
	}
	if tok.Type == TokenEOF || tok.Text != want {
		return p.parseErrorf("Expected token: %s", want)
	}
	return nil
}

// nextOrFail consumes the next token, failing at end of stream.
// description says what was expected, for the diagnostic.
func (p *Parser) nextOrFail(description string) (Token, error) {
	tok, err := p.t.Next()
	if err != nil {
		return tok, err
	}
	if tok.Type == TokenEOF {
		return tok, p.parseErrorf("End of file reached, expected: %s.", description)
	}
	return tok, nil
}

func (p *Parser) parseErrorf(format string, args ...any) error {
	line, col := p.t.TokenPos()
	return &ParseError{
		Path:    p.path,
		Line:    line,
		Column:  col,
		SrcLine: p.t.SourceLine(),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) semanticErrorf(format string, args ...any) error {
	line, _ := p.t.TokenPos()
	return &SemanticError{
		Path:    p.path,
		Line:    line,
		SrcLine: p.t.SourceLine(),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) warnf(format string, args ...any) {
	line, _ := p.t.TokenPos()
	p.warnings = append(p.warnings, Warning{
		Path:    p.path,
		Line:    line,
		SrcLine: p.t.SourceLine(),
		Message: fmt.Sprintf(format, args...),
	})
}

// isAllDigits reports whether s is a non-empty run of ASCII digits.
func isAllDigits(s string) bool {
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
