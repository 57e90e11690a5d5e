package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError is malformed syntax: an unexpected token, an unterminated
// literal or comment, or a premature end of stream. It renders the file
// path, line number, the offending source line, and a caret aligned to the
// failing column.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	SrcLine string
	Message string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s : %d\n%s\n", e.Message, e.Path, e.Line,
		strings.TrimRight(e.SrcLine, "\n"))
	b.WriteString(caretMargin(e.SrcLine, e.Column))
	b.WriteString("^")
	return b.String()
}

// caretMargin builds the padding that places a caret under column col of
// line. Whitespace in the original line is preserved so tabs keep the caret
// visually aligned; every other character becomes a space.
func caretMargin(line string, col int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// SemanticError is input that parsed fine but is illegal: a duplicate name,
// an out-of-range constant, a bad array-dimension reference. It renders the
// file path, line number, and the offending source line, with no caret; the
// offending token is not singled out.
type SemanticError struct {
	Path    string
	Line    int
	SrcLine string
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s\n%s : %d\n%s", e.Message, e.Path, e.Line,
		strings.TrimRight(e.SrcLine, "\n"))
}

// DuplicateStructError reports a struct whose qualified name collides with
// one already recorded. It fails the file, naming both source locations,
// but is a return-value failure rather than an abort: the caller decides
// whether to continue with other independent inputs.
type DuplicateStructError struct {
	Name     string
	File     string
	PrevFile string
}

func (e *DuplicateStructError) Error() string {
	return fmt.Sprintf("duplicate type '%s' declared in %s.\nIt was previously declared in %s.",
		e.Name, e.File, e.PrevFile)
}

// Warning is a non-fatal diagnostic; parsing continues after one is
// emitted.
type Warning struct {
	Path    string
	Line    int
	SrcLine string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s\n%s : %d\n%s", w.Message, w.Path, w.Line,
		strings.TrimRight(w.SrcLine, "\n"))
}
