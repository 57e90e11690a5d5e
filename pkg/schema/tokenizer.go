package schema

import (
	"bufio"
	"io"
	"unicode"
)

// TokenType classifies a token. The tokenizer only distinguishes comments
// from everything else; the parser re-interprets token text contextually
// (keyword vs. identifier vs. literal) by string comparison.
type TokenType int

const (
	TokenInvalid TokenType = iota
	TokenEOF
	TokenComment
	TokenOther
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenInvalid:
		return "Invalid"
	case TokenEOF:
		return "EOF"
	case TokenComment:
		return "Comment"
	case TokenOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Token is one lexical token. Line is 1-based; Column is the 0-based
// position of the token's first character within its source line.
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
}

// operatorChars end an identifier blob before inclusion and lex as maximal
// runs.
const operatorChars = "!~<>=&|^%*+"

// singleCharTokens end an identifier blob after inclusion and lex as
// one-character tokens. '.' is deliberately absent so qualified names stay
// one token.
const singleCharTokens = "();\",:'[]"

func isOperatorChar(r rune) bool {
	for _, c := range operatorChars {
		if r == c {
			return true
		}
	}
	return false
}

func isSingleCharToken(r rune) bool {
	for _, c := range singleCharTokens {
		if r == c {
			return true
		}
	}
	return false
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

// unescape maps an escape payload character to its value: n, r, and t map
// to their control characters, everything else to itself.
func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return r
	}
}

// Tokenizer reads tokens from a single input source. It keeps exactly one
// character of pushback and one token of lookahead, and buffers the input
// line by line so diagnostics can quote the offending source line.
type Tokenizer struct {
	filename string
	r        *bufio.Reader

	token       []rune
	tokenType   TokenType
	tokenLine   int
	tokenColumn int

	currentChar   rune
	currentLine   int
	currentColumn int

	ungetValid  bool
	ungetChar   rune
	ungetLine   int
	ungetColumn int

	buffer       []rune
	bufferRaw    string
	bufferLine   int
	bufferColumn int

	hasNext bool
	readErr error
}

// NewTokenizer creates a tokenizer reading from r. filename is used only
// for diagnostics.
func NewTokenizer(filename string, r io.Reader) *Tokenizer {
	return &Tokenizer{
		filename:    filename,
		r:           bufio.NewReader(r),
		tokenLine:   -1,
		tokenColumn: -1,
	}
}

// Filename returns the name the tokenizer was created with.
func (t *Tokenizer) Filename() string {
	return t.filename
}

// SourceLine returns the raw text of the line most recently read from the
// input, for use in diagnostics.
func (t *Tokenizer) SourceLine() string {
	return t.bufferRaw
}

// TokenPos returns the line and column at which the most recently scanned
// token started.
func (t *Tokenizer) TokenPos() (line, column int) {
	return t.tokenLine, t.tokenColumn
}

// nextChar returns the next character of the input, consuming a pending
// pushback first if one is set. It refills the internal buffer one line at
// a time. ok is false at end of stream.
func (t *Tokenizer) nextChar() (c rune, ok bool) {
	if t.ungetValid {
		t.currentChar = t.ungetChar
		t.currentLine = t.ungetLine
		t.currentColumn = t.ungetColumn
		t.ungetValid = false
		return t.currentChar, true
	}

	if t.bufferColumn == len(t.buffer) {
		line, err := t.r.ReadString('\n')
		if line == "" {
			if err != nil && err != io.EOF {
				t.readErr = err
			}
			return 0, false
		}
		t.bufferRaw = line
		t.buffer = []rune(line)
		t.bufferLine++
		t.bufferColumn = 0
	}

	t.currentChar = t.buffer[t.bufferColumn]
	t.currentLine = t.bufferLine
	t.currentColumn = t.bufferColumn
	t.bufferColumn++

	return t.currentChar, true
}

// unget pushes back the most recently returned character. Only one level
// of pushback exists; callers never unget twice without an intervening
// nextChar.
func (t *Tokenizer) unget() {
	t.ungetChar = t.currentChar
	t.ungetLine = t.currentLine
	t.ungetColumn = t.currentColumn
	t.ungetValid = true
}

func (t *Tokenizer) append(c rune) {
	t.token = append(t.token, c)
}

// tok builds a Token from the most recently scanned state.
func (t *Tokenizer) tok() Token {
	return Token{
		Type:   t.tokenType,
		Text:   string(t.token),
		Line:   t.tokenLine,
		Column: t.tokenColumn,
	}
}

func (t *Tokenizer) eofToken() Token {
	return Token{Type: TokenEOF, Line: t.tokenLine, Column: t.tokenColumn}
}

// Next returns the next token. A pending lookahead token from Peek is
// consumed instead of re-scanning. At end of stream it returns a TokenEOF
// token and no error; a malformed character or string literal is cut short
// and likewise surfaces as end of stream, which the parser reports at the
// position it was expecting a token.
func (t *Tokenizer) Next() (Token, error) {
	if t.hasNext {
		t.hasNext = false
		return t.tok(), nil
	}
	return t.scan()
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() (Token, error) {
	if t.hasNext {
		return t.tok(), nil
	}
	tok, err := t.scan()
	if err != nil {
		return tok, err
	}
	if tok.Type != TokenEOF {
		t.hasNext = true
	}
	return tok, nil
}

// scan advances past whitespace and scans one token.
func (t *Tokenizer) scan() (Token, error) {
	t.tokenType = TokenInvalid
	t.token = t.token[:0]

	c, ok := t.nextChar()
	for ok && unicode.IsSpace(c) {
		c, ok = t.nextChar()
	}
	if !ok {
		if t.readErr != nil {
			return t.eofToken(), t.readErr
		}
		return t.eofToken(), nil
	}

	// A token is starting; mark its position.
	t.tokenLine = t.currentLine
	t.tokenColumn = t.currentColumn

	// Character literal: 'c' or '\c'.
	if c == '\'' {
		t.append(c)
		c, ok = t.nextChar()
		if ok && c == '\\' {
			c, ok = t.nextChar()
			c = unescape(c)
		}
		if !ok {
			return t.eofToken(), nil
		}
		t.append(c)
		c, ok = t.nextChar()
		if !ok || c != '\'' {
			return t.eofToken(), nil
		}
		t.append(c)
		t.tokenType = TokenOther
		return t.tok(), nil
	}

	// String literal. A backslash escape consumes the following character
	// without appending it: the captured text shrinks relative to the
	// source. Longstanding behavior, preserved for compatibility.
	if c == '"' {
		t.append(c)
		escapeNext := false
		for {
			c, ok = t.nextChar()
			if !ok {
				return t.eofToken(), nil
			}
			if escapeNext {
				escapeNext = false
				continue
			}
			if c == '"' {
				t.append(c)
				t.tokenType = TokenOther
				return t.tok(), nil
			}
			if c == '\\' {
				escapeNext = true
				continue
			}
			t.append(c)
		}
	}

	// Operator run: a maximal run of operator characters is one token.
	if isOperatorChar(c) {
		t.tokenType = TokenOther
		for ok && isOperatorChar(c) {
			t.append(c)
			c, ok = t.nextChar()
		}
		if ok {
			t.unget()
		}
		return t.tok(), nil
	}

	// Comment, or a lone '/' operator.
	if c == '/' {
		t.append(c)
		c, ok = t.nextChar()
		if !ok {
			t.tokenType = TokenOther
			return t.tok(), nil
		}
		if c == '*' {
			return t.scanBlockComment()
		}
		if c == '/' {
			return t.scanLineComment()
		}
		t.tokenType = TokenOther
		t.unget()
		return t.tok(), nil
	}

	// Everything else is an identifier/number/keyword blob: consume until
	// whitespace, a single-character terminator (included, then the blob
	// ends), or an operator character (pushed back).
	t.tokenType = TokenOther
	for ok && !unicode.IsSpace(c) {
		t.append(c)
		if isSingleCharToken(c) {
			return t.tok(), nil
		}
		c, ok = t.nextChar()
		if ok && (isSingleCharToken(c) || isOperatorChar(c)) {
			t.unget()
			return t.tok(), nil
		}
	}
	return t.tok(), nil
}

// scanLineComment scans the remainder of a "//" comment. Any further
// leading '/' characters and leading spaces are stripped; the newline is
// pushed back.
func (t *Tokenizer) scanLineComment() (Token, error) {
	t.tokenType = TokenComment

	c, ok := t.nextChar()
	for ok && c == '/' {
		c, ok = t.nextChar()
	}
	for ok && c == ' ' {
		c, ok = t.nextChar()
	}

	t.token = t.token[:0]
	for ok && c != '\n' {
		t.append(c)
		c, ok = t.nextChar()
	}
	if ok {
		t.unget()
	}
	return t.tok(), nil
}

// scanBlockComment scans a "/* ... */" comment, with the opening "/*"
// already consumed. Per physical line, leading horizontal whitespace
// followed by a run of '*' characters is stripped; a '/' right after the
// run ends the comment, and a single space after the run is also stripped.
// An embedded "*/" mid-line ends the comment too.
func (t *Tokenizer) scanBlockComment() (Token, error) {
	pos := 0
	t.token = t.token[:0]

	finished := false
	for !finished {
		posLineStart := pos

		// Leading horizontal whitespace. It is kept unless a run of
		// asterisks follows, in which case the whole line prefix is
		// discarded retroactively.
		var c rune
		var ok bool
		for {
			c, ok = t.nextChar()
			if ok && (c == ' ' || c == '\t') {
				t.append(c)
				pos++
			} else {
				break
			}
		}

		gotAsterisk := false
		for ok && c == '*' {
			t.append(c)
			pos++
			gotAsterisk = true
			c, ok = t.nextChar()
		}

		if gotAsterisk {
			pos = posLineStart
			t.token = t.token[:posLineStart]
			if ok && c == '/' {
				break
			}
			if ok && c == ' ' {
				c, ok = t.nextChar()
			}
		}

		// The rest of the line is comment content.
		for !finished && ok && c != '\n' {
			lastC := c
			t.append(c)
			pos++
			c, ok = t.nextChar()
			if lastC == '*' && ok && c == '/' {
				finished = true
				pos--
			}
		}

		if !finished {
			if !ok {
				line, col := t.currentLine, t.currentColumn
				return t.eofToken(), &ParseError{
					Path:    t.filename,
					Line:    line,
					Column:  col,
					SrcLine: t.bufferRaw,
					Message: "EOF reached while parsing comment",
				}
			}
			if posLineStart != pos {
				t.append(c)
				pos++
			}
		}
	}

	// Drop a trailing newline left when the comment closed at the start
	// of a line.
	if pos > 0 && t.token[pos-1] == '\n' {
		pos--
	}
	t.token = t.token[:pos]
	t.tokenType = TokenComment
	return t.tok(), nil
}

// Tokenize reads every token from r, in order. This is the raw
// tokenization view used for debugging the scanner.
func Tokenize(filename string, r io.Reader) ([]Token, error) {
	t := NewTokenizer(filename, r)
	var tokens []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return tokens, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
