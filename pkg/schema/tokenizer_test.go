package schema

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := Tokenize("test.lingonberry", strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tokens
}

func tokenTexts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}

func TestTokenizeStructDeclaration(t *testing.T) {
	tokens := tokenize(t, "struct foo { int32_t x; }")

	expected := []string{"struct", "foo", "{", "int32_t", "x", ";", "}"}
	got := tokenTexts(tokens)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens %v, got %d: %v", len(expected), expected, len(got), got)
	}
	for i, exp := range expected {
		if got[i] != exp {
			t.Errorf("token %d: expected %q, got %q", i, exp, got[i])
		}
		if tokens[i].Type != TokenOther {
			t.Errorf("token %d: expected type Other, got %v", i, tokens[i].Type)
		}
	}
}

func TestTokenizeTerminators(t *testing.T) {
	// Single-character terminators end a blob after inclusion and stand
	// alone as their own tokens.
	tests := []struct {
		input    string
		expected []string
	}{
		{"arr[4];", []string{"arr", "[", "4", "]", ";"}},
		{"a,b,c;", []string{"a", ",", "b", ",", "c", ";"}},
		{"(x)", []string{"(", "x", ")"}},
		{"a:b", []string{"a", ":", "b"}},
		{";", []string{";"}},
		{"x.y.z", []string{"x.y.z"}}, // '.' is not a terminator: qualified names stay whole
	}

	for _, tt := range tests {
		got := tokenTexts(tokenize(t, tt.input))
		if len(got) != len(tt.expected) {
			t.Errorf("input %q: expected tokens %v, got %v", tt.input, tt.expected, got)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("input %q token %d: expected %q, got %q", tt.input, i, tt.expected[i], got[i])
			}
		}
	}
}

func TestTokenizeOperatorRuns(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a>=b", []string{"a", ">=", "b"}},
		{"a = b", []string{"a", "=", "b"}},
		{"!=~", []string{"!=~"}},
		{"x<<=2", []string{"x", "<<=", "2"}},
		{"/ x", []string{"/", "x"}}, // a bare '/' is a one-character operator
		{"a/b", []string{"a/b"}},    // but '/' does not end a blob
	}

	for _, tt := range tests {
		got := tokenTexts(tokenize(t, tt.input))
		if len(got) != len(tt.expected) {
			t.Errorf("input %q: expected tokens %v, got %v", tt.input, tt.expected, got)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("input %q token %d: expected %q, got %q", tt.input, i, tt.expected[i], got[i])
			}
		}
	}
}

func TestTokenizeCharLiterals(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"'a'", "'a'"},
		{`'\n'`, "'\n'"},
		{`'\t'`, "'\t'"},
		{`'\r'`, "'\r'"},
		{`'\q'`, "'q'"}, // unknown escapes map to themselves
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.input)
		if len(tokens) != 1 {
			t.Errorf("input %q: expected 1 token, got %v", tt.input, tokenTexts(tokens))
			continue
		}
		if tokens[0].Text != tt.text {
			t.Errorf("input %q: expected text %q, got %q", tt.input, tt.text, tokens[0].Text)
		}
		if tokens[0].Type != TokenOther {
			t.Errorf("input %q: expected type Other, got %v", tt.input, tokens[0].Type)
		}
	}
}

func TestTokenizeStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{`"hello"`, `"hello"`},
		{`""`, `""`},
		// A backslash escape consumes the escaped character without
		// appending it, so the captured text shrinks relative to the
		// source. Deliberate reproduction of longstanding scanner
		// behavior; see the tokenizer.
		{`"a\nb"`, `"ab"`},
		{`"a\\b"`, `"ab"`},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.input)
		if len(tokens) != 1 {
			t.Errorf("input %q: expected 1 token, got %v", tt.input, tokenTexts(tokens))
			continue
		}
		if tokens[0].Text != tt.text {
			t.Errorf("input %q: expected text %q, got %q", tt.input, tt.text, tokens[0].Text)
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	// An unterminated string is cut short and surfaces as end of stream.
	tokens := tokenize(t, `"never closed`)
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokenTexts(tokens))
	}
}

func TestTokenizeLineComments(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"// hello", "hello"},
		{"//hello", "hello"},
		{"/// doc text", "doc text"},
		{"////// deep", "deep"},
		{"//   spaced out", "spaced out"},
		{"//", ""},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.input)
		if len(tokens) != 1 {
			t.Errorf("input %q: expected 1 token, got %v", tt.input, tokenTexts(tokens))
			continue
		}
		if tokens[0].Type != TokenComment {
			t.Errorf("input %q: expected type Comment, got %v", tt.input, tokens[0].Type)
		}
		if tokens[0].Text != tt.text {
			t.Errorf("input %q: expected text %q, got %q", tt.input, tt.text, tokens[0].Text)
		}
	}
}

func TestTokenizeBlockComments(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"/** header\n * body\n */", "header\nbody"},
		{"/* one line */", " one line "},
		{"/*x*/", "x"},
		{"/**\n * a\n * b\n */", "a\nb"},
		// Without an asterisk run the line prefix is kept, and blank
		// comment lines contribute no newline of their own.
		{"/* a\n\nb */", " a\nb "},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.input)
		if len(tokens) != 1 {
			t.Errorf("input %q: expected 1 token, got %v", tt.input, tokenTexts(tokens))
			continue
		}
		if tokens[0].Type != TokenComment {
			t.Errorf("input %q: expected type Comment, got %v", tt.input, tokens[0].Type)
		}
		if tokens[0].Text != tt.text {
			t.Errorf("input %q: expected text %q, got %q", tt.input, tt.text, tokens[0].Text)
		}
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("test.lingonberry", strings.NewReader("/* never closed\n"))
	if err == nil {
		t.Fatal("expected error for unterminated block comment")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestTokenizePositions(t *testing.T) {
	input := "struct foo\n    int32_t x;\n"
	tokens := tokenize(t, input)

	expected := []struct {
		text   string
		line   int
		column int
	}{
		{"struct", 1, 0},
		{"foo", 1, 7},
		{"int32_t", 2, 4},
		{"x", 2, 12},
		{";", 2, 13},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %v", len(expected), tokenTexts(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Text != exp.text {
			t.Errorf("token %d: expected text %q, got %q", i, exp.text, tokens[i].Text)
		}
		if tokens[i].Line != exp.line {
			t.Errorf("token %q: expected line %d, got %d", exp.text, exp.line, tokens[i].Line)
		}
		if tokens[i].Column != exp.column {
			t.Errorf("token %q: expected column %d, got %d", exp.text, exp.column, tokens[i].Column)
		}
	}
}

func TestTokenizerPeek(t *testing.T) {
	tok := NewTokenizer("test.lingonberry", strings.NewReader("alpha beta"))

	peeked, err := tok.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked.Text != "alpha" {
		t.Fatalf("expected peek %q, got %q", "alpha", peeked.Text)
	}

	// A second peek returns the same token without re-scanning.
	again, err := tok.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != peeked {
		t.Errorf("expected repeated peek to return %v, got %v", peeked, again)
	}

	next, err := tok.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != peeked {
		t.Errorf("expected next to consume peeked token %v, got %v", peeked, next)
	}

	next, err = tok.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Text != "beta" {
		t.Errorf("expected %q, got %q", "beta", next.Text)
	}

	eof, err := tok.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eof.Type != TokenEOF {
		t.Errorf("expected EOF, got %v", eof)
	}
}

func TestTokenizeCommentsBetweenTokens(t *testing.T) {
	input := "struct // trailing\nfoo /* inline */ bar"
	tokens := tokenize(t, input)

	expected := []struct {
		typ  TokenType
		text string
	}{
		{TokenOther, "struct"},
		{TokenComment, "trailing"},
		{TokenOther, "foo"},
		{TokenComment, " inline "},
		{TokenOther, "bar"},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %v", len(expected), tokenTexts(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ || tokens[i].Text != exp.text {
			t.Errorf("token %d: expected %v %q, got %v %q",
				i, exp.typ, exp.text, tokens[i].Type, tokens[i].Text)
		}
	}
}
