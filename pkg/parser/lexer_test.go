package parser

import (
	"testing"

	"github.com/leapstack-labs/labelsugar/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []token.Token) []token.TokenType {
	types := make([]token.TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.TokenType
	}{
		{
			name:     "labeled state",
			input:    "ref: count = 1",
			expected: []token.TokenType{token.IDENT, token.COLON, token.IDENT, token.ASSIGN, token.NUMBER, token.EOF},
		},
		{
			name:     "arrow",
			input:    "(a) => a ?? b",
			expected: []token.TokenType{token.LPAREN, token.IDENT, token.RPAREN, token.ARROW, token.IDENT, token.NULLISH, token.IDENT, token.EOF},
		},
		{
			name:     "longest punctuator",
			input:    "a >>>= b **= c ??= d",
			expected: []token.TokenType{token.IDENT, token.USHR_ASSIGN, token.IDENT, token.POW_ASSIGN, token.IDENT, token.NULLISH_ASSIGN, token.IDENT, token.EOF},
		},
		{
			name:     "optional chain",
			input:    "a?.b",
			expected: []token.TokenType{token.IDENT, token.OPTCHAIN, token.IDENT, token.EOF},
		},
		{
			name:     "conditional with decimal",
			input:    "a?.5:1",
			expected: []token.TokenType{token.IDENT, token.QUESTION, token.NUMBER, token.COLON, token.NUMBER, token.EOF},
		},
		{
			name:     "spread",
			input:    "[...xs]",
			expected: []token.TokenType{token.LBRACKET, token.ELLIPSIS, token.IDENT, token.RBRACKET, token.EOF},
		},
		{
			name:     "keywords",
			input:    "const let var function return",
			expected: []token.TokenType{token.CONST, token.LET, token.VAR, token.FUNCTION, token.RETURN, token.EOF},
		},
		{
			name:     "contextual words are identifiers",
			input:    "of as from async get set",
			expected: []token.TokenType{token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.EOF},
		},
		{
			name:     "dollar and underscore identifiers",
			input:    "$ _setCount $store",
			expected: []token.TokenType{token.IDENT, token.IDENT, token.IDENT, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTypes(Tokenize(tt.input)))
		})
	}
}

func TestLexer_Literals(t *testing.T) {
	tests := []struct {
		input   string
		typ     token.TokenType
		literal string
	}{
		{"123", token.NUMBER, "123"},
		{"4.5", token.NUMBER, "4.5"},
		{".5", token.NUMBER, ".5"},
		{"1e-10", token.NUMBER, "1e-10"},
		{"0xff", token.NUMBER, "0xff"},
		{"0b1010", token.NUMBER, "0b1010"},
		{"1_000_000", token.NUMBER, "1_000_000"},
		{"10n", token.NUMBER, "10n"},
		{`'it\'s'`, token.STRING, `'it\'s'`},
		{`"a \"b\""`, token.STRING, `"a \"b\""`},
		{"`a ${b} c`", token.TEMPLATE, "`a ${b} c`"},
		{"`nested ${`inner ${x}`}`", token.TEMPLATE, "`nested ${`inner ${x}`}`"},
		{"`obj ${{ a: '}' }.a}`", token.TEMPLATE, "`obj ${{ a: '}' }.a}`"},
		{"/ab+c/gi", token.REGEXP, "/ab+c/gi"},
		{"/[/]/", token.REGEXP, "/[/]/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.literal, toks[0].Literal)
		})
	}
}

func TestLexer_RegexpOrDivision(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.TokenType
	}{
		{"division after identifier", "a / b / c", []token.TokenType{token.IDENT, token.SLASH, token.IDENT, token.SLASH, token.IDENT, token.EOF}},
		{"division after paren", "(a) / 2", []token.TokenType{token.LPAREN, token.IDENT, token.RPAREN, token.SLASH, token.NUMBER, token.EOF}},
		{"regexp after assign", "x = /a/", []token.TokenType{token.IDENT, token.ASSIGN, token.REGEXP, token.EOF}},
		{"regexp after return", "return /a/.test(s)", []token.TokenType{token.RETURN, token.REGEXP, token.DOT, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.EOF}},
		{"regexp argument", "f(/x/)", []token.TokenType{token.IDENT, token.LPAREN, token.REGEXP, token.RPAREN, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTypes(Tokenize(tt.input)))
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	toks := Tokenize("ref: a = 1\nwatch: b")
	require.Len(t, toks, 9)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 4, Offset: 3}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 11}, toks[5].Pos)

	assert.False(t, toks[4].NewlineBefore)
	assert.True(t, toks[5].NewlineBefore, "watch follows a line break")
}

func TestLexer_Comments(t *testing.T) {
	l := NewLexer("// line\na /* block\nspans */ b")
	var types []token.TokenType
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		types = append(types, tok.Type)
		if tok.Literal == "b" {
			assert.True(t, tok.NewlineBefore, "a multi-line block comment counts as a line break")
		}
	}

	assert.Equal(t, []token.TokenType{token.IDENT, token.IDENT}, types)
	require.Len(t, l.Comments, 2)
	assert.True(t, l.Comments[0].IsLineComment())
	assert.Equal(t, "// line", l.Comments[0].Text)
	assert.True(t, l.Comments[1].IsBlockComment())
	assert.Equal(t, "/* block\nspans */", l.Comments[1].Text)
}

func TestLexer_Hashbang(t *testing.T) {
	toks := Tokenize("#!/usr/bin/env node\nrun()")
	assert.Equal(t, []token.TokenType{token.IDENT, token.LPAREN, token.RPAREN, token.EOF}, tokenTypes(toks))
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"'abc", ErrUnterminatedString},
		{"`abc", ErrUnterminatedTemplate},
		{"x = /abc", ErrUnterminatedRegexp},
		{"/* abc", ErrUnterminatedComment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
			}
			require.NotEmpty(t, l.Errors)
			var lexErr *LexError
			require.ErrorAs(t, l.Errors[0], &lexErr)
			assert.Equal(t, tt.message, lexErr.Message)
		})
	}
}
