package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Lexer tokenizes JavaScript input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
	base    int  // offset of input within the enclosing source

	prev    token.TokenType // last significant token, decides regexp vs division
	newline bool            // line terminator seen since the previous token

	// Comments collected during lexing
	Comments []*token.Comment

	// Errors collected during lexing
	Errors []error
}

// punctuators maps operator and delimiter text to token types.
var punctuators = map[string]token.TokenType{}

func init() {
	for t := token.LPAREN; t <= token.NULLISH_ASSIGN; t++ {
		punctuators[t.String()] = t
	}
}

// maxPunctuatorLen is the length of the longest punctuator (>>>=).
const maxPunctuatorLen = 4

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
		prev:  token.EOF,
	}
	l.readChar()
	return l
}

// newLexerAt creates a Lexer for a fragment of a larger source that starts
// at pos, so reported positions refer to the enclosing source.
func newLexerAt(input string, pos token.Position) *Lexer {
	l := &Lexer{
		input: input,
		line:  pos.Line,
		col:   pos.Column - 1,
		base:  pos.Offset,
		prev:  token.EOF,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// atEOF returns true once every byte of the input was consumed.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.base + l.pos,
	}
}

func (l *Lexer) addError(pos token.Position, msg string) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: msg})
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.newline = false
	l.skipWhitespaceAndComments()

	tok := l.scan()
	tok.NewlineBefore = l.newline
	if tok.Type != token.EOF {
		l.prev = tok.Type
	}
	return tok
}

func (l *Lexer) scan() token.Token {
	pos := l.currentPos()

	switch {
	case l.atEOF():
		return token.Token{Type: token.EOF, Pos: pos}
	case isIdentStart(l.ch):
		lit := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	case l.ch == '\'' || l.ch == '"':
		start := l.pos
		if !l.skipQuoted(l.ch) {
			l.addError(pos, ErrUnterminatedString)
		}
		return token.Token{Type: token.STRING, Literal: l.input[start:l.pos], Pos: pos}
	case l.ch == '`':
		start := l.pos
		if !l.skipTemplate() {
			l.addError(pos, ErrUnterminatedTemplate)
		}
		return token.Token{Type: token.TEMPLATE, Literal: l.input[start:l.pos], Pos: pos}
	case l.ch == '/' && l.regexAllowed():
		return l.readRegexp(pos)
	default:
		return l.readPunctuator(pos)
	}
}

// readPunctuator returns the longest operator or delimiter at the current
// position (e.g., ">>>=" before ">>").
func (l *Lexer) readPunctuator(pos token.Position) token.Token {
	for n := maxPunctuatorLen; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		lit := l.input[l.pos : l.pos+n]
		t, ok := punctuators[lit]
		if !ok {
			continue
		}
		// a?.5:1 is a conditional, not optional chaining
		if t == token.OPTCHAIN && l.pos+2 < len(l.input) && isDigit(l.input[l.pos+2]) {
			continue
		}
		for range n {
			l.readChar()
		}
		return token.Token{Type: t, Literal: lit, Pos: pos}
	}

	ch := l.ch
	l.readChar()
	l.addError(pos, fmt.Sprintf("unexpected character %q", ch))
	return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: pos}
}

// regexAllowed reports whether a slash at this point starts a regular
// expression rather than a division, judged by the previous token.
func (l *Lexer) regexAllowed() bool {
	switch l.prev {
	case token.IDENT, token.NUMBER, token.STRING, token.TEMPLATE, token.REGEXP,
		token.RPAREN, token.RBRACKET, token.RBRACE,
		token.THIS, token.SUPER, token.NULL, token.TRUE, token.FALSE,
		token.INC, token.DEC:
		return false
	}
	return true
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			l.newline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.pos == 0 && l.ch == 0xEF && l.peekChar() == 0xBB:
			// UTF-8 byte order mark
			l.readChar()
			l.readChar()
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.collectLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			l.collectBlockComment()
		case l.pos == 0 && l.ch == '#' && l.peekChar() == '!':
			l.collectLineComment()
		default:
			return
		}
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	// Consume until end of line
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			closed = true
			break
		}
		if l.ch == '\n' {
			l.newline = true
		}
		l.readChar()
	}
	if !closed {
		l.addError(startPos, ErrUnterminatedComment)
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// skipQuoted consumes a quoted string including both quotes.
// Returns false if the string is not terminated on its line.
func (l *Lexer) skipQuoted(quote byte) bool {
	l.readChar() // skip opening quote
	for !l.atEOF() {
		switch l.ch {
		case '\\':
			l.readChar()
			if l.ch == '\r' && l.peekChar() == '\n' {
				l.readChar()
			}
			l.readChar()
		case quote:
			l.readChar() // skip closing quote
			return true
		case '\n':
			return false
		default:
			l.readChar()
		}
	}
	return false
}

// skipTemplate consumes a template literal starting at its opening backtick.
func (l *Lexer) skipTemplate() bool {
	l.readChar() // skip `
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.readChar()
			l.readChar()
		case l.ch == '`':
			l.readChar()
			return true
		case l.ch == '$' && l.peekChar() == '{':
			l.readChar()
			l.readChar()
			if !l.skipSubstitution() {
				return false
			}
		default:
			l.readChar()
		}
	}
	return false
}

// skipSubstitution consumes the body of a ${ ... } substitution including
// its closing brace. Handles nested braces and skips over strings and nested
// templates to avoid miscounting braces inside them.
func (l *Lexer) skipSubstitution() bool {
	depth := 1
	for !l.atEOF() {
		switch l.ch {
		case '\'', '"':
			if !l.skipQuoted(l.ch) {
				return false
			}
		case '`':
			if !l.skipTemplate() {
				return false
			}
		case '{':
			depth++
			l.readChar()
		case '}':
			depth--
			l.readChar()
			if depth == 0 {
				return true
			}
		default:
			l.readChar()
		}
	}
	return false
}

// templateSub is the source of one ${ } substitution and where it starts.
type templateSub struct {
	src string
	pos token.Position
}

// templateParts splits raw template text (backticks included) into its raw
// quasis and the source of each substitution.
func templateParts(raw string, pos token.Position) (quasis []string, subs []templateSub) {
	l := newLexerAt(raw, pos)
	l.readChar() // skip `
	start := l.pos
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.readChar()
			l.readChar()
		case l.ch == '`':
			return append(quasis, raw[start:l.pos]), subs
		case l.ch == '$' && l.peekChar() == '{':
			quasis = append(quasis, raw[start:l.pos])
			l.readChar()
			l.readChar()
			subStart, subPos := l.pos, l.currentPos()
			l.skipSubstitution()
			end := max(l.pos-1, subStart)
			subs = append(subs, templateSub{src: raw[subStart:end], pos: subPos})
			start = l.pos
		default:
			l.readChar()
		}
	}
	return append(quasis, raw[start:]), subs
}

// readRegexp reads a regular expression literal with its flags.
func (l *Lexer) readRegexp(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // skip opening /

	inClass := false
	for {
		if l.atEOF() || l.ch == '\n' {
			l.addError(pos, ErrUnterminatedRegexp)
			break
		}
		if l.ch == '\\' {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '/' && !inClass {
			l.readChar()
			break
		}
		switch l.ch {
		case '[':
			inClass = true
		case ']':
			inClass = false
		}
		l.readChar()
	}

	// flags
	for isIdentPart(l.ch) && !l.atEOF() {
		l.readChar()
	}
	return token.Token{Type: token.REGEXP, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an identifier or reserved word.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) && !l.atEOF() {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal: decimal, hex, octal, binary, with
// numeric separators and an optional BigInt suffix.
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.readChar()
			l.readChar()
			for isHexDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
			if l.ch == 'n' {
				l.readChar()
			}
			return l.input[start:l.pos]
		}
	}

	// Read integer part
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && (isDigit(l.peekChar()) || start == l.pos) {
		l.readChar() // skip '.'
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'n' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isIdentStart returns true if ch can start an identifier. Bytes of
// multi-byte UTF-8 sequences are accepted as identifier characters.
func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '$' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
