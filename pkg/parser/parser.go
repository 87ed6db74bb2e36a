// Package parser provides a recursive descent parser for the JavaScript
// subset that the label desugaring pipeline works on.
//
// # Usage
//
//	prog, err := parser.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser covers ES2020 modules without classes and JSX:
//
//	program    → statement*
//	statement  → block | var_decl | function_decl | if | for | while | do
//	           | return | break | continue | throw | try | switch
//	           | import | export | label ':' statement | expression ';'
//	expression → assignment (',' assignment)*
//	assignment → arrow | conditional [assign_op assignment]
//
// Semicolons are inserted automatically before a line break, a closing brace
// or the end of input. Arrow function parameters are parsed as a
// parenthesized expression first and converted once '=>' is seen.
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Parser parses JavaScript into an AST.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	prevEnd token.Position
	errors  []error

	noIn       bool           // `in` is not a binary operator (for-statement head)
	bareArrow  *ast.ArrowFunc // last arrow parsed without enclosing parentheses
	commentIdx int            // next lexer comment not yet attached to a statement
}

// NewParser creates a new parser for the given JavaScript input.
func NewParser(src string) *Parser {
	return newParser(NewLexer(src))
}

func newParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole source file and returns the program.
func Parse(src string) (*ast.Program, error) {
	p := NewParser(src)
	prog := p.parseProgram()
	if err := p.firstError(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	p := NewParser(src)
	expr := p.parseExpression()
	if !p.check(token.EOF) && !p.failed() {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.EOF))
	}
	if err := p.firstError(); err != nil {
		return nil, err
	}
	return expr, nil
}

// Comments returns every comment seen by the lexer.
func (p *Parser) Comments() []*token.Comment {
	return p.lexer.Comments
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	start := p.token.Pos
	prog.Body = p.parseStatementList(token.EOF)
	prog.Span = token.Span{Start: start, End: p.prevEnd}
	prog.Comments = p.lexer.Comments
	return prog
}

// firstError returns the earliest lexer or parser error by source offset.
func (p *Parser) firstError() error {
	var first error
	firstOffset := -1
	consider := func(err error, pos token.Position) {
		if first == nil || pos.Offset < firstOffset {
			first, firstOffset = err, pos.Offset
		}
	}
	for _, err := range p.lexer.Errors {
		if le, ok := err.(*LexError); ok {
			consider(err, le.Pos)
		}
	}
	for _, err := range p.errors {
		switch e := err.(type) {
		case *ParseError:
			consider(err, e.Pos)
		case *LexError:
			consider(err, e.Pos)
		}
	}
	return first
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.token.Type != token.EOF || p.token.Literal != "" {
		p.prevEnd = tokenEnd(p.token)
	}
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// tokenEnd returns the position just past tok, assuming it sits on one line.
func tokenEnd(tok token.Token) token.Position {
	return token.Position{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column + len(tok.Literal),
		Offset: tok.Pos.Offset + len(tok.Literal),
	}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkContextual returns true if the current token is the identifier word.
// Used for contextual keywords such as of, as, from, async, get and set.
func (p *Parser) checkContextual(word string) bool {
	return p.token.Type == token.IDENT && p.token.Literal == word
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), t))
	return false
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed returns true once any error was recorded; loops use it to stop.
func (p *Parser) failed() bool {
	return len(p.errors) > 0 || len(p.lexer.Errors) > 0
}

// describe renders a token for error messages.
func (p *Parser) describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "EOF"
	case token.IDENT, token.NUMBER, token.STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// info returns a NodeInfo spanning from start to the last consumed token.
func (p *Parser) info(start token.Position) ast.NodeInfo {
	return ast.NodeInfo{Span: p.spanFrom(start)}
}

// consumeSemicolon implements automatic semicolon insertion: an explicit
// semicolon is consumed; otherwise a line break, a closing brace or the end
// of input terminates the statement.
func (p *Parser) consumeSemicolon() {
	if p.match(token.SEMICOLON) {
		return
	}
	if p.check(token.RBRACE) || p.check(token.EOF) || p.token.NewlineBefore {
		return
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.SEMICOLON))
}

// isIdentName returns true for tokens usable as property names:
// identifiers and every reserved word.
func isIdentName(tok token.Token) bool {
	return tok.Type == token.IDENT || token.IsKeyword(tok.Type)
}

// parseIdent parses an identifier reference or binding name.
func (p *Parser) parseIdent() *ast.Ident {
	tok := p.token
	if !p.expect(token.IDENT) {
		return &ast.Ident{NodeInfo: ast.NodeInfo{Span: token.Span{Start: tok.Pos, End: tok.Pos}}}
	}
	return &ast.Ident{NodeInfo: p.info(tok.Pos), Name: tok.Literal}
}

// parseIdentName parses an identifier that may be a reserved word, as after
// a dot or in import/export specifiers.
func (p *Parser) parseIdentName() *ast.Ident {
	tok := p.token
	if !isIdentName(tok) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(tok), token.IDENT))
		return &ast.Ident{NodeInfo: ast.NodeInfo{Span: token.Span{Start: tok.Pos, End: tok.Pos}}}
	}
	p.nextToken()
	return &ast.Ident{NodeInfo: p.info(tok.Pos), Name: tok.Literal}
}

// takeComments returns the comments that end before offset and were not yet
// attached, skipping pure annotations which belong to expressions.
func (p *Parser) takeComments(offset int) []*token.Comment {
	var out []*token.Comment
	comments := p.lexer.Comments
	for p.commentIdx < len(comments) && comments[p.commentIdx].Span.End.Offset <= offset {
		c := comments[p.commentIdx]
		p.commentIdx++
		if !c.IsPure() {
			out = append(out, c)
		}
	}
	return out
}
