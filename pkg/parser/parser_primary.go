package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Primary grammar:
//
//	primary → IDENT | literal | this | super | template
//	        | '(' expression ')' | arrow
//	        | '[' elements ']' | '{' properties '}'
//	        | [async] function ['*'] [IDENT] params body
//	arrow   → [async] (IDENT | '(' params ')') '=>' (block | assignment)

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.token
	start := tok.Pos

	switch tok.Type {
	case token.IDENT:
		if p.checkPeek(token.ARROW) && !p.peek.NewlineBefore {
			return p.parseArrowFromIdent(start, false)
		}
		if tok.Literal == "async" && !p.peek.NewlineBefore {
			switch {
			case p.checkPeek(token.FUNCTION):
				return p.parseFuncExpr(true)
			case p.checkPeek(token.IDENT) && p.peek2.Type == token.ARROW:
				p.nextToken() // consume async
				return p.parseArrowFromIdent(start, true)
			case p.checkPeek(token.LPAREN):
				return p.parseAsyncCallOrArrow()
			}
		}
		p.nextToken()
		return &ast.Ident{NodeInfo: p.info(start), Name: tok.Literal}

	case token.NUMBER, token.STRING, token.REGEXP, token.TRUE, token.FALSE, token.NULL:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.info(start), Kind: tok.Type, Raw: tok.Literal}

	case token.THIS:
		p.nextToken()
		return &ast.ThisExpr{NodeInfo: p.info(start)}

	case token.SUPER:
		p.nextToken()
		return &ast.SuperExpr{NodeInfo: p.info(start)}

	case token.IMPORT:
		// import(...) and import.meta
		p.nextToken()
		return &ast.Ident{NodeInfo: p.info(start), Name: "import"}

	case token.TEMPLATE:
		return p.parseTemplate()

	case token.LPAREN:
		return p.parseParenOrArrow()

	case token.LBRACKET:
		return p.parseArrayLit()

	case token.LBRACE:
		return p.parseObjectLit()

	case token.FUNCTION:
		return p.parseFuncExpr(false)

	case token.CLASS:
		p.addError(fmt.Sprintf(ErrUnsupported, "class expression"))
	default:
		p.unexpected()
	}

	return &ast.Ident{NodeInfo: ast.NodeInfo{Span: token.Span{Start: start, End: start}}}
}

// parseArrowFromIdent parses `x => body`; the current token is x.
func (p *Parser) parseArrowFromIdent(start token.Position, async bool) ast.Expr {
	param := p.parseIdent()
	p.expect(token.ARROW)
	body := p.parseArrowBody()
	arrow := &ast.ArrowFunc{NodeInfo: p.info(start), Params: []ast.Expr{param}, Body: body, Async: async}
	p.bareArrow = arrow
	return arrow
}

// parseArrowBody parses a block body or a single assignment expression.
func (p *Parser) parseArrowBody() ast.Node {
	if p.check(token.LBRACE) {
		saved := p.noIn
		p.noIn = false
		defer func() { p.noIn = saved }()
		return p.parseBlock()
	}
	return p.parseAssign()
}

// parseParenOrArrow parses a parenthesized expression, or arrow function
// parameters when '=>' follows the closing parenthesis.
func (p *Parser) parseParenOrArrow() ast.Expr {
	start := p.token.Pos
	p.expect(token.LPAREN)
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	var items []ast.Expr
	trailingComma, rest := false, false
	for !p.check(token.RPAREN) && !p.failed() {
		trailingComma = false
		if p.check(token.ELLIPSIS) {
			rstart := p.token.Pos
			p.nextToken()
			target := p.parseBindingTarget()
			items = append(items, &ast.RestElem{NodeInfo: p.info(rstart), X: target})
			rest = true
			break
		}
		items = append(items, p.parseAssign())
		if !p.match(token.COMMA) {
			break
		}
		trailingComma = true
	}
	p.expect(token.RPAREN)

	if p.check(token.ARROW) && !p.token.NewlineBefore {
		p.nextToken()
		params := p.toParams(items)
		body := p.parseArrowBody()
		arrow := &ast.ArrowFunc{NodeInfo: p.info(start), Params: params, Body: body}
		p.bareArrow = arrow
		return arrow
	}

	p.bareArrow = nil
	if len(items) == 0 || rest || trailingComma {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.ARROW))
		return &ast.Ident{NodeInfo: p.info(start)}
	}
	if len(items) == 1 {
		return items[0]
	}
	return &ast.SeqExpr{NodeInfo: p.info(start), List: items}
}

// parseAsyncCallOrArrow parses `async(args)` as a call, or as async arrow
// parameters when '=>' follows.
func (p *Parser) parseAsyncCallOrArrow() ast.Expr {
	start := p.token.Pos
	callee := p.parseIdent()
	args := p.parseArguments()

	if p.check(token.ARROW) && !p.token.NewlineBefore {
		p.nextToken()
		params := p.toParams(args)
		body := p.parseArrowBody()
		arrow := &ast.ArrowFunc{NodeInfo: p.info(start), Params: params, Body: body, Async: true}
		p.bareArrow = arrow
		return arrow
	}
	return &ast.CallExpr{NodeInfo: p.info(start), Callee: callee, Args: args}
}

func (p *Parser) parseFuncExpr(async bool) ast.Expr {
	start := p.token.Pos
	fn := p.parseFunction(async, false)
	return &ast.FuncExpr{NodeInfo: p.info(start), Func: fn}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACKET)
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	elems := []ast.Expr{}
	for !p.check(token.RBRACKET) && !p.failed() {
		if p.match(token.COMMA) {
			elems = append(elems, nil) // hole
			continue
		}
		if p.check(token.ELLIPSIS) {
			sstart := p.token.Pos
			p.nextToken()
			x := p.parseAssign()
			elems = append(elems, &ast.SpreadElem{NodeInfo: p.info(sstart), X: x})
		} else {
			elems = append(elems, p.parseAssign())
		}
		if !p.check(token.RBRACKET) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{NodeInfo: p.info(start), Elems: elems}
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACE)
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	props := []ast.Expr{}
	for !p.check(token.RBRACE) && !p.failed() {
		props = append(props, p.parseProperty())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectLit{NodeInfo: p.info(start), Props: props}
}

// isPropertyKeyStart returns true if tok can begin a property key, which
// makes a preceding get/set/async a modifier rather than the key itself.
func isPropertyKeyStart(tok token.Token) bool {
	switch tok.Type {
	case token.STRING, token.NUMBER, token.LBRACKET, token.STAR:
		return true
	}
	return isIdentName(tok)
}

// parseProperty parses one object literal member: key: value, shorthand
// (with a cover default `a = 1`), method, accessor or spread.
func (p *Parser) parseProperty() ast.Expr {
	start := p.token.Pos
	if p.check(token.ELLIPSIS) {
		p.nextToken()
		x := p.parseAssign()
		return &ast.SpreadElem{NodeInfo: p.info(start), X: x}
	}

	kind := ast.PropInit
	async := false
	if p.check(token.IDENT) && isPropertyKeyStart(p.peek) {
		switch p.token.Literal {
		case "get":
			kind = ast.PropGet
			p.nextToken()
		case "set":
			kind = ast.PropSet
			p.nextToken()
		case "async":
			if !p.peek.NewlineBefore {
				async = true
				p.nextToken()
			}
		}
	}
	generator := p.match(token.STAR)

	keyTok := p.token
	key, computed := p.parsePropertyKey()
	prop := &ast.Property{Key: key, Computed: computed, Kind: kind}

	switch {
	case p.check(token.LPAREN) || kind != ast.PropInit || async || generator:
		fstart := p.token.Pos
		fn := p.parseFunctionRest(fstart, nil, async, generator)
		prop.Value = &ast.FuncExpr{NodeInfo: p.info(fstart), Func: fn}
		prop.Method = kind == ast.PropInit

	case p.match(token.COLON):
		prop.Value = p.parseAssign()

	default:
		id, ok := key.(*ast.Ident)
		if !ok || computed || keyTok.Type != token.IDENT {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.COLON))
			break
		}
		prop.Shorthand = true
		value := copyIdent(id)
		if p.check(token.ASSIGN) {
			p.nextToken()
			def := p.parseAssign()
			prop.Value = &ast.AssignExpr{NodeInfo: p.info(id.Span.Start), Left: value, Op: token.ASSIGN, Right: def}
		} else {
			prop.Value = value
		}
	}

	prop.NodeInfo = p.info(start)
	return prop
}

// parsePropertyKey parses an identifier name, string, number or computed key.
func (p *Parser) parsePropertyKey() (ast.Expr, bool) {
	tok := p.token
	switch tok.Type {
	case token.LBRACKET:
		return p.parseComputedProp(), true
	case token.STRING, token.NUMBER:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.info(tok.Pos), Kind: tok.Type, Raw: tok.Literal}, false
	}
	return p.parseIdentName(), false
}

// parseTemplate parses a template literal token, parsing each substitution
// with a nested parser positioned inside the enclosing source.
func (p *Parser) parseTemplate() *ast.TemplateLit {
	tok := p.token
	p.nextToken()

	quasis, subs := templateParts(tok.Literal, tok.Pos)
	tpl := &ast.TemplateLit{NodeInfo: p.info(tok.Pos), Quasis: quasis}
	for _, sub := range subs {
		sp := newParser(newLexerAt(sub.src, sub.pos))
		expr := sp.parseExpression()
		if !sp.check(token.EOF) && !sp.failed() {
			sp.unexpected()
		}
		if err := sp.firstError(); err != nil {
			p.errors = append(p.errors, err)
		}
		tpl.Exprs = append(tpl.Exprs, expr)
	}
	return tpl
}
