package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels come from ast.BinaryPrecedence, lowest first:
//
//	PrecNullish        (??)
//	PrecLogicalOr      (||)
//	PrecLogicalAnd     (&&)
//	PrecBitOr .. PrecBitAnd (|, ^, &)
//	PrecEquality       (==, !=, ===, !==)
//	PrecRelational     (<, >, <=, >=, instanceof, in)
//	PrecShift          (<<, >>, >>>)
//	PrecAdditive       (+, -)
//	PrecMultiplicative (*, /, %)
//	PrecExponent       (**, right-associative)
//
// Assignment, conditional, unary, postfix and call/member expressions are
// handled by dedicated functions around the binary loop.

// parseExpression parses a comma-separated expression.
func (p *Parser) parseExpression() ast.Expr {
	start := p.token.Pos
	expr := p.parseAssign()
	if !p.check(token.COMMA) {
		return expr
	}

	list := []ast.Expr{expr}
	for !p.failed() && p.match(token.COMMA) {
		list = append(list, p.parseAssign())
	}
	return &ast.SeqExpr{NodeInfo: p.info(start), List: list}
}

// parseAssign parses an assignment expression (including arrow functions,
// which the primary parser recognizes).
func (p *Parser) parseAssign() ast.Expr {
	start := p.token.Pos
	if p.check(token.YIELD) {
		return p.parseYield()
	}

	left := p.parseConditional()
	if !token.IsAssignOp(p.token.Type) {
		return left
	}

	op := p.token.Type
	target := left
	if op == token.ASSIGN {
		target = p.toPattern(left, false)
	} else if !isSimpleTarget(left) {
		p.addError(ErrInvalidAssignTarget)
	}
	p.nextToken()

	right := p.parseAssign()
	return &ast.AssignExpr{NodeInfo: p.info(start), Left: target, Op: op, Right: right}
}

func (p *Parser) parseYield() ast.Expr {
	start := p.token.Pos
	p.nextToken() // consume YIELD
	expr := &ast.YieldExpr{}
	switch p.token.Type {
	case token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA, token.COLON, token.SEMICOLON, token.EOF:
	default:
		if !p.token.NewlineBefore {
			expr.Delegate = p.match(token.STAR)
			expr.X = p.parseAssign()
		}
	}
	expr.NodeInfo = p.info(start)
	return expr
}

// parseConditional parses test ? then : else.
func (p *Parser) parseConditional() ast.Expr {
	start := p.token.Pos
	cond := p.parseBinary(ast.PrecNullish)
	if !p.check(token.QUESTION) {
		return cond
	}
	p.nextToken()

	saved := p.noIn
	p.noIn = false
	then := p.parseAssign()
	p.noIn = saved

	p.expect(token.COLON)
	els := p.parseAssign()
	return &ast.CondExpr{NodeInfo: p.info(start), Cond: cond, Then: then, Else: els}
}

// parseBinary implements Pratt parsing for binary and logical operators.
func (p *Parser) parseBinary(minPrecedence int) ast.Expr {
	start := p.token.Pos
	left := p.parseUnary()

	// Parse infix operators while their precedence is >= minPrecedence
	for !p.failed() {
		prec := p.infixPrecedence()
		if prec == ast.PrecLowest || prec < minPrecedence {
			break
		}

		op := p.token.Type
		p.nextToken()

		var right ast.Expr
		if op == token.POW {
			right = p.parseBinary(prec)
		} else {
			right = p.parseBinary(prec + 1)
		}
		left = &ast.BinaryExpr{NodeInfo: p.info(start), X: left, Op: op, Y: right}
	}

	return left
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or ast.PrecLowest if it is not one here.
func (p *Parser) infixPrecedence() int {
	if p.noIn && p.check(token.IN) {
		return ast.PrecLowest
	}
	return ast.BinaryPrecedence(p.token.Type)
}

// parseUnary parses prefix operators.
func (p *Parser) parseUnary() ast.Expr {
	start := p.token.Pos

	switch p.token.Type {
	case token.NOT, token.TILDE, token.PLUS, token.MINUS, token.TYPEOF, token.VOID, token.DELETE:
		op := p.token.Type
		p.nextToken()
		x := p.parseUnary()
		return &ast.UnaryExpr{NodeInfo: p.info(start), Op: op, X: x}

	case token.INC, token.DEC:
		op := p.token.Type
		p.nextToken()
		x := p.parseUnary()
		if !isSimpleTarget(x) {
			p.addErrorAt(start, ErrInvalidAssignTarget)
		}
		return &ast.UpdateExpr{NodeInfo: p.info(start), Op: op, Prefix: true, X: x}

	case token.AWAIT:
		p.nextToken()
		x := p.parseUnary()
		return &ast.AwaitExpr{NodeInfo: p.info(start), X: x}
	}

	return p.parsePostfix()
}

// parsePostfix parses x++ and x--. A line break before the operator ends
// the expression instead.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.token.Pos
	x := p.parseLeftHandSide()

	if (p.check(token.INC) || p.check(token.DEC)) && !p.token.NewlineBefore {
		if !isSimpleTarget(x) {
			p.addError(ErrInvalidAssignTarget)
		}
		op := p.token.Type
		p.nextToken()
		return &ast.UpdateExpr{NodeInfo: p.info(start), Op: op, X: x}
	}
	return x
}

// parseLeftHandSide parses new expressions, calls and member accesses.
func (p *Parser) parseLeftHandSide() ast.Expr {
	start := p.token.Pos
	var x ast.Expr
	if p.check(token.NEW) {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	if arrow, ok := x.(*ast.ArrowFunc); ok && arrow == p.bareArrow {
		// an arrow function is never a callee or member object without parentheses
		return x
	}
	return p.parseCallTail(start, x, true)
}

func (p *Parser) parseNew() ast.Expr {
	start := p.token.Pos
	p.nextToken() // consume NEW

	if p.match(token.DOT) {
		// new.target
		prop := p.parseIdentName()
		return &ast.MemberExpr{NodeInfo: p.info(start), X: ast.NewIdent("new", token.Span{Start: start, End: start}), Prop: prop}
	}

	var callee ast.Expr
	if p.check(token.NEW) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseCallTail(start, callee, false)

	var args []ast.Expr
	if p.check(token.LPAREN) {
		args = p.parseArguments()
	}
	return &ast.NewExpr{NodeInfo: p.info(start), Callee: callee, Args: args}
}

// parseCallTail parses member accesses, calls, optional chains and tagged
// templates following x. Calls are skipped for a new callee.
func (p *Parser) parseCallTail(start token.Position, x ast.Expr, allowCall bool) ast.Expr {
	for !p.failed() {
		switch p.token.Type {
		case token.DOT:
			p.nextToken()
			prop := p.parseIdentName()
			x = &ast.MemberExpr{NodeInfo: p.info(start), X: x, Prop: prop}

		case token.OPTCHAIN:
			p.nextToken()
			switch {
			case p.check(token.LPAREN):
				args := p.parseArguments()
				x = &ast.CallExpr{NodeInfo: p.info(start), Callee: x, Args: args, Optional: true}
			case p.check(token.LBRACKET):
				prop := p.parseComputedProp()
				x = &ast.MemberExpr{NodeInfo: p.info(start), X: x, Prop: prop, Computed: true, Optional: true}
			default:
				prop := p.parseIdentName()
				x = &ast.MemberExpr{NodeInfo: p.info(start), X: x, Prop: prop, Optional: true}
			}

		case token.LBRACKET:
			prop := p.parseComputedProp()
			x = &ast.MemberExpr{NodeInfo: p.info(start), X: x, Prop: prop, Computed: true}

		case token.LPAREN:
			if !allowCall {
				return x
			}
			args := p.parseArguments()
			x = &ast.CallExpr{NodeInfo: p.info(start), Callee: x, Args: args}

		case token.TEMPLATE:
			tpl := p.parseTemplate()
			tpl.Tag = x
			tpl.Span.Start = start
			x = tpl

		default:
			return x
		}
	}
	return x
}

// parseComputedProp parses '[' expression ']'.
func (p *Parser) parseComputedProp() ast.Expr {
	p.expect(token.LBRACKET)
	saved := p.noIn
	p.noIn = false
	prop := p.parseExpression()
	p.noIn = saved
	p.expect(token.RBRACKET)
	return prop
}

// parseArguments parses '(' (assignment | '...' assignment) (',' ...)* ')'.
func (p *Parser) parseArguments() []ast.Expr {
	p.expect(token.LPAREN)
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	var args []ast.Expr
	for !p.check(token.RPAREN) && !p.failed() {
		if p.check(token.ELLIPSIS) {
			start := p.token.Pos
			p.nextToken()
			x := p.parseAssign()
			args = append(args, &ast.SpreadElem{NodeInfo: p.info(start), X: x})
		} else {
			args = append(args, p.parseAssign())
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

// isSimpleTarget returns true for targets valid with compound assignment
// and update operators.
func isSimpleTarget(x ast.Expr) bool {
	switch n := x.(type) {
	case *ast.Ident:
		return true
	case *ast.MemberExpr:
		return !n.Optional
	}
	return false
}

// addErrorAt adds a parse error at an explicit position.
func (p *Parser) addErrorAt(pos token.Position, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Message: msg})
}

// unexpected records an unexpected-token error for the current token.
func (p *Parser) unexpected() {
	p.addError(fmt.Sprintf(ErrUnexpectedExpr, p.describe(p.token)))
}
