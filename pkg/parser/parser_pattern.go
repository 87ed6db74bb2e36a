package parser

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Pattern grammar:
//
//	binding         → IDENT | array_pattern | object_pattern
//	binding_element → binding ['=' assignment]
//	array_pattern   → '[' (binding_element | ',' | '...' binding)* ']'
//	object_pattern  → '{' (key ':' binding_element | IDENT ['=' assignment] | '...' IDENT) (',' ...)* '}'
//
// Assignment targets and arrow parameters are parsed as expressions first and
// converted with toPattern.

// parseBindingTarget parses a binding identifier or destructuring pattern.
func (p *Parser) parseBindingTarget() ast.Expr {
	switch p.token.Type {
	case token.LBRACKET:
		return p.parseArrayPattern()
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.IDENT:
		return p.parseIdent()
	}
	p.addError(ErrInvalidBindingPattern)
	return &ast.Ident{NodeInfo: ast.NodeInfo{Span: token.Span{Start: p.token.Pos, End: p.token.Pos}}}
}

// parseBindingElement parses a binding with an optional default value.
func (p *Parser) parseBindingElement() ast.Expr {
	start := p.token.Pos
	target := p.parseBindingTarget()
	if !p.match(token.ASSIGN) {
		return target
	}
	def := p.parseAssign()
	return &ast.AssignPattern{NodeInfo: p.info(start), Left: target, Right: def}
}

func (p *Parser) parseArrayPattern() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACKET)

	elems := []ast.Expr{}
	for !p.check(token.RBRACKET) && !p.failed() {
		if p.match(token.COMMA) {
			elems = append(elems, nil) // hole
			continue
		}
		if p.check(token.ELLIPSIS) {
			rstart := p.token.Pos
			p.nextToken()
			target := p.parseBindingTarget()
			elems = append(elems, &ast.RestElem{NodeInfo: p.info(rstart), X: target})
			break
		}
		elems = append(elems, p.parseBindingElement())
		if !p.check(token.RBRACKET) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayPattern{NodeInfo: p.info(start), Elems: elems}
}

func (p *Parser) parseObjectPattern() ast.Expr {
	start := p.token.Pos
	p.expect(token.LBRACE)

	props := []ast.Expr{}
	for !p.check(token.RBRACE) && !p.failed() {
		pstart := p.token.Pos
		if p.check(token.ELLIPSIS) {
			p.nextToken()
			target := p.parseIdent()
			props = append(props, &ast.RestElem{NodeInfo: p.info(pstart), X: target})
			break
		}

		keyTok := p.token
		key, computed := p.parsePropertyKey()
		prop := &ast.Property{Key: key, Computed: computed}
		if p.match(token.COLON) {
			prop.Value = p.parseBindingElement()
		} else {
			id, ok := key.(*ast.Ident)
			if !ok || computed || keyTok.Type != token.IDENT {
				p.addError(ErrInvalidBindingPattern)
				break
			}
			prop.Shorthand = true
			var value ast.Expr = copyIdent(id)
			if p.match(token.ASSIGN) {
				def := p.parseAssign()
				value = &ast.AssignPattern{NodeInfo: p.info(pstart), Left: value, Right: def}
			}
			prop.Value = value
		}
		prop.NodeInfo = p.info(pstart)
		props = append(props, prop)

		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectPattern{NodeInfo: p.info(start), Props: props}
}

// toParams converts a parenthesized expression list into arrow parameters.
func (p *Parser) toParams(items []ast.Expr) []ast.Expr {
	params := make([]ast.Expr, 0, len(items))
	for i, item := range items {
		if spread, ok := item.(*ast.SpreadElem); ok {
			if i != len(items)-1 {
				p.addErrorAt(spread.Span.Start, ErrInvalidArrowParams)
			}
			params = append(params, &ast.RestElem{NodeInfo: spread.NodeInfo, X: p.toPattern(spread.X, true)})
			continue
		}
		params = append(params, p.toPattern(item, true))
	}
	return params
}

// toPattern converts an expression parsed under the cover grammar into an
// assignment target (binding false) or binding pattern (binding true).
func (p *Parser) toPattern(e ast.Expr, binding bool) ast.Expr {
	msg := ErrInvalidAssignTarget
	if binding {
		msg = ErrInvalidArrowParams
	}

	switch n := e.(type) {
	case *ast.Ident:
		return n

	case *ast.MemberExpr:
		if !binding && !n.Optional {
			return n
		}

	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignPattern, *ast.RestElem:
		return e

	case *ast.ArrayLit:
		elems := make([]ast.Expr, len(n.Elems))
		for i, el := range n.Elems {
			switch el := el.(type) {
			case nil:
			case *ast.SpreadElem:
				if i != len(n.Elems)-1 {
					p.addErrorAt(el.Span.Start, msg)
				}
				elems[i] = &ast.RestElem{NodeInfo: el.NodeInfo, X: p.toPattern(el.X, binding)}
			default:
				elems[i] = p.toPattern(el, binding)
			}
		}
		return &ast.ArrayPattern{NodeInfo: n.NodeInfo, Elems: elems}

	case *ast.ObjectLit:
		props := make([]ast.Expr, 0, len(n.Props))
		for i, pr := range n.Props {
			switch pr := pr.(type) {
			case *ast.SpreadElem:
				if i != len(n.Props)-1 {
					p.addErrorAt(pr.Span.Start, msg)
				}
				props = append(props, &ast.RestElem{NodeInfo: pr.NodeInfo, X: p.toPattern(pr.X, binding)})
			case *ast.Property:
				if pr.Method || pr.Kind != ast.PropInit {
					p.addErrorAt(pr.Span.Start, msg)
					continue
				}
				conv := *pr
				conv.Value = p.toPattern(pr.Value, binding)
				props = append(props, &conv)
			}
		}
		return &ast.ObjectPattern{NodeInfo: n.NodeInfo, Props: props}

	case *ast.AssignExpr:
		if n.Op == token.ASSIGN {
			return &ast.AssignPattern{NodeInfo: n.NodeInfo, Left: p.toPattern(n.Left, binding), Right: n.Right}
		}
	}

	p.addErrorAt(e.GetSpan().Start, msg)
	return e
}
