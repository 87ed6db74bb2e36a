package ast

import (
	"strings"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Constructors for synthesized nodes. Each takes the span of the source
// construct it replaces so diagnostics on rewritten code still point at the
// original text.

// NewIdent returns an identifier node.
func NewIdent(name string, span token.Span) *Ident {
	return &Ident{NodeInfo: NodeInfo{Span: span}, Name: name}
}

// NewNumber returns a numeric literal node.
func NewNumber(raw string, span token.Span) *Literal {
	return &Literal{NodeInfo: NodeInfo{Span: span}, Kind: token.NUMBER, Raw: raw}
}

// NewCall returns callee(args...).
func NewCall(callee Expr, args []Expr, span token.Span) *CallExpr {
	return &CallExpr{NodeInfo: NodeInfo{Span: span}, Callee: callee, Args: args}
}

// NewArrow returns (params) => body.
func NewArrow(params []Expr, body Node, span token.Span) *ArrowFunc {
	return &ArrowFunc{NodeInfo: NodeInfo{Span: span}, Params: params, Body: body}
}

// NewArray returns [elems...].
func NewArray(elems []Expr, span token.Span) *ArrayLit {
	return &ArrayLit{NodeInfo: NodeInfo{Span: span}, Elems: elems}
}

// NewConst returns `const target = init;`.
func NewConst(target, init Expr, span token.Span) *VarDecl {
	return &VarDecl{
		NodeInfo: NodeInfo{Span: span},
		Kind:     token.CONST,
		Decls: []*Declarator{{
			NodeInfo: NodeInfo{Span: span},
			Target:   target,
			Init:     init,
		}},
	}
}

// MemberPath builds an identifier or a dotted member chain from a path such
// as "React.useState". Empty segments are skipped.
func MemberPath(path string, span token.Span) Expr {
	var expr Expr
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		id := NewIdent(part, span)
		if expr == nil {
			expr = id
			continue
		}
		expr = &MemberExpr{NodeInfo: NodeInfo{Span: span}, X: expr, Prop: id}
	}
	return expr
}

// RootIdent returns the identifier at the base of a member chain such as
// a.b[c].d, or nil if the chain is rooted at something else (a call, this).
func RootIdent(e Expr) *Ident {
	for {
		switch n := e.(type) {
		case *Ident:
			return n
		case *MemberExpr:
			e = n.X
		default:
			return nil
		}
	}
}

// IsAnonymousFunc reports whether e is an arrow function or an anonymous
// function expression, returning its parameters and body.
func IsAnonymousFunc(e Expr) (params []Expr, body Node, ok bool) {
	switch n := e.(type) {
	case *ArrowFunc:
		return n.Params, n.Body, true
	case *FuncExpr:
		if n.Func.Name != nil || n.Func.Generator {
			return nil, nil, false
		}
		return n.Func.Params, n.Func.Body, true
	}
	return nil, nil, false
}
