package format

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// formatExpr prints e, wrapping it in parentheses when its precedence is
// below minPrec.
func (p *Printer) formatExpr(e ast.Expr, minPrec int) {
	if e == nil {
		return
	}
	if ast.Precedence(e) < minPrec || (p.wrap != nil && e == p.wrap) {
		p.parens(e)
		return
	}
	p.formatExprNode(e)
}

// parens prints (e). Inside parentheses no node is at the start of a
// statement any more, so a pending wrap is dropped.
func (p *Printer) parens(e ast.Expr) {
	p.wrap = nil
	p.write("(")
	p.formatExprNode(e)
	p.write(")")
}

func (p *Printer) formatExprNode(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Ident:
		p.write(n.Name)

	case *ast.Literal:
		p.write(n.Raw)

	case *ast.TemplateLit:
		if n.Tag != nil {
			p.formatExpr(n.Tag, ast.PrecCall)
		}
		p.write("`")
		for i, q := range n.Quasis {
			p.write(q)
			if i < len(n.Exprs) {
				p.write("${")
				p.formatExpr(n.Exprs[i], ast.PrecLowest)
				p.write("}")
			}
		}
		p.write("`")

	case *ast.ThisExpr:
		p.write("this")

	case *ast.SuperExpr:
		p.write("super")

	case *ast.ArrayLit:
		p.formatElems(n.Elems)

	case *ast.ArrayPattern:
		p.formatElems(n.Elems)

	case *ast.ObjectLit:
		p.formatProps(n.Props)

	case *ast.ObjectPattern:
		p.formatProps(n.Props)

	case *ast.SpreadElem:
		p.write("...")
		p.formatExpr(n.X, ast.PrecAssign)

	case *ast.RestElem:
		p.write("...")
		p.formatExpr(n.X, ast.PrecAssign)

	case *ast.FuncExpr:
		p.formatFunction(n.Func)

	case *ast.ArrowFunc:
		p.formatArrow(n)

	case *ast.UnaryExpr:
		p.op(n.Op)
		switch n.Op {
		case token.TYPEOF, token.VOID, token.DELETE:
			p.space()
		case token.PLUS, token.MINUS:
			if signClash(n.Op, n.X) {
				p.space()
			}
		}
		p.formatExpr(n.X, ast.PrecPrefix)

	case *ast.UpdateExpr:
		if n.Prefix {
			p.op(n.Op)
			p.formatExpr(n.X, ast.PrecPostfix)
		} else {
			p.formatExpr(n.X, ast.PrecPostfix)
			p.op(n.Op)
		}

	case *ast.BinaryExpr:
		p.formatBinary(n)

	case *ast.AssignExpr:
		p.formatExpr(n.Left, ast.PrecCall)
		p.space()
		p.op(n.Op)
		p.space()
		p.formatExpr(n.Right, ast.PrecAssign)

	case *ast.AssignPattern:
		p.formatExpr(n.Left, ast.PrecCall)
		p.write(" = ")
		p.formatExpr(n.Right, ast.PrecAssign)

	case *ast.CondExpr:
		p.formatExpr(n.Cond, ast.PrecNullish)
		p.write(" ? ")
		p.formatExpr(n.Then, ast.PrecAssign)
		p.write(" : ")
		p.formatExpr(n.Else, ast.PrecAssign)

	case *ast.CallExpr:
		p.formatExpr(n.Callee, ast.PrecCall)
		if n.Optional {
			p.write("?.")
		}
		p.formatArgs(n.Args)

	case *ast.NewExpr:
		p.write("new ")
		if hasCall(n.Callee) {
			p.parens(n.Callee)
		} else {
			p.formatExpr(n.Callee, ast.PrecNew)
		}
		p.formatArgs(n.Args)

	case *ast.MemberExpr:
		if lit, ok := n.X.(*ast.Literal); ok && lit.Kind == token.NUMBER {
			p.parens(lit)
		} else {
			p.formatExpr(n.X, ast.PrecCall)
		}
		switch {
		case n.Computed && n.Optional:
			p.write("?.[")
			p.formatExpr(n.Prop, ast.PrecLowest)
			p.write("]")
		case n.Computed:
			p.write("[")
			p.formatExpr(n.Prop, ast.PrecLowest)
			p.write("]")
		case n.Optional:
			p.write("?.")
			p.formatExpr(n.Prop, ast.PrecPrimary)
		default:
			p.write(".")
			p.formatExpr(n.Prop, ast.PrecPrimary)
		}

	case *ast.SeqExpr:
		p.formatList(len(n.List), func(i int) {
			p.formatExpr(n.List[i], ast.PrecAssign)
		}, ", ", false)

	case *ast.AwaitExpr:
		p.write("await ")
		p.formatExpr(n.X, ast.PrecPrefix)

	case *ast.YieldExpr:
		p.write("yield")
		if n.Delegate {
			p.write("*")
		}
		if n.X != nil {
			p.space()
			p.formatExpr(n.X, ast.PrecAssign)
		}
	}
}

func (p *Printer) formatBinary(n *ast.BinaryExpr) {
	prec := ast.BinaryPrecedence(n.Op)
	leftMin, rightMin := prec, prec+1
	if n.Op == token.POW {
		leftMin, rightMin = ast.PrecPostfix, prec
	}

	if mixesNullish(n.Op, n.X) {
		p.parens(n.X)
	} else {
		p.formatExpr(n.X, leftMin)
	}
	p.space()
	p.op(n.Op)
	p.space()
	if mixesNullish(n.Op, n.Y) {
		p.parens(n.Y)
	} else {
		p.formatExpr(n.Y, rightMin)
	}
}

// mixesNullish reports whether child must be parenthesized because ?? is
// combined with || or && without explicit grouping.
func mixesNullish(op token.TokenType, child ast.Expr) bool {
	b, ok := child.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	logical := func(t token.TokenType) bool { return t == token.LOR || t == token.LAND }
	return (op == token.NULLISH && logical(b.Op)) || (logical(op) && b.Op == token.NULLISH)
}

// signClash reports whether a unary + or - must be separated from its
// operand, as in `- -x` or `+ ++x`.
func signClash(op token.TokenType, x ast.Expr) bool {
	var next token.TokenType
	switch n := x.(type) {
	case *ast.UnaryExpr:
		next = n.Op
	case *ast.UpdateExpr:
		if !n.Prefix {
			return false
		}
		next = n.Op
	default:
		return false
	}
	if op == token.PLUS {
		return next == token.PLUS || next == token.INC
	}
	return next == token.MINUS || next == token.DEC
}

// hasCall reports whether a new callee contains a call, which would
// otherwise bind the argument list to the wrong expression.
func hasCall(e ast.Expr) bool {
	for {
		switch n := e.(type) {
		case *ast.CallExpr:
			return true
		case *ast.MemberExpr:
			e = n.X
		case *ast.TemplateLit:
			if n.Tag == nil {
				return false
			}
			e = n.Tag
		default:
			return false
		}
	}
}

func (p *Printer) formatArgs(args []ast.Expr) {
	p.write("(")
	p.formatList(len(args), func(i int) {
		p.formatExpr(args[i], ast.PrecAssign)
	}, ", ", false)
	p.write(")")
}

// formatElems prints array literal or pattern elements; nil is a hole.
func (p *Printer) formatElems(elems []ast.Expr) {
	p.write("[")
	for i, el := range elems {
		if i > 0 {
			p.write(", ")
		}
		if el != nil {
			p.formatExpr(el, ast.PrecAssign)
		}
	}
	if n := len(elems); n > 0 && elems[n-1] == nil {
		p.write(",")
	}
	p.write("]")
}

// formatProps prints object members inline, or one per line when a member
// holds a function with a block body.
func (p *Printer) formatProps(props []ast.Expr) {
	if len(props) == 0 {
		p.write("{}")
		return
	}
	if !hasBlockMember(props) {
		p.write("{ ")
		p.formatList(len(props), func(i int) {
			p.formatProp(props[i])
		}, ", ", false)
		p.write(" }")
		return
	}

	p.write("{")
	p.writeln()
	p.indent()
	p.formatList(len(props), func(i int) {
		p.formatProp(props[i])
	}, ",", true)
	p.writeln()
	p.dedent()
	p.write("}")
}

func hasBlockMember(props []ast.Expr) bool {
	for _, e := range props {
		prop, ok := e.(*ast.Property)
		if !ok {
			continue
		}
		switch v := prop.Value.(type) {
		case *ast.FuncExpr:
			if len(v.Func.Body.List) > 0 {
				return true
			}
		case *ast.ArrowFunc:
			if b, ok := v.Body.(*ast.BlockStmt); ok && len(b.List) > 0 {
				return true
			}
		}
	}
	return false
}

func (p *Printer) formatProp(e ast.Expr) {
	prop, ok := e.(*ast.Property)
	if !ok {
		p.formatExpr(e, ast.PrecAssign)
		return
	}

	if prop.Shorthand {
		p.formatExpr(prop.Value, ast.PrecAssign)
		return
	}

	fe, isFunc := prop.Value.(*ast.FuncExpr)
	if isFunc && (prop.Method || prop.Kind != ast.PropInit) {
		switch prop.Kind {
		case ast.PropGet:
			p.write("get ")
		case ast.PropSet:
			p.write("set ")
		default:
			if fe.Func.Async {
				p.write("async ")
			}
			if fe.Func.Generator {
				p.write("*")
			}
		}
		p.formatPropKey(prop)
		p.formatParams(fe.Func.Params)
		p.space()
		p.formatBlock(fe.Func.Body)
		return
	}

	p.formatPropKey(prop)
	p.write(": ")
	p.formatExpr(prop.Value, ast.PrecAssign)
}

func (p *Printer) formatPropKey(prop *ast.Property) {
	if prop.Computed {
		p.write("[")
		p.formatExpr(prop.Key, ast.PrecAssign)
		p.write("]")
		return
	}
	p.formatExpr(prop.Key, ast.PrecPrimary)
}

func (p *Printer) formatArrow(n *ast.ArrowFunc) {
	if n.Async {
		p.write("async ")
	}
	if id, ok := singleIdent(n.Params); ok {
		p.write(id.Name)
	} else {
		p.formatParams(n.Params)
	}
	p.write(" => ")

	switch body := n.Body.(type) {
	case *ast.BlockStmt:
		p.formatBlock(body)
	case ast.Expr:
		if lm := leftmost(body); isObject(lm) {
			p.wrap = lm
		}
		p.formatExpr(body, ast.PrecAssign)
		p.wrap = nil
	}
}

func singleIdent(params []ast.Expr) (*ast.Ident, bool) {
	if len(params) != 1 {
		return nil, false
	}
	id, ok := params[0].(*ast.Ident)
	return id, ok
}

// leftmost returns the expression printed first when e is printed,
// stopping at children that get parenthesized anyway.
func leftmost(e ast.Expr) ast.Expr {
	for {
		var next ast.Expr
		minPrec := ast.PrecCall
		switch n := e.(type) {
		case *ast.BinaryExpr:
			next, minPrec = n.X, ast.BinaryPrecedence(n.Op)
			if n.Op == token.POW {
				minPrec = ast.PrecPostfix
			}
			if mixesNullish(n.Op, n.X) {
				return e
			}
		case *ast.AssignExpr:
			next = n.Left
		case *ast.CallExpr:
			next = n.Callee
		case *ast.MemberExpr:
			next = n.X
		case *ast.CondExpr:
			next, minPrec = n.Cond, ast.PrecNullish
		case *ast.SeqExpr:
			next, minPrec = n.List[0], ast.PrecAssign
		case *ast.UpdateExpr:
			if !n.Prefix {
				next, minPrec = n.X, ast.PrecPostfix
			}
		case *ast.TemplateLit:
			next = n.Tag
		}
		if next == nil || ast.Precedence(next) < minPrec {
			return e
		}
		e = next
	}
}

func isObject(e ast.Expr) bool {
	switch e.(type) {
	case *ast.ObjectLit, *ast.ObjectPattern:
		return true
	}
	return false
}

// statementWrap returns the node that must be parenthesized when x starts
// an expression statement, or nil.
func statementWrap(x ast.Expr) ast.Expr {
	if a, ok := x.(*ast.AssignExpr); ok && isObject(a.Left) {
		return x
	}
	lm := leftmost(x)
	switch lm.(type) {
	case *ast.ObjectLit, *ast.ObjectPattern, *ast.FuncExpr:
		return lm
	}
	return nil
}
