package format

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// formatStmtList prints one statement per line, keeping a single blank line
// where the source had one or more between two statements.
func (p *Printer) formatStmtList(list []ast.Stmt) {
	prevEnd := 0
	for _, s := range list {
		span := s.GetSpan()
		startLine := span.Start.Line
		if cs := leadingComments(s); p.comments && len(cs) > 0 {
			startLine = cs[0].Span.Start.Line
		}
		if prevEnd > 0 && startLine > prevEnd+1 {
			p.writeln()
		}
		p.formatStmt(s)
		p.writeln()
		prevEnd = span.End.Line
	}
}

// commented is implemented by every node embedding ast.NodeInfo.
type commented interface {
	Comments() []*token.Comment
}

func leadingComments(s ast.Stmt) []*token.Comment {
	if c, ok := s.(commented); ok {
		return c.Comments()
	}
	return nil
}

// formatStmt prints a statement without its trailing newline.
func (p *Printer) formatStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	p.formatComments(leadingComments(s))

	switch n := s.(type) {
	case *ast.VarDecl:
		p.formatVarDecl(n)
		p.write(";")

	case *ast.FuncDecl:
		p.formatFunction(n.Func)

	case *ast.ExprStmt:
		p.wrap = statementWrap(n.X)
		p.formatExpr(n.X, ast.PrecLowest)
		p.wrap = nil
		p.write(";")

	case *ast.BlockStmt:
		p.formatBlock(n)

	case *ast.LabeledStmt:
		p.write(n.Label.Name)
		p.write(": ")
		p.formatStmt(n.Body)

	case *ast.ReturnStmt:
		p.write("return")
		if n.Result != nil {
			p.space()
			p.formatExpr(n.Result, ast.PrecLowest)
		}
		p.write(";")

	case *ast.IfStmt:
		p.formatIf(n)

	case *ast.ForStmt:
		p.write("for (")
		switch init := n.Init.(type) {
		case *ast.VarDecl:
			p.formatVarDecl(init)
		case ast.Expr:
			p.formatExpr(init, ast.PrecLowest)
		}
		p.write(";")
		if n.Cond != nil {
			p.space()
			p.formatExpr(n.Cond, ast.PrecLowest)
		}
		p.write(";")
		if n.Post != nil {
			p.space()
			p.formatExpr(n.Post, ast.PrecLowest)
		}
		p.write(")")
		p.formatBody(n.Body)

	case *ast.ForInStmt:
		p.write("for ")
		if n.Await {
			p.write("await ")
		}
		p.write("(")
		switch left := n.Left.(type) {
		case *ast.VarDecl:
			p.formatVarDecl(left)
		case ast.Expr:
			p.formatExpr(left, ast.PrecCall)
		}
		if n.Of {
			p.write(" of ")
			p.formatExpr(n.Right, ast.PrecAssign)
		} else {
			p.write(" in ")
			p.formatExpr(n.Right, ast.PrecLowest)
		}
		p.write(")")
		p.formatBody(n.Body)

	case *ast.WhileStmt:
		p.write("while (")
		p.formatExpr(n.Cond, ast.PrecLowest)
		p.write(")")
		p.formatBody(n.Body)

	case *ast.DoWhileStmt:
		p.write("do")
		p.formatBody(n.Body)
		if _, ok := n.Body.(*ast.BlockStmt); ok {
			p.space()
		} else {
			p.writeln()
		}
		p.write("while (")
		p.formatExpr(n.Cond, ast.PrecLowest)
		p.write(");")

	case *ast.BranchStmt:
		p.op(n.Tok)
		if n.Label != nil {
			p.space()
			p.write(n.Label.Name)
		}
		p.write(";")

	case *ast.ThrowStmt:
		p.write("throw ")
		p.formatExpr(n.X, ast.PrecLowest)
		p.write(";")

	case *ast.TryStmt:
		p.write("try ")
		p.formatBlock(n.Block)
		if h := n.Handler; h != nil {
			p.write(" catch ")
			if h.Param != nil {
				p.write("(")
				p.formatExpr(h.Param, ast.PrecLowest)
				p.write(") ")
			}
			p.formatBlock(h.Body)
		}
		if n.Finalizer != nil {
			p.write(" finally ")
			p.formatBlock(n.Finalizer)
		}

	case *ast.SwitchStmt:
		p.formatSwitch(n)

	case *ast.EmptyStmt:
		p.write(";")

	case *ast.DebuggerStmt:
		p.write("debugger;")

	case *ast.ImportDecl:
		p.formatImport(n)

	case *ast.ExportDecl:
		p.formatExport(n)
	}
}

func (p *Printer) formatVarDecl(n *ast.VarDecl) {
	p.op(n.Kind)
	p.space()
	p.formatList(len(n.Decls), func(i int) {
		d := n.Decls[i]
		p.formatExpr(d.Target, ast.PrecLowest)
		if d.Init != nil {
			p.write(" = ")
			p.formatExpr(d.Init, ast.PrecAssign)
		}
	}, ", ", false)
}

// formatBlock prints a braced statement list; an empty block stays on one line.
func (p *Printer) formatBlock(b *ast.BlockStmt) {
	if b == nil || len(b.List) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent()
	p.formatStmtList(b.List)
	p.dedent()
	p.write("}")
}

// formatBody prints the body of a loop or if branch: blocks on the same
// line, other statements after a single space.
func (p *Printer) formatBody(s ast.Stmt) {
	if _, ok := s.(*ast.EmptyStmt); ok {
		p.write(";")
		return
	}
	p.space()
	p.formatStmt(s)
}

func (p *Printer) formatIf(n *ast.IfStmt) {
	p.write("if (")
	p.formatExpr(n.Cond, ast.PrecLowest)
	p.write(")")
	p.formatBody(n.Then)
	if n.Else == nil {
		return
	}
	if _, ok := n.Then.(*ast.BlockStmt); ok {
		p.space()
	} else {
		p.writeln()
	}
	p.write("else")
	p.formatBody(n.Else)
}

func (p *Printer) formatSwitch(n *ast.SwitchStmt) {
	p.write("switch (")
	p.formatExpr(n.Disc, ast.PrecLowest)
	p.write(") {")
	p.writeln()
	p.indent()
	for _, c := range n.Cases {
		if c.Test != nil {
			p.write("case ")
			p.formatExpr(c.Test, ast.PrecLowest)
			p.write(":")
		} else {
			p.write("default:")
		}
		p.writeln()
		p.indent()
		p.formatStmtList(c.Body)
		p.dedent()
	}
	p.dedent()
	p.write("}")
}

// formatFunction prints a function declaration or expression.
func (p *Printer) formatFunction(fn *ast.Function) {
	if fn.Async {
		p.write("async ")
	}
	p.write("function")
	if fn.Generator {
		p.write("*")
	}
	if fn.Name != nil {
		p.space()
		p.write(fn.Name.Name)
	} else {
		p.space()
	}
	p.formatParams(fn.Params)
	p.space()
	p.formatBlock(fn.Body)
}

func (p *Printer) formatParams(params []ast.Expr) {
	p.write("(")
	p.formatList(len(params), func(i int) {
		p.formatExpr(params[i], ast.PrecAssign)
	}, ", ", false)
	p.write(")")
}

func (p *Printer) formatImport(n *ast.ImportDecl) {
	p.write("import ")
	if len(n.Specs) == 0 {
		p.formatExpr(n.Source, ast.PrecLowest)
		p.write(";")
		return
	}

	var named []*ast.ImportSpec
	first := true
	for _, spec := range n.Specs {
		switch spec.Kind {
		case ast.ImportDefault:
			if !first {
				p.write(", ")
			}
			p.write(spec.Local.Name)
			first = false
		case ast.ImportNamespace:
			if !first {
				p.write(", ")
			}
			p.write("* as ")
			p.write(spec.Local.Name)
			first = false
		default:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if !first {
			p.write(", ")
		}
		p.write("{ ")
		p.formatList(len(named), func(i int) {
			spec := named[i]
			p.write(spec.Imported.Name)
			if spec.Local.Name != spec.Imported.Name {
				p.write(" as ")
				p.write(spec.Local.Name)
			}
		}, ", ", false)
		p.write(" }")
	}
	p.write(" from ")
	p.formatExpr(n.Source, ast.PrecLowest)
	p.write(";")
}

func (p *Printer) formatExport(n *ast.ExportDecl) {
	p.write("export ")
	switch {
	case n.Default:
		p.write("default ")
		if n.Decl != nil {
			p.formatStmt(n.Decl)
			return
		}
		if fe, ok := n.Value.(*ast.FuncExpr); ok {
			p.formatFunction(fe.Func)
			return
		}
		p.formatExpr(n.Value, ast.PrecAssign)
		p.write(";")

	case n.Decl != nil:
		p.formatStmt(n.Decl)

	case n.Star:
		p.write("*")
		if n.StarAs != nil {
			p.write(" as ")
			p.write(n.StarAs.Name)
		}
		p.write(" from ")
		p.formatExpr(n.Source, ast.PrecLowest)
		p.write(";")

	default:
		p.write("{")
		if len(n.Specs) > 0 {
			p.space()
			p.formatList(len(n.Specs), func(i int) {
				spec := n.Specs[i]
				p.write(spec.Local.Name)
				if spec.Exported.Name != spec.Local.Name {
					p.write(" as ")
					p.write(spec.Exported.Name)
				}
			}, ", ", false)
			p.space()
		}
		p.write("}")
		if n.Source != nil {
			p.write(" from ")
			p.formatExpr(n.Source, ast.PrecLowest)
		}
		p.write(";")
	}
}
