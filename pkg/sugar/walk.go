package sugar

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
)

// The traversal is depth-first and pre-order. Statements and expressions
// are replaced through pointers to the fields holding them; s is always the
// innermost scope enclosing the node being visited.

func (p *Pass) stmts(list []ast.Stmt, s *scope.Scope) error {
	for i := range list {
		if err := p.rewriteStmt(&list[i], s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) rewriteStmt(slot *ast.Stmt, s *scope.Scope) error {
	repl, err := p.stmt(*slot, s)
	if err != nil {
		return err
	}
	*slot = repl
	return nil
}

func (p *Pass) rewriteExpr(slot *ast.Expr, s *scope.Scope) error {
	repl, err := p.expr(*slot, s)
	if err != nil {
		return err
	}
	*slot = repl
	return nil
}

func (p *Pass) exprs(list []ast.Expr, s *scope.Scope) error {
	for i := range list {
		if list[i] == nil {
			continue
		}
		if err := p.rewriteExpr(&list[i], s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) block(b *ast.BlockStmt, s *scope.Scope) error {
	if b == nil {
		return nil
	}
	return p.stmts(b.List, p.scopeOf(b, s))
}

func (p *Pass) stmt(st ast.Stmt, s *scope.Scope) (ast.Stmt, error) {
	var err error
	switch n := st.(type) {
	case *ast.LabeledStmt:
		return p.labeled(n, s)

	case *ast.VarDecl:
		err = p.varDecl(n, s)

	case *ast.FuncDecl:
		err = p.function(n.Func, s)

	case *ast.ExprStmt:
		err = p.rewriteExpr(&n.X, s)

	case *ast.BlockStmt:
		err = p.block(n, s)

	case *ast.ReturnStmt:
		if n.Result != nil {
			err = p.rewriteExpr(&n.Result, s)
		}

	case *ast.IfStmt:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.Cond, s) },
			func() error { return p.rewriteStmt(&n.Then, s) },
			func() error {
				if n.Else == nil {
					return nil
				}
				return p.rewriteStmt(&n.Else, s)
			},
		)

	case *ast.ForStmt:
		inner := p.scopeOf(n, s)
		err = firstErr(
			func() error {
				switch init := n.Init.(type) {
				case *ast.VarDecl:
					return p.varDecl(init, inner)
				case ast.Expr:
					repl, err := p.expr(init, inner)
					n.Init = repl
					return err
				}
				return nil
			},
			func() error { return p.optExpr(&n.Cond, inner) },
			func() error { return p.optExpr(&n.Post, inner) },
			func() error { return p.rewriteStmt(&n.Body, inner) },
		)

	case *ast.ForInStmt:
		inner := p.scopeOf(n, s)
		err = firstErr(
			func() error {
				switch left := n.Left.(type) {
				case *ast.VarDecl:
					return p.varDecl(left, inner)
				case ast.Expr:
					return p.pattern(left, inner)
				}
				return nil
			},
			func() error { return p.rewriteExpr(&n.Right, inner) },
			func() error { return p.rewriteStmt(&n.Body, inner) },
		)

	case *ast.WhileStmt:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.Cond, s) },
			func() error { return p.rewriteStmt(&n.Body, s) },
		)

	case *ast.DoWhileStmt:
		err = firstErr(
			func() error { return p.rewriteStmt(&n.Body, s) },
			func() error { return p.rewriteExpr(&n.Cond, s) },
		)

	case *ast.ThrowStmt:
		err = p.rewriteExpr(&n.X, s)

	case *ast.TryStmt:
		err = firstErr(
			func() error { return p.block(n.Block, s) },
			func() error {
				if n.Handler == nil {
					return nil
				}
				inner := p.scopeOf(n.Handler, s)
				if n.Handler.Param != nil {
					if err := p.pattern(n.Handler.Param, inner); err != nil {
						return err
					}
				}
				return p.stmts(n.Handler.Body.List, inner)
			},
			func() error { return p.block(n.Finalizer, s) },
		)

	case *ast.SwitchStmt:
		if err = p.rewriteExpr(&n.Disc, s); err != nil {
			break
		}
		inner := p.scopeOf(n, s)
		for _, c := range n.Cases {
			if err = p.optExpr(&c.Test, inner); err != nil {
				break
			}
			if err = p.stmts(c.Body, inner); err != nil {
				break
			}
		}

	case *ast.ExportDecl:
		if n.Decl != nil {
			err = p.rewriteStmt(&n.Decl, s)
		} else if n.Value != nil {
			err = p.rewriteExpr(&n.Value, s)
		}
	}
	return st, err
}

func (p *Pass) optExpr(slot *ast.Expr, s *scope.Scope) error {
	if *slot == nil {
		return nil
	}
	return p.rewriteExpr(slot, s)
}

func firstErr(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) varDecl(n *ast.VarDecl, s *scope.Scope) error {
	for _, d := range n.Decls {
		if err := p.pattern(d.Target, s); err != nil {
			return err
		}
		if d.Init != nil {
			if err := p.rewriteExpr(&d.Init, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// pattern visits the default values and computed keys of a binding or
// assignment pattern. The bound names themselves are never rewritten.
func (p *Pass) pattern(e ast.Expr, s *scope.Scope) error {
	switch n := e.(type) {
	case *ast.ArrayPattern:
		for _, el := range n.Elems {
			if el != nil {
				if err := p.pattern(el, s); err != nil {
					return err
				}
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range n.Props {
			switch prop := prop.(type) {
			case *ast.Property:
				if prop.Computed {
					if err := p.rewriteExpr(&prop.Key, s); err != nil {
						return err
					}
				}
				if err := p.pattern(prop.Value, s); err != nil {
					return err
				}
			case *ast.RestElem:
				if err := p.pattern(prop.X, s); err != nil {
					return err
				}
			}
		}
	case *ast.AssignPattern:
		if err := p.pattern(n.Left, s); err != nil {
			return err
		}
		return p.rewriteExpr(&n.Right, s)
	case *ast.RestElem:
		return p.pattern(n.X, s)
	case *ast.MemberExpr:
		return p.member(n, s)
	}
	return nil
}

func (p *Pass) function(fn *ast.Function, s *scope.Scope) error {
	inner := p.scopeOf(fn, s)
	for _, param := range fn.Params {
		if err := p.pattern(param, inner); err != nil {
			return err
		}
	}
	if fn.Body == nil {
		return nil
	}
	return p.stmts(fn.Body.List, inner)
}

func (p *Pass) arrow(n *ast.ArrowFunc, s *scope.Scope) error {
	inner := p.scopeOf(n, s)
	for _, param := range n.Params {
		if err := p.pattern(param, inner); err != nil {
			return err
		}
	}
	return p.funcBody(n, inner)
}

// funcBody visits an arrow body in the arrow's scope.
func (p *Pass) funcBody(n *ast.ArrowFunc, inner *scope.Scope) error {
	switch body := n.Body.(type) {
	case *ast.BlockStmt:
		return p.stmts(body.List, inner)
	case ast.Expr:
		repl, err := p.expr(body, inner)
		if err != nil {
			return err
		}
		n.Body = repl
	}
	return nil
}

// member visits the object and computed property of a member expression.
func (p *Pass) member(n *ast.MemberExpr, s *scope.Scope) error {
	if err := p.rewriteExpr(&n.X, s); err != nil {
		return err
	}
	if n.Computed {
		return p.rewriteExpr(&n.Prop, s)
	}
	return nil
}

func (p *Pass) expr(e ast.Expr, s *scope.Scope) (ast.Expr, error) {
	var err error
	switch n := e.(type) {
	case nil:
		return nil, nil

	case *ast.AssignExpr:
		repl, ok, rerr := p.mutateAssign(n, s)
		if ok || rerr != nil {
			return repl, rerr
		}
		err = firstErr(
			func() error { return p.pattern(n.Left, s) },
			func() error { return p.rewriteExpr(&n.Right, s) },
		)

	case *ast.UpdateExpr:
		repl, ok, rerr := p.mutateUpdate(n, s)
		if ok || rerr != nil {
			return repl, rerr
		}
		if m, isMember := n.X.(*ast.MemberExpr); isMember {
			err = p.member(m, s)
		}

	case *ast.ArrowFunc:
		err = p.arrow(n, s)

	case *ast.FuncExpr:
		err = p.function(n.Func, s)

	case *ast.TemplateLit:
		err = firstErr(
			func() error { return p.optExpr(&n.Tag, s) },
			func() error { return p.exprs(n.Exprs, s) },
		)

	case *ast.ArrayLit:
		err = p.exprs(n.Elems, s)

	case *ast.ObjectLit:
		for _, prop := range n.Props {
			switch prop := prop.(type) {
			case *ast.Property:
				if prop.Computed {
					if err = p.rewriteExpr(&prop.Key, s); err != nil {
						return e, err
					}
				}
				if err = p.rewriteExpr(&prop.Value, s); err != nil {
					return e, err
				}
			case *ast.SpreadElem:
				if err = p.rewriteExpr(&prop.X, s); err != nil {
					return e, err
				}
			}
		}

	case *ast.SpreadElem:
		err = p.rewriteExpr(&n.X, s)

	case *ast.UnaryExpr:
		err = p.rewriteExpr(&n.X, s)

	case *ast.BinaryExpr:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.X, s) },
			func() error { return p.rewriteExpr(&n.Y, s) },
		)

	case *ast.CondExpr:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.Cond, s) },
			func() error { return p.rewriteExpr(&n.Then, s) },
			func() error { return p.rewriteExpr(&n.Else, s) },
		)

	case *ast.CallExpr:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.Callee, s) },
			func() error { return p.exprs(n.Args, s) },
		)

	case *ast.NewExpr:
		err = firstErr(
			func() error { return p.rewriteExpr(&n.Callee, s) },
			func() error { return p.exprs(n.Args, s) },
		)

	case *ast.MemberExpr:
		err = p.member(n, s)

	case *ast.SeqExpr:
		err = p.exprs(n.List, s)

	case *ast.AwaitExpr:
		err = p.rewriteExpr(&n.X, s)

	case *ast.YieldExpr:
		err = p.optExpr(&n.X, s)

	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignPattern, *ast.RestElem:
		err = p.pattern(n, s)
	}
	return e, err
}
