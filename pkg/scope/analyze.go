package scope

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Analyze builds the scope table for prog.
func Analyze(prog *ast.Program) *Info {
	info := newInfo()
	root := newScope(ProgramScope, prog, nil, info)
	info.Root = root
	info.scopes[prog] = root

	a := &analyzer{info: info}
	a.stmts(prog.Body, root)
	return info
}

type analyzer struct {
	info *Info
}

// enter opens a scope for node nested in parent.
func (a *analyzer) enter(kind Kind, node ast.Node, parent *Scope) *Scope {
	s := parent.Child(kind, node)
	a.info.scopes[node] = s
	return s
}

func (a *analyzer) ref(name string) {
	if name != "" {
		a.info.references[name] = true
	}
}

func (a *analyzer) stmts(list []ast.Stmt, s *Scope) {
	for _, st := range list {
		a.stmt(st, s)
	}
}

func (a *analyzer) stmt(st ast.Stmt, s *Scope) {
	switch n := st.(type) {
	case *ast.VarDecl:
		a.varDecl(n, s)

	case *ast.FuncDecl:
		if n.Func.Name != nil {
			s.Declare(n.Func.Name.Name, KindFunction, n.Func.Name)
		}
		a.function(n.Func, s, false)

	case *ast.ExprStmt:
		a.expr(n.X, s)

	case *ast.BlockStmt:
		child := a.enter(BlockScope, n, s)
		a.stmts(n.List, child)

	case *ast.LabeledStmt:
		a.info.labels[n.Label.Name] = true
		a.stmt(n.Body, s)

	case *ast.ReturnStmt:
		a.expr(n.Result, s)

	case *ast.IfStmt:
		a.expr(n.Cond, s)
		a.stmt(n.Then, s)
		a.stmt(n.Else, s)

	case *ast.ForStmt:
		child := a.enter(ForScope, n, s)
		switch init := n.Init.(type) {
		case *ast.VarDecl:
			a.varDecl(init, child)
		case ast.Expr:
			a.expr(init, child)
		}
		a.expr(n.Cond, child)
		a.expr(n.Post, child)
		a.stmt(n.Body, child)

	case *ast.ForInStmt:
		child := a.enter(ForScope, n, s)
		switch left := n.Left.(type) {
		case *ast.VarDecl:
			a.varDecl(left, child)
		case ast.Expr:
			a.target(left, child)
		}
		a.expr(n.Right, child)
		a.stmt(n.Body, child)

	case *ast.WhileStmt:
		a.expr(n.Cond, s)
		a.stmt(n.Body, s)

	case *ast.DoWhileStmt:
		a.stmt(n.Body, s)
		a.expr(n.Cond, s)

	case *ast.ThrowStmt:
		a.expr(n.X, s)

	case *ast.TryStmt:
		a.stmt(n.Block, s)
		if h := n.Handler; h != nil {
			child := a.enter(CatchScope, h, s)
			if h.Param != nil {
				a.declare(h.Param, KindCatch, child, child)
			}
			a.info.scopes[h.Body] = child
			a.stmts(h.Body.List, child)
		}
		if n.Finalizer != nil {
			a.stmt(n.Finalizer, s)
		}

	case *ast.SwitchStmt:
		a.expr(n.Disc, s)
		child := a.enter(BlockScope, n, s)
		for _, c := range n.Cases {
			a.expr(c.Test, child)
			a.stmts(c.Body, child)
		}

	case *ast.ImportDecl:
		root := s.FunctionScope()
		for _, spec := range n.Specs {
			root.Declare(spec.Local.Name, KindImport, spec.Local)
		}

	case *ast.ExportDecl:
		if n.Decl != nil {
			a.stmt(n.Decl, s)
		}
		a.expr(n.Value, s)
		if n.Source == nil {
			for _, spec := range n.Specs {
				a.ref(spec.Local.Name)
			}
		}
	}
}

func (a *analyzer) varDecl(n *ast.VarDecl, s *Scope) {
	declScope := s
	kind := KindLet
	switch n.Kind {
	case token.VAR:
		declScope = s.FunctionScope()
		kind = KindVar
	case token.CONST:
		kind = KindConst
	}
	for _, d := range n.Decls {
		a.declare(d.Target, kind, declScope, s)
		a.expr(d.Init, s)
	}
}

// declare binds every identifier of a binding pattern in declScope.
// Default values and computed keys are evaluated in evalScope.
func (a *analyzer) declare(pattern ast.Expr, kind BindingKind, declScope, evalScope *Scope) {
	switch n := pattern.(type) {
	case *ast.Ident:
		declScope.Declare(n.Name, kind, n)
	case *ast.ArrayPattern:
		for _, el := range n.Elems {
			if el != nil {
				a.declare(el, kind, declScope, evalScope)
			}
		}
	case *ast.ObjectPattern:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *ast.Property:
				if p.Computed {
					a.expr(p.Key, evalScope)
				}
				a.declare(p.Value, kind, declScope, evalScope)
			case *ast.RestElem:
				a.declare(p.X, kind, declScope, evalScope)
			}
		}
	case *ast.AssignPattern:
		a.declare(n.Left, kind, declScope, evalScope)
		a.expr(n.Right, evalScope)
	case *ast.RestElem:
		a.declare(n.X, kind, declScope, evalScope)
	}
}

// function opens the scope of fn. Named function expressions see their own
// name inside.
func (a *analyzer) function(fn *ast.Function, s *Scope, isExpr bool) {
	child := a.enter(FunctionScope, fn, s)
	if isExpr && fn.Name != nil {
		child.Declare(fn.Name.Name, KindLocal, fn.Name)
	}
	for _, p := range fn.Params {
		a.declare(p, KindParam, child, child)
	}
	if fn.Body != nil {
		a.info.scopes[fn.Body] = child
		a.stmts(fn.Body.List, child)
	}
}

func (a *analyzer) arrow(n *ast.ArrowFunc, s *Scope) {
	child := a.enter(FunctionScope, n, s)
	for _, p := range n.Params {
		a.declare(p, KindParam, child, child)
	}
	switch body := n.Body.(type) {
	case *ast.BlockStmt:
		a.info.scopes[body] = child
		a.stmts(body.List, child)
	case ast.Expr:
		a.expr(body, child)
	}
}

// target records the names written by an assignment target.
func (a *analyzer) target(e ast.Expr, s *Scope) {
	switch n := e.(type) {
	case *ast.Ident:
		a.ref(n.Name)
	case *ast.ArrayPattern:
		for _, el := range n.Elems {
			if el != nil {
				a.target(el, s)
			}
		}
	case *ast.ObjectPattern:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *ast.Property:
				if p.Computed {
					a.expr(p.Key, s)
				}
				a.target(p.Value, s)
			case *ast.RestElem:
				a.target(p.X, s)
			}
		}
	case *ast.AssignPattern:
		a.target(n.Left, s)
		a.expr(n.Right, s)
	case *ast.RestElem:
		a.target(n.X, s)
	default:
		a.expr(e, s)
	}
}

func (a *analyzer) exprs(list []ast.Expr, s *Scope) {
	for _, e := range list {
		a.expr(e, s)
	}
}

func (a *analyzer) expr(e ast.Expr, s *Scope) {
	switch n := e.(type) {
	case nil:
	case *ast.Ident:
		a.ref(n.Name)
	case *ast.TemplateLit:
		a.expr(n.Tag, s)
		a.exprs(n.Exprs, s)
	case *ast.ArrayLit:
		a.exprs(n.Elems, s)
	case *ast.ObjectLit:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *ast.Property:
				if p.Computed {
					a.expr(p.Key, s)
				}
				a.expr(p.Value, s)
			case *ast.SpreadElem:
				a.expr(p.X, s)
			}
		}
	case *ast.SpreadElem:
		a.expr(n.X, s)
	case *ast.FuncExpr:
		a.function(n.Func, s, true)
	case *ast.ArrowFunc:
		a.arrow(n, s)
	case *ast.UnaryExpr:
		a.expr(n.X, s)
	case *ast.UpdateExpr:
		a.target(n.X, s)
	case *ast.BinaryExpr:
		a.expr(n.X, s)
		a.expr(n.Y, s)
	case *ast.AssignExpr:
		a.target(n.Left, s)
		a.expr(n.Right, s)
	case *ast.CondExpr:
		a.expr(n.Cond, s)
		a.expr(n.Then, s)
		a.expr(n.Else, s)
	case *ast.CallExpr:
		a.expr(n.Callee, s)
		a.exprs(n.Args, s)
	case *ast.NewExpr:
		a.expr(n.Callee, s)
		a.exprs(n.Args, s)
	case *ast.MemberExpr:
		a.expr(n.X, s)
		if n.Computed {
			a.expr(n.Prop, s)
		}
	case *ast.SeqExpr:
		a.exprs(n.List, s)
	case *ast.AwaitExpr:
		a.expr(n.X, s)
	case *ast.YieldExpr:
		a.expr(n.X, s)
	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignPattern, *ast.RestElem:
		a.target(n, s)
	}
}
