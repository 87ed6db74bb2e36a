package sugar

import (
	"log/slog"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Mutations of a reactive name become modifier calls taking an update
// function:
//
//	count = 1    ->  _setCount(count => 1)
//	count += 2   ->  _setCount(count => count + 2)
//	count++      ->  _setCount(count => count + 1)
//
// Unless member expressions are ignored, a mutation of a property rooted at
// a reactive name moves into a block-bodied callback:
//
//	obj.a = 1    ->  _setObj(obj => { obj.a = 1; })

// mutateAssign rewrites n when it mutates reactive state. ok is false when
// n is left alone and its children still need visiting.
func (p *Pass) mutateAssign(n *ast.AssignExpr, s *scope.Scope) (repl ast.Expr, ok bool, err error) {
	switch left := n.Left.(type) {
	case *ast.Ident:
		b := p.reactive(left.Name, s)
		if b == nil {
			return n, false, nil
		}
		body := n.Right
		if op, compound := token.BinaryOp(n.Op); compound {
			body = &ast.BinaryExpr{
				NodeInfo: ast.NodeInfo{Span: n.Span},
				X:        ast.NewIdent(left.Name, left.Span),
				Op:       op,
				Y:        n.Right,
			}
		}
		call, err := p.update(b, body, n.Right, s, n.Span)
		return call, true, err

	case *ast.MemberExpr:
		return p.wrapMember(n, left, s)
	}
	return n, false, nil
}

// mutateUpdate is mutateAssign for ++ and --.
func (p *Pass) mutateUpdate(n *ast.UpdateExpr, s *scope.Scope) (repl ast.Expr, ok bool, err error) {
	switch x := n.X.(type) {
	case *ast.Ident:
		b := p.reactive(x.Name, s)
		if b == nil {
			return n, false, nil
		}
		op := token.PLUS
		if n.Op == token.DEC {
			op = token.MINUS
		}
		body := &ast.BinaryExpr{
			NodeInfo: ast.NodeInfo{Span: n.Span},
			X:        ast.NewIdent(x.Name, x.Span),
			Op:       op,
			Y:        ast.NewNumber("1", n.Span),
		}
		call, err := p.update(b, body, nil, s, n.Span)
		return call, true, err

	case *ast.MemberExpr:
		return p.wrapMember(n, x, s)
	}
	return n, false, nil
}

// reactive returns the binding a use of name in s refers to, or nil.
func (p *Pass) reactive(name string, s *scope.Scope) *Binding {
	b := p.registry.Lookup(name, s)
	if b == nil || !resolves(s, b) {
		return nil
	}
	return b
}

// update builds modifier(name => body). moved is the part of body taken
// from the source tree; its scopes are moved under the callback and it is
// visited there.
func (p *Pass) update(b *Binding, body, moved ast.Expr, s *scope.Scope, span token.Span) (ast.Expr, error) {
	param := ast.NewIdent(b.Name(), span)
	arrow := ast.NewArrow([]ast.Expr{param}, body, span)
	cb := p.callbackScope(arrow, param, s)

	if moved != nil {
		p.info.Reparent(moved, s, cb)
		if err := p.funcBody(arrow, cb); err != nil {
			return nil, err
		}
	}

	p.result.Mutations++
	p.logger.Debug("mutation rewritten",
		slog.String("name", b.Name()),
		slog.String("modifier", b.Modifier.Name),
		slog.String("pos", span.Start.String()))
	return ast.NewCall(ast.NewIdent(b.Modifier.Name, span), []ast.Expr{arrow}, span), nil
}

// wrapMember moves orig, a mutation of m, into a modifier callback when m
// is rooted at reactive state.
func (p *Pass) wrapMember(orig ast.Expr, m *ast.MemberExpr, s *scope.Scope) (repl ast.Expr, ok bool, err error) {
	// A wrapped statement is visited again inside its callback, where the
	// root already resolves to the callback parameter. wrapped only guards
	// against wrapping the same target twice if that ever changes.
	if p.opts.IgnoreMemberExpr || p.wrapped[m] {
		return orig, false, nil
	}
	root := ast.RootIdent(m)
	if root == nil {
		return orig, false, nil
	}
	b := p.reactive(root.Name, s)
	if b == nil {
		return orig, false, nil
	}
	p.wrapped[m] = true

	span := orig.GetSpan()
	block := &ast.BlockStmt{
		NodeInfo: ast.NodeInfo{Span: span},
		List:     []ast.Stmt{&ast.ExprStmt{NodeInfo: ast.NodeInfo{Span: span}, X: orig}},
	}
	param := ast.NewIdent(root.Name, root.Span)
	arrow := ast.NewArrow([]ast.Expr{param}, block, span)
	cb := p.callbackScope(arrow, param, s)
	p.info.Bind(block, cb)
	p.info.Reparent(orig, s, cb)
	if err := p.stmts(block.List, cb); err != nil {
		return nil, true, err
	}

	p.result.Wrapped++
	p.logger.Debug("property mutation wrapped",
		slog.String("name", b.Name()),
		slog.String("modifier", b.Modifier.Name),
		slog.String("pos", span.Start.String()))
	return ast.NewCall(ast.NewIdent(b.Modifier.Name, span), []ast.Expr{arrow}, span), true, nil
}

// callbackScope opens the function scope of a synthesized callback whose
// single parameter shadows the reactive name.
func (p *Pass) callbackScope(arrow *ast.ArrowFunc, param *ast.Ident, s *scope.Scope) *scope.Scope {
	cb := s.Child(scope.FunctionScope, arrow)
	cb.Declare(param.Name, scope.KindParam, param)
	p.info.Bind(arrow, cb)
	return cb
}
