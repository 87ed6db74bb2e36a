package sugar

import (
	"log/slog"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// state rewrites `ref: count = init` to
//
//	const [count, _setCount] = React.useState(init);
//
// and registers count so later mutations reaching it call the modifier.
func (p *Pass) state(n *ast.LabeledStmt, s *scope.Scope) (ast.Stmt, error) {
	label := n.Label.Name
	es, ok := n.Body.(*ast.ExprStmt)
	if !ok {
		return nil, newError(n.Body.GetSpan().Start, label, ErrStateNotExpression)
	}
	assign, ok := es.X.(*ast.AssignExpr)
	if !ok || assign.Op != token.ASSIGN {
		return nil, newError(es.X.GetSpan().Start, label, ErrStateNotAssignment)
	}
	target, ok := assign.Left.(*ast.Ident)
	if !ok {
		return nil, newError(assign.Left.GetSpan().Start, label, ErrStateTargetNotIdent)
	}

	modifier := p.alloc.allocate(target.Name, s, n.Span)
	id := ast.NewIdent(target.Name, target.Span)
	p.registry.Add(&Binding{Identify: id, Modifier: modifier, Scope: s})
	s.Declare(target.Name, scope.KindReactive, id)

	pattern := &ast.ArrayPattern{
		NodeInfo: ast.NodeInfo{Span: target.Span},
		Elems:    []ast.Expr{id, ast.NewIdent(modifier.Name, target.Span)},
	}
	init := assign.Right
	if err := p.rewriteExpr(&init, s); err != nil {
		return nil, err
	}
	call := ast.NewCall(ast.MemberPath(p.opts.StateFactory, n.Span), []ast.Expr{init}, assign.Span)
	decl := ast.NewConst(pattern, call, n.Span)
	decl.NodeInfo = n.NodeInfo

	p.logger.Debug("state declared",
		slog.String("name", target.Name),
		slog.String("modifier", modifier.Name),
		slog.String("pos", n.Pos().String()))
	return decl, nil
}
