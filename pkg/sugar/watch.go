package sugar

import (
	"log/slog"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// watch rewrites a watch label. The parameters of the function become the
// dependency list and the function itself loses them:
//
//	watch: (a, b) => log(a, b)       ->  React.useEffect(() => log(a, b), [a, b]);
//	watch: sum = (a, b) => a + b     ->  const sum = React.useMemo(() => a + b, [a, b]);
func (p *Pass) watch(n *ast.LabeledStmt, s *scope.Scope) (ast.Stmt, error) {
	label := n.Label.Name
	es, ok := n.Body.(*ast.ExprStmt)
	if !ok {
		return nil, newError(n.Body.GetSpan().Start, label, ErrWatchShape)
	}
	if assign, ok := es.X.(*ast.AssignExpr); ok {
		return p.memo(n, assign, s)
	}
	fn := es.X
	if _, _, ok := ast.IsAnonymousFunc(fn); !ok || suspends(fn) {
		return nil, newError(fn.GetSpan().Start, label, ErrWatchShape)
	}

	wrapper, deps, err := p.watcher(label, fn, s)
	if err != nil {
		return nil, err
	}
	call := ast.NewCall(ast.MemberPath(p.opts.EffectFactory, n.Span), []ast.Expr{wrapper, deps}, es.Span)
	p.result.Effects++
	p.logger.Debug("effect declared",
		slog.Int("deps", len(deps.Elems)),
		slog.String("pos", n.Pos().String()))
	return &ast.ExprStmt{NodeInfo: n.NodeInfo, X: call}, nil
}

func (p *Pass) memo(n *ast.LabeledStmt, assign *ast.AssignExpr, s *scope.Scope) (ast.Stmt, error) {
	label := n.Label.Name
	if assign.Op != token.ASSIGN {
		return nil, newError(assign.Span.Start, label, ErrWatchShape)
	}
	if suspends(assign.Right) {
		return nil, newError(assign.Right.GetSpan().Start, label, ErrWatchShape)
	}
	if _, _, ok := ast.IsAnonymousFunc(assign.Right); !ok {
		return nil, newError(assign.Right.GetSpan().Start, label, ErrWatchRightNotFunc)
	}
	target, ok := assign.Left.(*ast.Ident)
	if !ok {
		return nil, newError(assign.Left.GetSpan().Start, label, ErrWatchLeftNotIdent)
	}

	wrapper, deps, err := p.watcher(label, assign.Right, s)
	if err != nil {
		return nil, err
	}
	id := ast.NewIdent(target.Name, target.Span)
	s.Declare(target.Name, scope.KindConst, id)

	call := ast.NewCall(ast.MemberPath(p.opts.MemoFactory, n.Span), []ast.Expr{wrapper, deps}, assign.Span)
	decl := ast.NewConst(id, call, n.Span)
	decl.NodeInfo = n.NodeInfo
	p.result.Memos++
	p.logger.Debug("memo declared",
		slog.String("name", target.Name),
		slog.Int("deps", len(deps.Elems)),
		slog.String("pos", n.Pos().String()))
	return decl, nil
}

// suspends reports whether e is an async or generator function. Its body
// may use await or yield, which the plain wrapper arrow cannot hold.
func suspends(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.ArrowFunc:
		return n.Async
	case *ast.FuncExpr:
		return n.Func.Async || n.Func.Generator
	}
	return false
}

// watcher turns fn into a parameterless arrow and returns it with the
// dependency array built from the parameters. The arrow takes over the
// scope fn opened, minus the parameters, and its body is visited there.
func (p *Pass) watcher(label string, fn ast.Expr, s *scope.Scope) (*ast.ArrowFunc, *ast.ArrayLit, error) {
	params, body, _ := ast.IsAnonymousFunc(fn)
	elems := make([]ast.Expr, 0, len(params))
	for _, param := range params {
		id, ok := param.(*ast.Ident)
		if !ok {
			return nil, nil, newError(param.GetSpan().Start, label, ErrWatchDeps)
		}
		elems = append(elems, ast.NewIdent(id.Name, id.Span))
	}

	span := fn.GetSpan()
	wrapper := ast.NewArrow(nil, body, span)
	var old ast.Node = fn
	if f, ok := fn.(*ast.FuncExpr); ok {
		old = f.Func
	}
	if inner := p.info.Rebind(old, wrapper); inner != nil {
		inner.RemoveKind(scope.KindParam)
	}
	if err := p.arrow(wrapper, s); err != nil {
		return nil, nil, err
	}
	return wrapper, ast.NewArray(elems, span), nil
}
