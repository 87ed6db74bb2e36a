package compiler

import "github.com/leapstack-labs/labelsugar/pkg/ast"

// restoreWatchParams gives watch function parameters back the names esbuild
// renamed them from. esbuild renames a parameter that shadows a name used
// further out, such as (count) => next to ref: count = 0, but a watch
// parameter list is the dependency list and must name the outer binding.
// References to a renamed parameter inside the function are restored with
// it; every other rename is left alone.
func restoreWatchParams(prog *ast.Program, label string, renamed map[int]string) {
	if len(renamed) == 0 {
		return
	}
	ast.Walk(prog, func(n ast.Node) bool {
		l, ok := n.(*ast.LabeledStmt)
		if !ok || l.Label.Name != label {
			return true
		}
		es, ok := l.Body.(*ast.ExprStmt)
		if !ok {
			return true
		}
		fn := es.X
		if assign, ok := fn.(*ast.AssignExpr); ok {
			fn = assign.Right
		}
		params, body, ok := ast.IsAnonymousFunc(fn)
		if !ok {
			return true
		}

		names := make(map[string]string)
		for _, param := range params {
			id, ok := param.(*ast.Ident)
			if !ok {
				continue
			}
			if orig, ok := renamed[id.Span.Start.Offset]; ok {
				names[id.Name] = orig
				id.Name = orig
			}
		}
		if len(names) == 0 {
			return true
		}
		ast.Walk(body, func(n ast.Node) bool {
			id, ok := n.(*ast.Ident)
			if !ok {
				return true
			}
			if orig, ok := names[id.Name]; ok && renamed[id.Span.Start.Offset] == orig {
				id.Name = orig
			}
			return true
		})
		return true
	})
}
