package format

import "github.com/leapstack-labs/labelsugar/pkg/ast"

// Format prints a program with the comments attached to its statements.
func Format(prog *ast.Program) string {
	p := newPrinter(true)
	p.formatStmtList(prog.Body)
	return p.String()
}

// WithoutComments prints a program dropping every comment.
func WithoutComments(prog *ast.Program) string {
	p := newPrinter(false)
	p.formatStmtList(prog.Body)
	return p.String()
}

// Stmt prints a single statement without a trailing newline.
func Stmt(s ast.Stmt) string {
	p := newPrinter(false)
	p.formatStmt(s)
	return p.output.String()
}

// Expr prints a single expression.
func Expr(e ast.Expr) string {
	p := newPrinter(false)
	p.formatExpr(e, ast.PrecLowest)
	return p.output.String()
}
