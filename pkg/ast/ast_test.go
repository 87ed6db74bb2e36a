package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

func TestMemberPath(t *testing.T) {
	var span token.Span

	id, ok := MemberPath("useImmer", span).(*Ident)
	require.True(t, ok)
	assert.Equal(t, "useImmer", id.Name)

	m, ok := MemberPath("React.useState", span).(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "React", m.X.(*Ident).Name)
	assert.Equal(t, "useState", m.Prop.(*Ident).Name)
	assert.False(t, m.Computed)

	deep, ok := MemberPath("a.b.c", span).(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "c", deep.Prop.(*Ident).Name)
	assert.Equal(t, "a", RootIdent(deep).Name)
}

func TestRootIdent(t *testing.T) {
	obj := &Ident{Name: "obj"}
	chain := &MemberExpr{
		X:        &MemberExpr{X: obj, Prop: &Ident{Name: "list"}},
		Prop:     &Literal{Kind: token.NUMBER, Raw: "0"},
		Computed: true,
	}
	assert.Same(t, obj, RootIdent(chain))

	call := &MemberExpr{X: &CallExpr{Callee: obj}, Prop: &Ident{Name: "x"}}
	assert.Nil(t, RootIdent(call))
	assert.Nil(t, RootIdent(&MemberExpr{X: &ThisExpr{}, Prop: &Ident{Name: "x"}}))
}

func TestIsAnonymousFunc(t *testing.T) {
	arrow := &ArrowFunc{Params: []Expr{&Ident{Name: "a"}}, Body: &Ident{Name: "a"}}
	params, body, ok := IsAnonymousFunc(arrow)
	assert.True(t, ok)
	assert.Len(t, params, 1)
	assert.Equal(t, arrow.Body, body)

	anon := &FuncExpr{Func: &Function{Body: &BlockStmt{}}}
	_, _, ok = IsAnonymousFunc(anon)
	assert.True(t, ok)

	named := &FuncExpr{Func: &Function{Name: &Ident{Name: "f"}, Body: &BlockStmt{}}}
	_, _, ok = IsAnonymousFunc(named)
	assert.False(t, ok)

	_, _, ok = IsAnonymousFunc(&Ident{Name: "f"})
	assert.False(t, ok)
}

func TestWalkOrderAndSkip(t *testing.T) {
	// count = count + 1; function f(a) { return a; }
	prog := &Program{Body: []Stmt{
		&ExprStmt{X: &AssignExpr{
			Left:  &Ident{Name: "count"},
			Op:    token.ASSIGN,
			Right: &BinaryExpr{X: &Ident{Name: "count"}, Op: token.PLUS, Y: &Literal{Kind: token.NUMBER, Raw: "1"}},
		}},
		&FuncDecl{Func: &Function{
			Name:   &Ident{Name: "f"},
			Params: []Expr{&Ident{Name: "a"}},
			Body:   &BlockStmt{List: []Stmt{&ReturnStmt{Result: &Ident{Name: "a"}}}},
		}},
	}}

	var names []string
	Walk(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"count", "count", "f", "a", "a"}, names)

	names = nil
	Walk(prog, func(n Node) bool {
		if _, ok := n.(*Function); ok {
			return false
		}
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"count", "count"}, names)
}

func TestWalkNilChildren(t *testing.T) {
	stmt := &IfStmt{Cond: &Ident{Name: "x"}, Then: &EmptyStmt{}}
	try := &TryStmt{Block: &BlockStmt{}}
	ret := &ReturnStmt{}

	count := 0
	for _, n := range []Node{stmt, try, ret, &BranchStmt{Tok: token.BREAK}} {
		Walk(n, func(Node) bool {
			count++
			return true
		})
	}
	assert.Equal(t, 7, count)
}

func TestPrecedence(t *testing.T) {
	assert.Greater(t, BinaryPrecedence(token.STAR), BinaryPrecedence(token.PLUS))
	assert.Greater(t, BinaryPrecedence(token.LAND), BinaryPrecedence(token.LOR))
	assert.Equal(t, PrecLowest, BinaryPrecedence(token.ASSIGN))
	assert.Equal(t, PrecAssign, Precedence(&ArrowFunc{}))
	assert.Equal(t, PrecPostfix, Precedence(&UpdateExpr{Op: token.INC}))
	assert.Equal(t, PrecPrefix, Precedence(&UpdateExpr{Op: token.INC, Prefix: true}))
	assert.Equal(t, PrecPrimary, Precedence(&Ident{}))
}
