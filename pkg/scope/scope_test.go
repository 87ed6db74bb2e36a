package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/parser"
)

func analyze(t *testing.T, src string) (*ast.Program, *Info) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return prog, Analyze(prog)
}

func TestProgramBindings(t *testing.T) {
	_, info := analyze(t, `
import React, { useState as use } from "react";
import * as lib from "./lib";
const a = 1;
let [b, { c, d: e = f }] = g;
function h(x) {}
`)

	root := info.Root
	assert.Equal(t, ProgramScope, root.Kind)
	assert.Equal(t, []string{"React", "a", "b", "c", "e", "h", "lib", "use"}, root.Names())
	assert.Equal(t, KindImport, root.Own("use").Kind)
	assert.Equal(t, KindConst, root.Own("a").Kind)
	assert.Equal(t, KindLet, root.Own("e").Kind)
	assert.Equal(t, KindFunction, root.Own("h").Kind)
	assert.Nil(t, root.Own("x"))

	assert.True(t, info.HasReference("f"))
	assert.True(t, info.HasReference("g"))
	assert.False(t, info.HasReference("d"), "object pattern keys are not references")
	assert.True(t, info.IsDeclared("x"))
}

func TestVarHoisting(t *testing.T) {
	prog, info := analyze(t, `
function f() {
  if (ok) {
    var hoisted = 1;
    let scoped = 2;
  }
  for (var i = 0; i < 3; i++) {}
  for (const item of items) {}
}
`)

	fn := prog.Body[0].(*ast.FuncDecl).Func
	fnScope := info.Scope(fn)
	require.NotNil(t, fnScope)
	assert.Equal(t, FunctionScope, fnScope.Kind)
	assert.Same(t, fnScope, info.Scope(fn.Body), "function body shares the function scope")
	assert.Equal(t, []string{"hoisted", "i"}, fnScope.Names())

	ifStmt := fn.Body.List[0].(*ast.IfStmt)
	block := info.Scope(ifStmt.Then)
	require.NotNil(t, block)
	assert.Equal(t, BlockScope, block.Kind)
	assert.Equal(t, []string{"scoped"}, block.Names())
	assert.Same(t, fnScope, block.Parent())

	forOf := fn.Body.List[2].(*ast.ForInStmt)
	forScope := info.Scope(forOf)
	require.NotNil(t, forScope)
	assert.Equal(t, ForScope, forScope.Kind)
	assert.Equal(t, []string{"item"}, forScope.Names())
}

func TestFunctionParamsAndLocalName(t *testing.T) {
	prog, info := analyze(t, `
const g = function inner(a, { b }, ...rest) { return inner; };
const k = (x, y = x) => x + y;
try { run(); } catch ({ message }) { log(message); }
`)

	fe := prog.Body[0].(*ast.VarDecl).Decls[0].Init.(*ast.FuncExpr)
	fs := info.Scope(fe.Func)
	require.NotNil(t, fs)
	assert.Equal(t, []string{"a", "b", "inner", "rest"}, fs.Names())
	assert.Equal(t, KindLocal, fs.Own("inner").Kind)
	assert.Equal(t, KindParam, fs.Own("rest").Kind)
	assert.Nil(t, info.Root.Own("inner"), "function expression name is not visible outside")

	arrow := prog.Body[1].(*ast.VarDecl).Decls[0].Init.(*ast.ArrowFunc)
	as := info.Scope(arrow)
	require.NotNil(t, as)
	assert.Equal(t, []string{"x", "y"}, as.Names())

	try := prog.Body[2].(*ast.TryStmt)
	cs := info.Scope(try.Handler)
	require.NotNil(t, cs)
	assert.Equal(t, CatchScope, cs.Kind)
	assert.Same(t, cs, info.Scope(try.Handler.Body))
	assert.Equal(t, KindCatch, cs.Own("message").Kind)
}

func TestLookupAndEncloses(t *testing.T) {
	prog, info := analyze(t, `
let count = 0;
function App() {
  const count = 1;
  return () => count;
}
`)

	fn := prog.Body[1].(*ast.FuncDecl).Func
	fnScope := info.Scope(fn)
	arrow := fn.Body.List[1].(*ast.ReturnStmt).Result.(*ast.ArrowFunc)
	arrowScope := info.Scope(arrow)

	b := arrowScope.Lookup("count")
	require.NotNil(t, b)
	assert.Same(t, fnScope, b.Scope)
	assert.Equal(t, KindConst, b.Kind)

	assert.True(t, info.Root.Encloses(arrowScope))
	assert.True(t, fnScope.Encloses(fnScope))
	assert.False(t, arrowScope.Encloses(fnScope))
	assert.Equal(t, 2, arrowScope.Depth())
	assert.Same(t, arrowScope, arrowScope.FunctionScope())
	assert.Same(t, info.Root, info.Root.FunctionScope())
	assert.Nil(t, arrowScope.Lookup("missing"))
}

func TestLabelsAndReferences(t *testing.T) {
	_, info := analyze(t, `
ref: count = 0;
outer: for (;;) { break outer; }
console.log(obj.prop, obj[key]);
`)

	assert.True(t, info.HasLabel("ref"))
	assert.True(t, info.HasLabel("outer"))
	assert.False(t, info.HasLabel("count"))

	assert.True(t, info.HasReference("count"))
	assert.True(t, info.HasReference("key"))
	assert.False(t, info.HasReference("prop"))
	assert.False(t, info.HasReference("log"))
	assert.Equal(t, []string{"console", "count", "key", "obj"}, info.References())
}

func TestRebindReparentAndRemove(t *testing.T) {
	prog, info := analyze(t, `f(a => { const b = () => a; });`)

	call := prog.Body[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	arrow := call.Args[0].(*ast.ArrowFunc)
	arrowScope := info.Scope(arrow)
	require.NotNil(t, arrowScope)

	replacement := &ast.ArrowFunc{Body: arrow.Body}
	assert.Same(t, arrowScope, info.Rebind(arrow, replacement))
	assert.Nil(t, info.Scope(arrow))
	assert.Same(t, arrowScope, info.Scope(replacement))
	assert.Same(t, replacement, arrowScope.Node)

	arrowScope.RemoveKind(KindParam)
	assert.Nil(t, arrowScope.Own("a"))
	assert.NotNil(t, arrowScope.Own("b"))

	synthetic := info.Root.Child(FunctionScope, nil)
	info.Reparent(call, info.Root, synthetic)
	assert.Same(t, synthetic, arrowScope.Parent())

	arrowScope.Remove("b")
	assert.Empty(t, arrowScope.Names())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "function", FunctionScope.String())
	assert.Equal(t, "reactive", KindReactive.String())
	assert.True(t, KindParam.Ordinary())
	assert.False(t, KindGenerated.Ordinary())
	assert.Equal(t, "BindingKind(99)", BindingKind(99).String())
}
