// Package scope builds the lexical scope table of a parsed program: the
// scopes each node opens, the names each scope declares, and the names and
// labels used anywhere in the program.
//
// The table mirrors the scoping rules of the language: var declarations hoist
// to the nearest function (or the program), let/const/function stay in their
// block, parameters live in the function scope and a function body shares
// that scope.
package scope

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
)

// Kind identifies what opened a scope.
type Kind int

// Scope kinds.
const (
	ProgramScope Kind = iota
	FunctionScope
	BlockScope
	CatchScope
	ForScope
)

func (k Kind) String() string {
	switch k {
	case ProgramScope:
		return "program"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	case CatchScope:
		return "catch"
	case ForScope:
		return "for"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BindingKind classifies a declared name.
type BindingKind int

// Binding kinds.
const (
	KindVar BindingKind = iota
	KindLet
	KindConst
	KindParam
	KindFunction
	KindImport
	KindCatch
	KindLocal     // name of a named function expression, visible inside it
	KindReactive  // state name declared by a rewritten state label
	KindGenerated // identifier allocated by a rewrite
)

var bindingKindNames = map[BindingKind]string{
	KindVar:       "var",
	KindLet:       "let",
	KindConst:     "const",
	KindParam:     "param",
	KindFunction:  "function",
	KindImport:    "import",
	KindCatch:     "catch",
	KindLocal:     "local",
	KindReactive:  "reactive",
	KindGenerated: "generated",
}

func (k BindingKind) String() string {
	if name, ok := bindingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BindingKind(%d)", int(k))
}

// Ordinary returns true for declarations written by the user, as opposed to
// names introduced by the desugaring pass.
func (k BindingKind) Ordinary() bool {
	return k != KindReactive && k != KindGenerated
}

// Binding is a name declared in a scope.
type Binding struct {
	Name  string
	Kind  BindingKind
	Ident *ast.Ident // declaring identifier, nil for synthesized bindings
	Scope *Scope
}

// Scope is one lexical scope.
type Scope struct {
	Kind Kind
	Node ast.Node // node that opened the scope

	parent   *Scope
	bindings map[string]*Binding
	info     *Info
}

func newScope(kind Kind, node ast.Node, parent *Scope, info *Info) *Scope {
	return &Scope{
		Kind:     kind,
		Node:     node,
		parent:   parent,
		bindings: make(map[string]*Binding),
		info:     info,
	}
}

// Parent returns the enclosing scope, nil for the program scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Child creates a nested scope. The child is not registered for any node;
// use Info.Bind for that.
func (s *Scope) Child(kind Kind, node ast.Node) *Scope {
	return newScope(kind, node, s, s.info)
}

// Declare binds name in this scope, replacing an earlier binding of the
// same name.
func (s *Scope) Declare(name string, kind BindingKind, ident *ast.Ident) *Binding {
	b := &Binding{Name: name, Kind: kind, Ident: ident, Scope: s}
	s.bindings[name] = b
	if s.info != nil {
		s.info.declared[name] = true
	}
	return b
}

// Own returns the binding declared directly in this scope, or nil.
func (s *Scope) Own(name string) *Binding {
	return s.bindings[name]
}

// Lookup finds the nearest binding of name, walking up the scope chain.
func (s *Scope) Lookup(name string) *Binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// HasBinding returns true if name is bound in this scope or an ancestor.
func (s *Scope) HasBinding(name string) bool {
	return s.Lookup(name) != nil
}

// Remove deletes the binding of name from this scope.
func (s *Scope) Remove(name string) {
	delete(s.bindings, name)
}

// RemoveKind deletes every binding of the given kind from this scope.
func (s *Scope) RemoveKind(kind BindingKind) {
	for name, b := range s.bindings {
		if b.Kind == kind {
			delete(s.bindings, name)
		}
	}
}

// Names returns the names declared directly in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encloses returns true if s is other or one of its ancestors.
func (s *Scope) Encloses(other *Scope) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == s {
			return true
		}
	}
	return false
}

// FunctionScope returns the nearest function or program scope.
func (s *Scope) FunctionScope() *Scope {
	cur := s
	for cur.parent != nil && cur.Kind != FunctionScope {
		cur = cur.parent
	}
	return cur
}

// Depth returns the number of ancestors of s.
func (s *Scope) Depth() int {
	d := 0
	for cur := s.parent; cur != nil; cur = cur.parent {
		d++
	}
	return d
}

// Info is the scope table of one program.
type Info struct {
	Root *Scope

	scopes     map[ast.Node]*Scope
	references map[string]bool
	labels     map[string]bool
	declared   map[string]bool
}

func newInfo() *Info {
	return &Info{
		scopes:     make(map[ast.Node]*Scope),
		references: make(map[string]bool),
		labels:     make(map[string]bool),
		declared:   make(map[string]bool),
	}
}

// Scope returns the scope opened by node, or nil if node opens none.
// A function body shares the scope of its function.
func (i *Info) Scope(node ast.Node) *Scope {
	return i.scopes[node]
}

// Bind registers s as the scope opened by node.
func (i *Info) Bind(node ast.Node, s *Scope) {
	i.scopes[node] = s
}

// Rebind moves the scope opened by old to replacement, which takes old's
// place in the tree.
func (i *Info) Rebind(old, replacement ast.Node) *Scope {
	s := i.scopes[old]
	if s == nil {
		return nil
	}
	delete(i.scopes, old)
	i.scopes[replacement] = s
	s.Node = replacement
	return s
}

// Reparent makes every outermost scope inside subtree whose parent is from
// a child of to instead. Used when a subtree is moved into a new function.
func (i *Info) Reparent(subtree ast.Node, from, to *Scope) {
	ast.Walk(subtree, func(n ast.Node) bool {
		s := i.scopes[n]
		if s == nil {
			return true
		}
		if s.parent == from {
			s.parent = to
		}
		return false
	})
}

// HasReference returns true if name is used as an identifier anywhere in
// the program, including undeclared globals.
func (i *Info) HasReference(name string) bool {
	return i.references[name]
}

// AddReference records a use of name.
func (i *Info) AddReference(name string) {
	i.references[name] = true
}

// HasLabel returns true if name is used as a statement label anywhere.
func (i *Info) HasLabel(name string) bool {
	return i.labels[name]
}

// IsDeclared returns true if name is declared in any scope of the program.
func (i *Info) IsDeclared(name string) bool {
	return i.declared[name]
}

// References returns every referenced name, sorted.
func (i *Info) References() []string {
	names := make([]string, 0, len(i.references))
	for name := range i.references {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
