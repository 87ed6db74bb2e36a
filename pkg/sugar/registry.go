package sugar

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
)

// Binding is a reactive name declared by a state label.
type Binding struct {
	// Identify is the declared name.
	Identify *ast.Ident
	// Modifier is the allocated setter called by rewritten mutations.
	Modifier *ast.Ident
	// Scope is the scope the label statement appears in.
	Scope *scope.Scope
}

// Name returns the declared name.
func (b *Binding) Name() string {
	return b.Identify.Name
}

// Registry holds the bindings declared during one pass, in declaration
// order. It only grows.
type Registry struct {
	bindings []*Binding
}

// Add registers b.
func (r *Registry) Add(b *Binding) {
	r.bindings = append(r.bindings, b)
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Bindings returns the registered bindings in declaration order.
func (r *Registry) Bindings() []*Binding {
	out := make([]*Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Lookup returns the binding of name declared in the scope nearest to use
// among use and its ancestors. When one scope declares name more than once
// the latest declaration wins. Whether the binding is actually visible from
// use is decided by resolves.
func (r *Registry) Lookup(name string, use *scope.Scope) *Binding {
	var best *Binding
	bestDepth := -1
	for _, b := range r.bindings {
		if b.Name() != name || !b.Scope.Encloses(use) {
			continue
		}
		if d := b.Scope.Depth(); d >= bestDepth {
			best, bestDepth = b, d
		}
	}
	return best
}
