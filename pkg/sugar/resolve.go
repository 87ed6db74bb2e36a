package sugar

import "github.com/leapstack-labs/labelsugar/pkg/scope"

// resolves reports whether a use of b's name in scope use refers to b.
// Walking outward from use, reaching b's scope succeeds; an ordinary
// declaration of the same name on the way shadows b.
func resolves(use *scope.Scope, b *Binding) bool {
	name := b.Name()
	for cur := use; cur != nil; cur = cur.Parent() {
		if cur == b.Scope {
			return true
		}
		if own := cur.Own(name); own != nil && own.Kind.Ordinary() {
			return false
		}
	}
	return false
}
