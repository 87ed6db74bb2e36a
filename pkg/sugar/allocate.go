package sugar

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// allocator hands out modifier names that collide with nothing in the
// program: not a binding visible from the defining scope, not a name
// declared or referenced anywhere, not a label and not an earlier
// allocation of the same pass.
type allocator struct {
	info  *scope.Info
	taken map[string]bool
}

func newAllocator(info *scope.Info) *allocator {
	return &allocator{info: info, taken: make(map[string]bool)}
}

// allocate returns a fresh modifier for name and declares it in s.
// The candidates for count are _setCount, _setCount2, _setCount3, ...
func (a *allocator) allocate(name string, s *scope.Scope, span token.Span) *ast.Ident {
	stem := uidStem("set" + capitalize(name))
	for i := 1; ; i++ {
		candidate := "_" + stem
		if i > 1 {
			candidate += strconv.Itoa(i)
		}
		if a.used(candidate, s) {
			continue
		}
		a.taken[candidate] = true
		id := ast.NewIdent(candidate, span)
		s.Declare(candidate, scope.KindGenerated, id)
		return id
	}
}

func (a *allocator) used(name string, s *scope.Scope) bool {
	return a.taken[name] ||
		s.HasBinding(name) ||
		a.info.IsDeclared(name) ||
		a.info.HasReference(name) ||
		a.info.HasLabel(name)
}

// uidStem strips leading underscores and trailing digits, so setCount2
// and _setCount share the stem setCount.
func uidStem(name string) string {
	name = strings.TrimLeft(name, "_")
	return strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
