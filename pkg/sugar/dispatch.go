package sugar

import (
	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
)

// labelKind classifies a labeled statement.
type labelKind int

const (
	labelUnmatched labelKind = iota
	labelState
	labelWatch
)

func (k labelKind) String() string {
	switch k {
	case labelState:
		return "state"
	case labelWatch:
		return "watch"
	default:
		return "unmatched"
	}
}

func (o Options) classify(label string) labelKind {
	switch label {
	case o.StateLabel:
		return labelState
	case o.WatchLabel:
		return labelWatch
	default:
		return labelUnmatched
	}
}

// labeled routes a labeled statement to its handler and returns the
// statement that replaces it.
func (p *Pass) labeled(n *ast.LabeledStmt, s *scope.Scope) (ast.Stmt, error) {
	switch kind := p.opts.classify(n.Label.Name); kind {
	case labelState:
		return p.state(n, s)
	case labelWatch:
		return p.watch(n, s)
	case labelUnmatched:
		return n, p.rewriteStmt(&n.Body, s)
	default:
		panic("unhandled label kind " + kind.String())
	}
}
