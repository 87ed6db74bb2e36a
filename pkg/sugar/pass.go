package sugar

import (
	"log/slog"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/scope"
)

// Result summarizes one pass.
type Result struct {
	// Bindings lists the declared state names in declaration order.
	Bindings []*Binding
	// Mutations counts identifier mutations rewritten to modifier calls.
	Mutations int
	// Wrapped counts property mutations moved into modifier callbacks.
	Wrapped int
	// Effects and Memos count watch labels rewritten in each form.
	Effects int
	Memos   int
}

// Rewrites returns the total number of rewritten sites.
func (r *Result) Rewrites() int {
	return len(r.Bindings) + r.Mutations + r.Wrapped + r.Effects + r.Memos
}

// Pass is one desugaring run over one program. All state it keeps lives
// and dies with it.
type Pass struct {
	opts   Options
	info   *scope.Info
	logger *slog.Logger

	registry *Registry
	alloc    *allocator
	wrapped  map[ast.Node]bool // property targets already moved into a callback
	result   Result
}

// NewPass creates a pass over the program info was built from.
func NewPass(info *scope.Info, opts Options) (*Pass, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pass{
		opts:     opts,
		info:     info,
		logger:   opts.Logger,
		registry: &Registry{},
		alloc:    newAllocator(info),
		wrapped:  make(map[ast.Node]bool),
	}, nil
}

// Run rewrites prog in place.
func (p *Pass) Run(prog *ast.Program) (*Result, error) {
	if err := p.stmts(prog.Body, p.info.Root); err != nil {
		return nil, err
	}
	p.result.Bindings = p.registry.Bindings()
	p.logger.Debug("desugar pass finished",
		slog.Int("bindings", len(p.result.Bindings)),
		slog.Int("mutations", p.result.Mutations),
		slog.Int("wrapped", p.result.Wrapped),
		slog.Int("effects", p.result.Effects),
		slog.Int("memos", p.result.Memos))
	result := p.result
	return &result, nil
}

// Transform analyzes prog and desugars it in place.
func Transform(prog *ast.Program, opts Options) (*Result, error) {
	p, err := NewPass(scope.Analyze(prog), opts)
	if err != nil {
		return nil, err
	}
	return p.Run(prog)
}

// scopeOf returns the scope node opens, or s when it opens none.
func (p *Pass) scopeOf(node ast.Node, s *scope.Scope) *scope.Scope {
	if inner := p.info.Scope(node); inner != nil {
		return inner
	}
	return s
}
