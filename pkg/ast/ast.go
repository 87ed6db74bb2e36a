// Package ast declares the syntax tree for the JavaScript subset handled by
// the parser, the scope analyzer, the printer and the label desugaring pass.
//
// Node shapes follow ESTree closely: patterns are expressions, a Function
// owns its parameter list and body, and every node embeds NodeInfo for its
// source span.
package ast

import "github.com/leapstack-labs/labelsugar/pkg/token"

// Node is implemented by every syntax tree node.
type Node interface {
	GetSpan() token.Span
}

// Stmt represents a statement or declaration.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression or an assignment/binding pattern.
type Expr interface {
	Node
	exprNode()
}

// NodeInfo provides common fields for all AST nodes.
// Embed this in node types that need position/comment tracking.
type NodeInfo struct {
	Span            token.Span
	LeadingComments []*token.Comment
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Pos returns the start position of the node.
func (n *NodeInfo) Pos() token.Position {
	return n.Span.Start
}

// Comments returns the comments attached before the node.
func (n *NodeInfo) Comments() []*token.Comment {
	return n.LeadingComments
}

// AddLeadingComment adds a leading comment to the node.
func (n *NodeInfo) AddLeadingComment(c *token.Comment) {
	n.LeadingComments = append(n.LeadingComments, c)
}

// ---------- Program ----------

// Program is the root of a parsed source file.
type Program struct {
	NodeInfo
	Body     []Stmt
	Comments []*token.Comment
}

// ---------- Statements ----------

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	NodeInfo
	Kind  token.TokenType // VAR, LET or CONST
	Decls []*Declarator
}

// Declarator is one target = init pair of a VarDecl.
type Declarator struct {
	NodeInfo
	Target Expr // *Ident, *ArrayPattern or *ObjectPattern
	Init   Expr // nil when absent
}

// Function holds what function declarations, function expressions and
// object methods share.
type Function struct {
	NodeInfo
	Name      *Ident // nil for anonymous functions
	Params    []Expr // binding patterns
	Body      *BlockStmt
	Async     bool
	Generator bool
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	NodeInfo
	Func *Function
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	NodeInfo
	X Expr
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	NodeInfo
	List []Stmt
}

// LabeledStmt is `label: body`.
type LabeledStmt struct {
	NodeInfo
	Label *Ident
	Body  Stmt
}

// ReturnStmt is `return [result]`.
type ReturnStmt struct {
	NodeInfo
	Result Expr
}

// IfStmt is `if (cond) then [else else]`.
type IfStmt struct {
	NodeInfo
	Cond Expr
	Then Stmt
	Else Stmt
}

// ForStmt is the classic three-clause for loop.
type ForStmt struct {
	NodeInfo
	Init Node // *VarDecl, Expr or nil
	Cond Expr
	Post Expr
	Body Stmt
}

// ForInStmt covers for-in and for-of loops.
type ForInStmt struct {
	NodeInfo
	Left  Node // *VarDecl with a single declarator, or a pattern
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body Stmt
}

// DoWhileStmt is `do body while (cond)`.
type DoWhileStmt struct {
	NodeInfo
	Body Stmt
	Cond Expr
}

// BranchStmt is break or continue with an optional label.
type BranchStmt struct {
	NodeInfo
	Tok   token.TokenType // BREAK or CONTINUE
	Label *Ident
}

// ThrowStmt is `throw x`.
type ThrowStmt struct {
	NodeInfo
	X Expr
}

// TryStmt is try/catch/finally.
type TryStmt struct {
	NodeInfo
	Block     *BlockStmt
	Handler   *CatchClause
	Finalizer *BlockStmt
}

// CatchClause is `catch [(param)] body`.
type CatchClause struct {
	NodeInfo
	Param Expr
	Body  *BlockStmt
}

// SwitchStmt is `switch (disc) { cases }`.
type SwitchStmt struct {
	NodeInfo
	Disc  Expr
	Cases []*CaseClause
}

// CaseClause is one case of a switch; Test is nil for default.
type CaseClause struct {
	NodeInfo
	Test Expr
	Body []Stmt
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	NodeInfo
}

// DebuggerStmt is the debugger statement.
type DebuggerStmt struct {
	NodeInfo
}

// ImportKind distinguishes the three import specifier forms.
type ImportKind int

// Import specifier kinds.
const (
	ImportNamed     ImportKind = iota // import { a as b }
	ImportDefault                     // import a
	ImportNamespace                   // import * as a
)

// ImportDecl is an import declaration.
type ImportDecl struct {
	NodeInfo
	Specs  []*ImportSpec
	Source *Literal
}

// ImportSpec binds Local to an export of the imported module.
type ImportSpec struct {
	NodeInfo
	Kind     ImportKind
	Imported *Ident // nil unless ImportNamed
	Local    *Ident
}

// ExportDecl covers the export forms: a declaration, a default value,
// a specifier list, or a star re-export.
type ExportDecl struct {
	NodeInfo
	Default bool
	Decl    Stmt // *VarDecl or *FuncDecl
	Value   Expr // export default <expr>
	Specs   []*ExportSpec
	Star    bool
	StarAs  *Ident
	Source  *Literal
}

// ExportSpec is `local as exported` inside an export list.
type ExportSpec struct {
	NodeInfo
	Local    *Ident
	Exported *Ident
}

// ---------- Expressions ----------

// Ident is an identifier reference or binding.
type Ident struct {
	NodeInfo
	Name string
}

// Literal is a number, string, regexp, boolean or null literal.
// Raw keeps the source text so printing preserves quoting and number style.
type Literal struct {
	NodeInfo
	Kind token.TokenType // NUMBER, STRING, REGEXP, TRUE, FALSE, NULL
	Raw  string
}

// TemplateLit is a template literal, optionally tagged.
// Quasis holds raw text chunks; len(Quasis) == len(Exprs)+1.
type TemplateLit struct {
	NodeInfo
	Tag    Expr
	Quasis []string
	Exprs  []Expr
}

// ThisExpr is `this`.
type ThisExpr struct {
	NodeInfo
}

// SuperExpr is `super`.
type SuperExpr struct {
	NodeInfo
}

// ArrayLit is an array literal; nil elements are holes.
type ArrayLit struct {
	NodeInfo
	Elems []Expr
}

// PropKind distinguishes plain properties from accessors.
type PropKind int

// Property kinds.
const (
	PropInit PropKind = iota
	PropGet
	PropSet
)

// Property is an object literal or object pattern member.
type Property struct {
	NodeInfo
	Key       Expr
	Value     Expr
	Kind      PropKind
	Computed  bool
	Shorthand bool
	Method    bool // Value is a *FuncExpr
}

// ObjectLit is an object literal; Props holds *Property and *SpreadElem.
type ObjectLit struct {
	NodeInfo
	Props []Expr
}

// SpreadElem is `...x` in array literals, object literals and arguments.
type SpreadElem struct {
	NodeInfo
	X Expr
}

// FuncExpr is a function expression.
type FuncExpr struct {
	NodeInfo
	Func *Function
}

// ArrowFunc is an arrow function; Body is a *BlockStmt or an Expr.
type ArrowFunc struct {
	NodeInfo
	Params []Expr
	Body   Node
	Async  bool
}

// ExprBody returns the expression body, or nil for a block body.
func (a *ArrowFunc) ExprBody() Expr {
	if e, ok := a.Body.(Expr); ok {
		return e
	}
	return nil
}

// UnaryExpr is a prefix operator other than ++ and --.
type UnaryExpr struct {
	NodeInfo
	Op token.TokenType
	X  Expr
}

// UpdateExpr is ++ or -- in prefix or postfix position.
type UpdateExpr struct {
	NodeInfo
	Op     token.TokenType // INC or DEC
	Prefix bool
	X      Expr
}

// BinaryExpr is a binary or logical operation.
type BinaryExpr struct {
	NodeInfo
	X  Expr
	Op token.TokenType
	Y  Expr
}

// AssignExpr is an assignment with = or a compound operator.
type AssignExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

// CondExpr is `cond ? then : else`.
type CondExpr struct {
	NodeInfo
	Cond Expr
	Then Expr
	Else Expr
}

// CallExpr is a function call.
type CallExpr struct {
	NodeInfo
	Callee   Expr
	Args     []Expr
	Optional bool // callee?.(args)
}

// NewExpr is `new Callee(args)`.
type NewExpr struct {
	NodeInfo
	Callee Expr
	Args   []Expr
}

// MemberExpr is `x.prop`, `x[prop]` or their optional forms.
type MemberExpr struct {
	NodeInfo
	X        Expr
	Prop     Expr // *Ident when not Computed
	Computed bool
	Optional bool
}

// SeqExpr is a comma-separated expression list.
type SeqExpr struct {
	NodeInfo
	List []Expr
}

// AwaitExpr is `await x`.
type AwaitExpr struct {
	NodeInfo
	X Expr
}

// YieldExpr is `yield [x]` or `yield* x`.
type YieldExpr struct {
	NodeInfo
	X        Expr
	Delegate bool
}

// ---------- Patterns ----------

// ArrayPattern is a destructuring array target; nil elements are holes.
type ArrayPattern struct {
	NodeInfo
	Elems []Expr
}

// ObjectPattern is a destructuring object target; Props holds *Property
// and a trailing *RestElem.
type ObjectPattern struct {
	NodeInfo
	Props []Expr
}

// AssignPattern is a target with a default value.
type AssignPattern struct {
	NodeInfo
	Left  Expr
	Right Expr
}

// RestElem is `...x` in a pattern or parameter list.
type RestElem struct {
	NodeInfo
	X Expr
}

func (*VarDecl) stmtNode()      {}
func (*FuncDecl) stmtNode()     {}
func (*ExprStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()    {}
func (*LabeledStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*ForInStmt) stmtNode()    {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*BranchStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*TryStmt) stmtNode()      {}
func (*SwitchStmt) stmtNode()   {}
func (*EmptyStmt) stmtNode()    {}
func (*DebuggerStmt) stmtNode() {}
func (*ImportDecl) stmtNode()   {}
func (*ExportDecl) stmtNode()   {}

func (*Ident) exprNode()         {}
func (*Literal) exprNode()       {}
func (*TemplateLit) exprNode()   {}
func (*ThisExpr) exprNode()      {}
func (*SuperExpr) exprNode()     {}
func (*ArrayLit) exprNode()      {}
func (*Property) exprNode()      {}
func (*ObjectLit) exprNode()     {}
func (*SpreadElem) exprNode()    {}
func (*FuncExpr) exprNode()      {}
func (*ArrowFunc) exprNode()     {}
func (*UnaryExpr) exprNode()     {}
func (*UpdateExpr) exprNode()    {}
func (*BinaryExpr) exprNode()    {}
func (*AssignExpr) exprNode()    {}
func (*CondExpr) exprNode()      {}
func (*CallExpr) exprNode()      {}
func (*NewExpr) exprNode()       {}
func (*MemberExpr) exprNode()    {}
func (*SeqExpr) exprNode()       {}
func (*AwaitExpr) exprNode()     {}
func (*YieldExpr) exprNode()     {}
func (*ArrayPattern) exprNode()  {}
func (*ObjectPattern) exprNode() {}
func (*AssignPattern) exprNode() {}
func (*RestElem) exprNode()      {}
