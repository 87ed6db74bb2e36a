package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Statement grammar:
//
//	block      → '{' statement* '}'
//	var_decl   → (var|let|const) binding ['=' assignment] (',' ...)* ';'
//	if         → if '(' expression ')' statement [else statement]
//	for        → for ['await'] '(' (var_decl|expression)? ';' expression? ';' expression? ')' statement
//	           | for ['await'] '(' (var_decl|target) (in|of) expression ')' statement
//	try        → try block [catch ['(' binding ')'] block] [finally block]
//	labeled    → IDENT ':' statement

// commentable is implemented by every node embedding ast.NodeInfo.
type commentable interface {
	AddLeadingComment(c *token.Comment)
}

// parseStatementList parses statements until end or EOF, attaching the
// comments that precede each statement.
func (p *Parser) parseStatementList(end token.TokenType) []ast.Stmt {
	var list []ast.Stmt
	for !p.check(end) && !p.check(token.EOF) && !p.failed() {
		comments := p.takeComments(p.token.Pos.Offset)
		stmt := p.parseStatement()
		if stmt == nil {
			continue
		}
		if c, ok := stmt.(commentable); ok {
			for _, comment := range comments {
				c.AddLeadingComment(comment)
			}
		}
		list = append(list, stmt)
	}
	return list
}

// parseStatement parses a single statement or declaration.
func (p *Parser) parseStatement() ast.Stmt {
	start := p.token.Pos

	switch p.token.Type {
	case token.LBRACE:
		return p.parseBlock()

	case token.VAR, token.LET, token.CONST:
		decl := p.parseVarDecl(false)
		p.consumeSemicolon()
		decl.Span = p.spanFrom(start)
		return decl

	case token.FUNCTION:
		return p.parseFuncDecl(false)

	case token.IF:
		return p.parseIf()

	case token.FOR:
		return p.parseFor()

	case token.WHILE:
		p.nextToken()
		cond := p.parseParenExpr()
		body := p.parseStatement()
		return &ast.WhileStmt{NodeInfo: p.info(start), Cond: cond, Body: body}

	case token.DO:
		p.nextToken()
		body := p.parseStatement()
		p.expect(token.WHILE)
		cond := p.parseParenExpr()
		p.match(token.SEMICOLON)
		return &ast.DoWhileStmt{NodeInfo: p.info(start), Body: body, Cond: cond}

	case token.RETURN:
		p.nextToken()
		stmt := &ast.ReturnStmt{}
		if !p.atStatementEnd() {
			stmt.Result = p.parseExpression()
		}
		p.consumeSemicolon()
		stmt.NodeInfo = p.info(start)
		return stmt

	case token.BREAK, token.CONTINUE:
		stmt := &ast.BranchStmt{Tok: p.token.Type}
		p.nextToken()
		if p.check(token.IDENT) && !p.token.NewlineBefore {
			stmt.Label = p.parseIdent()
		}
		p.consumeSemicolon()
		stmt.NodeInfo = p.info(start)
		return stmt

	case token.THROW:
		p.nextToken()
		x := p.parseExpression()
		p.consumeSemicolon()
		return &ast.ThrowStmt{NodeInfo: p.info(start), X: x}

	case token.TRY:
		return p.parseTry()

	case token.SWITCH:
		return p.parseSwitch()

	case token.SEMICOLON:
		p.nextToken()
		return &ast.EmptyStmt{NodeInfo: p.info(start)}

	case token.DEBUGGER:
		p.nextToken()
		p.consumeSemicolon()
		return &ast.DebuggerStmt{NodeInfo: p.info(start)}

	case token.IMPORT:
		if !p.checkPeek(token.LPAREN) && !p.checkPeek(token.DOT) {
			return p.parseImport()
		}

	case token.EXPORT:
		return p.parseExport()

	case token.CLASS:
		p.addError(fmt.Sprintf(ErrUnsupported, "class declaration"))
		return nil

	case token.IDENT:
		if p.checkPeek(token.COLON) {
			return p.parseLabeled()
		}
		if p.checkContextual("async") && p.checkPeek(token.FUNCTION) && !p.peek.NewlineBefore {
			return p.parseFuncDecl(true)
		}
	}

	x := p.parseExpression()
	p.consumeSemicolon()
	return &ast.ExprStmt{NodeInfo: p.info(start), X: x}
}

// atStatementEnd reports whether the current token ends a statement for the
// purpose of optional operands (return, yield).
func (p *Parser) atStatementEnd() bool {
	switch p.token.Type {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		return true
	}
	return p.token.NewlineBefore
}

// parseBlock parses '{' statement* '}'.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.token.Pos
	p.expect(token.LBRACE)
	list := p.parseStatementList(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.BlockStmt{NodeInfo: p.info(start), List: list}
}

// parseParenExpr parses '(' expression ')'.
func (p *Parser) parseParenExpr() ast.Expr {
	p.expect(token.LPAREN)
	saved := p.noIn
	p.noIn = false
	x := p.parseExpression()
	p.noIn = saved
	p.expect(token.RPAREN)
	return x
}

// parseVarDecl parses a declaration list without the trailing semicolon.
// noIn is set inside a for-statement head.
func (p *Parser) parseVarDecl(noIn bool) *ast.VarDecl {
	start := p.token.Pos
	decl := &ast.VarDecl{Kind: p.token.Type}
	p.nextToken()

	for {
		dstart := p.token.Pos
		target := p.parseBindingTarget()
		var init ast.Expr
		if p.match(token.ASSIGN) {
			saved := p.noIn
			p.noIn = noIn
			init = p.parseAssign()
			p.noIn = saved
		}
		decl.Decls = append(decl.Decls, &ast.Declarator{NodeInfo: p.info(dstart), Target: target, Init: init})
		if p.failed() || !p.match(token.COMMA) {
			break
		}
	}

	decl.NodeInfo = p.info(start)
	return decl
}

// parseFuncDecl parses a function declaration, optionally async.
func (p *Parser) parseFuncDecl(async bool) ast.Stmt {
	start := p.token.Pos
	fn := p.parseFunction(async, true)
	return &ast.FuncDecl{NodeInfo: p.info(start), Func: fn}
}

// parseFunction parses [async] function ['*'] [name] params body.
func (p *Parser) parseFunction(async, requireName bool) *ast.Function {
	start := p.token.Pos
	if async {
		p.nextToken()
	}
	p.expect(token.FUNCTION)
	generator := p.match(token.STAR)

	var name *ast.Ident
	if p.check(token.IDENT) || requireName {
		name = p.parseIdent()
	}
	return p.parseFunctionRest(start, name, async, generator)
}

// parseFunctionRest parses a parameter list and a body.
func (p *Parser) parseFunctionRest(start token.Position, name *ast.Ident, async, generator bool) *ast.Function {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	params := p.parseParams()
	body := p.parseBlock()
	return &ast.Function{
		NodeInfo:  p.info(start),
		Name:      name,
		Params:    params,
		Body:      body,
		Async:     async,
		Generator: generator,
	}
}

// parseParams parses '(' (binding_element | '...' binding) (',' ...)* ')'.
func (p *Parser) parseParams() []ast.Expr {
	p.expect(token.LPAREN)
	var params []ast.Expr
	for !p.check(token.RPAREN) && !p.failed() {
		if p.check(token.ELLIPSIS) {
			start := p.token.Pos
			p.nextToken()
			target := p.parseBindingTarget()
			params = append(params, &ast.RestElem{NodeInfo: p.info(start), X: target})
			break
		}
		params = append(params, p.parseBindingElement())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume IF
	stmt := &ast.IfStmt{}
	stmt.Cond = p.parseParenExpr()
	stmt.Then = p.parseStatement()
	if p.match(token.ELSE) {
		stmt.Else = p.parseStatement()
	}
	stmt.NodeInfo = p.info(start)
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume FOR
	await := p.match(token.AWAIT)
	p.expect(token.LPAREN)

	var init ast.Node
	switch p.token.Type {
	case token.SEMICOLON:
	case token.VAR, token.LET, token.CONST:
		decl := p.parseVarDecl(true)
		if p.check(token.IN) || p.checkContextual("of") {
			if len(decl.Decls) != 1 || decl.Decls[0].Init != nil {
				p.addError(ErrForInInit)
				return nil
			}
			return p.parseForIn(start, decl, await)
		}
		init = decl
	default:
		saved := p.noIn
		p.noIn = true
		x := p.parseExpression()
		p.noIn = saved
		if p.check(token.IN) || p.checkContextual("of") {
			return p.parseForIn(start, p.toPattern(x, false), await)
		}
		init = x
	}

	stmt := &ast.ForStmt{Init: init}
	p.expect(token.SEMICOLON)
	if !p.check(token.SEMICOLON) {
		stmt.Cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON)
	if !p.check(token.RPAREN) {
		stmt.Post = p.parseExpression()
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	stmt.NodeInfo = p.info(start)
	return stmt
}

func (p *Parser) parseForIn(start token.Position, left ast.Node, await bool) ast.Stmt {
	of := p.checkContextual("of")
	p.nextToken() // consume IN or OF

	var right ast.Expr
	if of {
		right = p.parseAssign()
	} else {
		right = p.parseExpression()
	}
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ast.ForInStmt{NodeInfo: p.info(start), Left: left, Right: right, Body: body, Of: of, Await: await}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume TRY
	stmt := &ast.TryStmt{Block: p.parseBlock()}

	if p.check(token.CATCH) {
		cstart := p.token.Pos
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.match(token.LPAREN) {
			clause.Param = p.parseBindingTarget()
			p.expect(token.RPAREN)
		}
		clause.Body = p.parseBlock()
		clause.NodeInfo = p.info(cstart)
		stmt.Handler = clause
	}
	if p.match(token.FINALLY) {
		stmt.Finalizer = p.parseBlock()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.CATCH))
	}

	stmt.NodeInfo = p.info(start)
	return stmt
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume SWITCH
	stmt := &ast.SwitchStmt{Disc: p.parseParenExpr()}
	p.expect(token.LBRACE)

	for !p.check(token.RBRACE) && !p.check(token.EOF) && !p.failed() {
		cstart := p.token.Pos
		clause := &ast.CaseClause{}
		if p.match(token.CASE) {
			clause.Test = p.parseExpression()
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		for !p.check(token.CASE) && !p.check(token.DEFAULT) && !p.check(token.RBRACE) &&
			!p.check(token.EOF) && !p.failed() {
			if s := p.parseStatement(); s != nil {
				clause.Body = append(clause.Body, s)
			}
		}
		clause.NodeInfo = p.info(cstart)
		stmt.Cases = append(stmt.Cases, clause)
	}

	p.expect(token.RBRACE)
	stmt.NodeInfo = p.info(start)
	return stmt
}

func (p *Parser) parseLabeled() ast.Stmt {
	start := p.token.Pos
	label := p.parseIdent()
	p.expect(token.COLON)
	body := p.parseStatement()
	return &ast.LabeledStmt{NodeInfo: p.info(start), Label: label, Body: body}
}
