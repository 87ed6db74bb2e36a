package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/ast"
	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Module grammar:
//
//	import → import STRING ';'
//	       | import [IDENT ','] ('*' as IDENT | '{' specifier (',' specifier)* '}') from STRING ';'
//	       | import IDENT from STRING ';'
//	export → export default (function_decl | assignment ';')
//	       | export (var_decl | function_decl)
//	       | export '*' [as name] from STRING ';'
//	       | export '{' specifier (',' specifier)* '}' [from STRING] ';'

// expectContextual consumes the identifier word or adds an error.
func (p *Parser) expectContextual(word string) bool {
	if p.checkContextual(word) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), word))
	return false
}

// parseStringLit parses a string literal (module specifiers).
func (p *Parser) parseStringLit() *ast.Literal {
	tok := p.token
	p.expect(token.STRING)
	return &ast.Literal{NodeInfo: p.info(tok.Pos), Kind: token.STRING, Raw: tok.Literal}
}

// copyIdent returns a distinct node with the same name and span.
func copyIdent(id *ast.Ident) *ast.Ident {
	return &ast.Ident{NodeInfo: ast.NodeInfo{Span: id.Span}, Name: id.Name}
}

func (p *Parser) parseImport() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume IMPORT
	decl := &ast.ImportDecl{}

	if p.check(token.STRING) {
		decl.Source = p.parseStringLit()
		p.consumeSemicolon()
		decl.NodeInfo = p.info(start)
		return decl
	}

	if p.check(token.IDENT) {
		sstart := p.token.Pos
		local := p.parseIdent()
		decl.Specs = append(decl.Specs, &ast.ImportSpec{NodeInfo: p.info(sstart), Kind: ast.ImportDefault, Local: local})
		if !p.match(token.COMMA) {
			return p.finishImport(start, decl)
		}
	}

	switch p.token.Type {
	case token.STAR:
		sstart := p.token.Pos
		p.nextToken()
		p.expectContextual("as")
		local := p.parseIdent()
		decl.Specs = append(decl.Specs, &ast.ImportSpec{NodeInfo: p.info(sstart), Kind: ast.ImportNamespace, Local: local})
	case token.LBRACE:
		p.nextToken()
		for !p.check(token.RBRACE) && !p.failed() {
			sstart := p.token.Pos
			imported := p.parseIdentName()
			local := copyIdent(imported)
			if p.checkContextual("as") {
				p.nextToken()
				local = p.parseIdent()
			}
			decl.Specs = append(decl.Specs, &ast.ImportSpec{NodeInfo: p.info(sstart), Kind: ast.ImportNamed, Imported: imported, Local: local})
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), token.LBRACE))
	}

	return p.finishImport(start, decl)
}

func (p *Parser) finishImport(start token.Position, decl *ast.ImportDecl) ast.Stmt {
	p.expectContextual("from")
	decl.Source = p.parseStringLit()
	p.consumeSemicolon()
	decl.NodeInfo = p.info(start)
	return decl
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.token.Pos
	p.nextToken() // consume EXPORT
	decl := &ast.ExportDecl{}

	switch {
	case p.match(token.DEFAULT):
		decl.Default = true
		async := p.checkContextual("async") && p.checkPeek(token.FUNCTION) && !p.peek.NewlineBefore
		if p.check(token.FUNCTION) || async {
			fstart := p.token.Pos
			fn := p.parseFunction(async, false)
			if fn.Name != nil {
				decl.Decl = &ast.FuncDecl{NodeInfo: p.info(fstart), Func: fn}
			} else {
				decl.Value = &ast.FuncExpr{NodeInfo: p.info(fstart), Func: fn}
			}
			break
		}
		decl.Value = p.parseAssign()
		p.consumeSemicolon()

	case p.check(token.VAR), p.check(token.LET), p.check(token.CONST):
		dstart := p.token.Pos
		vd := p.parseVarDecl(false)
		p.consumeSemicolon()
		vd.Span = p.spanFrom(dstart)
		decl.Decl = vd

	case p.check(token.FUNCTION):
		decl.Decl = p.parseFuncDecl(false)

	case p.checkContextual("async") && p.checkPeek(token.FUNCTION):
		decl.Decl = p.parseFuncDecl(true)

	case p.match(token.STAR):
		decl.Star = true
		if p.checkContextual("as") {
			p.nextToken()
			decl.StarAs = p.parseIdentName()
		}
		p.expectContextual("from")
		decl.Source = p.parseStringLit()
		p.consumeSemicolon()

	case p.match(token.LBRACE):
		for !p.check(token.RBRACE) && !p.failed() {
			sstart := p.token.Pos
			local := p.parseIdentName()
			exported := copyIdent(local)
			if p.checkContextual("as") {
				p.nextToken()
				exported = p.parseIdentName()
			}
			decl.Specs = append(decl.Specs, &ast.ExportSpec{NodeInfo: p.info(sstart), Local: local, Exported: exported})
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		if p.checkContextual("from") {
			p.nextToken()
			decl.Source = p.parseStringLit()
		}
		p.consumeSemicolon()

	case p.check(token.CLASS):
		p.addError(fmt.Sprintf(ErrUnsupported, "class declaration"))

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "declaration"))
	}

	decl.NodeInfo = p.info(start)
	return decl
}
