package parser

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/token"
)

// parseFunction parses a single top-level function definition:
// `<type> IDENT ( <params> ) <block>`.
func (p *Parser) parseFunction() *ast.Node {
	line := p.currentToken.Line

	if !isTypeToken(p.currentToken.Type) {
		p.errorf("line %d: expected a return type, got %s (%q)", line, p.currentToken.Type, p.currentToken.Literal)
		return nil
	}
	returnType := p.currentToken.Literal

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.currentToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()

	return ast.New(ast.FUNCTION, line, params, body).WithValue(name).WithType(returnType)
}

// parseParamList parses a (possibly empty) comma-separated parameter list.
// p.currentToken is LPAREN on entry and RPAREN on return.
func (p *Parser) parseParamList() *ast.Node {
	line := p.currentToken.Line

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return ast.New(ast.PARAM_LIST, line)
	}
	p.nextToken()

	var params []*ast.Node
	params = append(params, p.parseParam())

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}

	p.expectPeek(token.RPAREN)
	return ast.New(ast.PARAM_LIST, line, params...)
}

func (p *Parser) parseParam() *ast.Node {
	line := p.currentToken.Line
	if !isTypeToken(p.currentToken.Type) {
		p.errorf("line %d: expected a parameter type, got %s (%q)", line, p.currentToken.Type, p.currentToken.Literal)
		return ast.New(ast.PARAM, line)
	}
	typ := p.currentToken.Literal

	if !p.expectPeek(token.IDENT) {
		return ast.New(ast.PARAM, line).WithType(typ)
	}
	return ast.New(ast.PARAM, line).WithValue(p.currentToken.Literal).WithType(typ)
}

// parseBlockStatement parses `{ stmt* }`. p.currentToken is LBRACE on entry
// and RBRACE (or EOF, on malformed input) on return.
func (p *Parser) parseBlockStatement() *ast.Node {
	line := p.currentToken.Line
	var stmts []*ast.Node

	p.nextToken()
	for !p.currentTokenIs(token.RBRACE) && !p.currentTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return ast.New(ast.BLOCK, line, stmts...)
}
