package parser

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/token"
)

func (p *Parser) parseStatement() *ast.Node {
	switch p.currentToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.SEMICOLON:
		return ast.New(ast.EMPTY, p.currentToken.Line)
	case token.INT_TYPE, token.VOID:
		return p.parseVarDecl()
	default:
		return p.parseExpressionStatement()
	}
}

// parseVarDecl parses `<type> IDENT (= expr)? ;`. p.currentToken is the
// type keyword on entry and the terminating `;` on return.
func (p *Parser) parseVarDecl() *ast.Node {
	line := p.currentToken.Line
	typ := p.currentToken.Literal

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.currentToken.Literal

	var children []*ast.Node
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		children = append(children, p.parseExpression(Lowest))
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.VAR_DECL, line, children...).WithValue(name).WithType(typ)
}

func (p *Parser) parseIfStatement() *ast.Node {
	line := p.currentToken.Line

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	then := p.parseStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		elseBranch := p.parseStatement()
		return ast.New(ast.IF_ELSE, line, cond, then, elseBranch)
	}
	return ast.New(ast.IF, line, cond, then)
}

func (p *Parser) parseWhileStatement() *ast.Node {
	line := p.currentToken.Line

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	body := p.parseStatement()
	return ast.New(ast.WHILE, line, cond, body)
}

// parseForStatement parses the C `for (init; cond; update) body` form;
// each clause may be empty, represented by [ast.NewEmpty].
func (p *Parser) parseForStatement() *ast.Node {
	line := p.currentToken.Line

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	init := p.parseForInit()
	// p.currentToken is now the `;` terminating the init clause.

	p.nextToken()
	var cond *ast.Node
	if p.currentTokenIs(token.SEMICOLON) {
		cond = ast.NewEmpty(line)
	} else {
		cond = p.parseExpression(Lowest)
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	p.nextToken()
	var update *ast.Node
	if p.currentTokenIs(token.RPAREN) {
		update = ast.NewEmpty(line)
	} else {
		update = p.parseExpression(Lowest)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	p.nextToken()
	body := p.parseStatement()

	return ast.New(ast.FOR, line, init, cond, update, body)
}

func (p *Parser) parseForInit() *ast.Node {
	line := p.currentToken.Line

	if p.currentTokenIs(token.SEMICOLON) {
		return ast.NewEmpty(line)
	}

	if isTypeToken(p.currentToken.Type) {
		typ := p.currentToken.Literal
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := p.currentToken.Literal

		var children []*ast.Node
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			children = append(children, p.parseExpression(Lowest))
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return ast.New(ast.VAR_DECL, line, children...).WithValue(name).WithType(typ)
	}

	expr := p.parseExpression(Lowest)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.EXPR_STATEMENT, line, expr)
}

func (p *Parser) parseReturnStatement() *ast.Node {
	line := p.currentToken.Line

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return ast.New(ast.RETURN, line)
	}

	p.nextToken()
	value := p.parseExpression(Lowest)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.RETURN, line, value)
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	line := p.currentToken.Line
	expr := p.parseExpression(Lowest)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return ast.New(ast.EXPR_STATEMENT, line, expr)
}
