package parser

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/token"
)

func (p *Parser) parseExpression(precedence int) *ast.Node {
	prefix := p.prefixParseFns[p.currentToken.Type]
	if prefix == nil {
		p.errorf("line %d: no prefix parse function for %s (%q)",
			p.currentToken.Line, p.currentToken.Type, p.currentToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() *ast.Node {
	return ast.New(ast.IDENTIFIER, p.currentToken.Line).WithValue(p.currentToken.Literal)
}

func (p *Parser) parseNumberLiteral() *ast.Node {
	return ast.New(ast.NUMBER_LITERAL, p.currentToken.Line).WithValue(p.currentToken.Literal)
}

func (p *Parser) parseStringLiteral() *ast.Node {
	return ast.New(ast.STRING_LITERAL, p.currentToken.Line).WithValue(p.currentToken.Literal)
}

func (p *Parser) parseUnaryExpression() *ast.Node {
	line := p.currentToken.Line
	op := p.currentToken.Literal

	p.nextToken()
	operand := p.parseExpression(Prefix)
	return ast.New(ast.UNARY_EXPR, line, operand).WithValue(op)
}

func (p *Parser) parseBinaryExpression(left *ast.Node) *ast.Node {
	line := p.currentToken.Line
	op := p.currentToken.Literal
	precedence := p.curPrecedence()

	p.nextToken()
	right := p.parseExpression(precedence)
	return ast.New(ast.BINARY_EXPR, line, left, right).WithValue(op)
}

func (p *Parser) parseGroupedExpression() *ast.Node {
	p.nextToken()
	exp := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseAssignment handles `=` as an infix operator, right-associatively:
// the right-hand side is parsed at Assign-1 so a chained `a = b = c`
// recurses into another assignment rather than stopping at `b`.
func (p *Parser) parseAssignment(left *ast.Node) *ast.Node {
	line := p.currentToken.Line
	if left == nil || left.Kind != ast.IDENTIFIER {
		p.errorf("line %d: left-hand side of assignment must be an identifier", line)
	}

	p.nextToken()
	value := p.parseExpression(Assign - 1)
	return ast.New(ast.ASSIGNMENT, line, left, value)
}

func (p *Parser) parseCallExpression(left *ast.Node) *ast.Node {
	line := p.currentToken.Line
	name := left.Value

	args := p.parseExpressionList(token.RPAREN)
	return ast.New(ast.FUNCTION_CALL, line, ast.New(ast.ARGUMENT_LIST, line, args...)).WithValue(name)
}

func (p *Parser) parseExpressionList(end token.Type) []*ast.Node {
	var list []*ast.Node

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(Lowest))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(Lowest))
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}
