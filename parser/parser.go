// Package parser implements the syntactic analyzer for the source
// language: a recursive-descent parser over statements, with Pratt
// (precedence-climbing) parsing for expressions.
//
// The parser turns source text into the generic, tagged [ast.Node] tree
// the analyzer and code generator consume, rather than a typed
// Expression/Statement interface hierarchy: current/peek two-token
// lookahead, a prefix/infix parse-fn table keyed by token type and a
// precedence map, and an Errors() accumulator for parse diagnostics.
// Typed declarations (`int x = 1;`), typed function signatures, and
// C-style `for` loops extend the expression grammar to cover this
// language's statement forms.
package parser

import (
	"fmt"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/lexer"
	"github.com/anaclang/anac/token"
)

// Operator precedence levels, lowest to highest.
const (
	_ int = iota
	Lowest
	Assign      // =
	Equals      // == !=
	LessGreater // < > <= >=
	Sum         // + -
	Product     // * / %
	Prefix      // -x
	Call        // f(x)
)

var precedences = map[token.Type]int{
	token.ASSIGN:   Assign,
	token.EQ:       Equals,
	token.NOT_EQ:   Equals,
	token.LT:       LessGreater,
	token.GT:       LessGreater,
	token.LTE:      LessGreater,
	token.GTE:      LessGreater,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.ASTERISK: Product,
	token.SLASH:    Product,
	token.PERCENT:  Product,
	token.LPAREN:   Call,
}

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(left *ast.Node) *ast.Node
)

// Parser converts a token stream into an [ast.Node] tree rooted at
// [ast.PROGRAM].
type Parser struct {
	l      *lexer.Lexer
	errors []string

	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	p.registerInfix(token.PLUS, p.parseBinaryExpression)
	p.registerInfix(token.MINUS, p.parseBinaryExpression)
	p.registerInfix(token.ASTERISK, p.parseBinaryExpression)
	p.registerInfix(token.SLASH, p.parseBinaryExpression)
	p.registerInfix(token.PERCENT, p.parseBinaryExpression)
	p.registerInfix(token.EQ, p.parseBinaryExpression)
	p.registerInfix(token.NOT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.LT, p.parseBinaryExpression)
	p.registerInfix(token.GT, p.parseBinaryExpression)
	p.registerInfix(token.LTE, p.parseBinaryExpression)
	p.registerInfix(token.GTE, p.parseBinaryExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignment)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns the syntax errors accumulated while parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) currentTokenIs(t token.Type) bool { return p.currentToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool    { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf(
		"line %d: expected next token to be %s, got %s (%q) instead",
		p.peekToken.Line, t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.currentToken.Type]; ok {
		return pr
	}
	return Lowest
}

// isTypeToken reports whether t begins a type annotation ("int" or "void").
func isTypeToken(t token.Type) bool { return t == token.INT_TYPE || t == token.VOID }

// ParseProgram parses a complete source file: a sequence of function
// definitions. Check [Parser.Errors] afterward.
func (p *Parser) ParseProgram() *ast.Node {
	line := p.currentToken.Line
	var functions []*ast.Node

	for !p.currentTokenIs(token.EOF) {
		fn := p.parseFunction()
		if fn != nil {
			functions = append(functions, fn)
		}
		p.nextToken()
	}

	return ast.New(ast.PROGRAM, line, functions...)
}
