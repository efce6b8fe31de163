// Package lexer implements the lexical analyzer for the source language.
//
// The lexer breaks source text into tokens, reading one byte at a time and
// producing a stream of [token.Token] values for the parser to consume. It
// tracks source line numbers so later diagnostics can point back at them.
package lexer

import (
	"strings"

	"github.com/anaclang/anac/token"
)

// Lexer scans source text into tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar advances the lexer by one byte, tracking line numbers.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next byte without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line := l.line
	var tok token.Token

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.EQ, Literal: "==", Line: line}
		}
		tok = token.Token{Type: token.ASSIGN, Literal: "=", Line: line}
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NOT_EQ, Literal: "!=", Line: line}
		}
		tok = token.Token{Type: token.BANG, Literal: "!", Line: line}
		l.readChar()
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LTE, Literal: "<=", Line: line}
		}
		tok = token.Token{Type: token.LT, Literal: "<", Line: line}
		l.readChar()
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GTE, Literal: ">=", Line: line}
		}
		tok = token.Token{Type: token.GT, Literal: ">", Line: line}
		l.readChar()
	case '+':
		tok = token.Token{Type: token.PLUS, Literal: "+", Line: line}
		l.readChar()
	case '-':
		tok = token.Token{Type: token.MINUS, Literal: "-", Line: line}
		l.readChar()
	case '*':
		tok = token.Token{Type: token.ASTERISK, Literal: "*", Line: line}
		l.readChar()
	case '/':
		tok = token.Token{Type: token.SLASH, Literal: "/", Line: line}
		l.readChar()
	case '%':
		tok = token.Token{Type: token.PERCENT, Literal: "%", Line: line}
		l.readChar()
	case ';':
		tok = token.Token{Type: token.SEMICOLON, Literal: ";", Line: line}
		l.readChar()
	case ',':
		tok = token.Token{Type: token.COMMA, Literal: ",", Line: line}
		l.readChar()
	case '(':
		tok = token.Token{Type: token.LPAREN, Literal: "(", Line: line}
		l.readChar()
	case ')':
		tok = token.Token{Type: token.RPAREN, Literal: ")", Line: line}
		l.readChar()
	case '{':
		tok = token.Token{Type: token.LBRACE, Literal: "{", Line: line}
		l.readChar()
	case '}':
		tok = token.Token{Type: token.RBRACE, Literal: "}", Line: line}
		l.readChar()
	case '"':
		lit, ok := l.readString()
		if !ok {
			tok = token.Token{Type: token.ILLEGAL, Literal: "unterminated string", Line: line}
			return tok
		}
		tok = token.Token{Type: token.STRING, Literal: lit, Line: line}
		l.readChar()
	case 0:
		tok = token.Token{Type: token.EOF, Literal: "", Line: line}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(literal), Literal: literal, Line: line}
		}
		if isDigit(l.ch) {
			return token.Token{Type: token.INT, Literal: l.readNumber(), Line: line}
		}
		tok = token.Token{Type: token.ILLEGAL, Literal: string(l.ch), Line: line}
		l.readChar()
	}
	return tok
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// skipWhitespace skips ordinary whitespace and `//` line comments.
func (l *Lexer) skipWhitespace() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

// readString reads a double-quoted string literal, interpreting the common
// backslash escapes. The bool result is false on an unterminated literal.
func (l *Lexer) readString() (string, bool) {
	var b strings.Builder
	l.readChar()

	for {
		if l.ch == '"' {
			return b.String(), true
		}
		if l.ch == 0 {
			return b.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return b.String(), false
			}
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			}
		} else {
			b.WriteByte(l.ch)
		}
		l.readChar()
	}
}
