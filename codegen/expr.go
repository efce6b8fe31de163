package codegen

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
)

// binaryOpcodes maps an operator spelling to the opcode it lowers to. An
// operator not in this table is a generator warning with no emission —
// unreachable on analyzer-verified input, since the parser only ever
// produces the operators the analyzer recognizes.
var binaryOpcodes = map[string]bytecode.Opcode{
	"+":  bytecode.ADD,
	"-":  bytecode.SUB,
	"*":  bytecode.MUL,
	"/":  bytecode.DIV,
	"%":  bytecode.MOD,
	"==": bytecode.EQ,
	"!=": bytecode.NEQ,
	"<":  bytecode.LT,
	">":  bytecode.GT,
	"<=": bytecode.LEQ,
	">=": bytecode.GEQ,
}

func (g *Generator) generateExpression(node *ast.Node) {
	switch node.Kind {
	case ast.NUMBER_LITERAL:
		g.emit(bytecode.PUSH, atoi(node.Value))

	case ast.STRING_LITERAL:
		// String literals have no runtime representation; they compile to
		// the placeholder value 0.
		g.warn("string literal at line %d has no runtime value; compiled as 0", node.Line)
		g.emit(bytecode.PUSH, 0)

	case ast.IDENTIFIER:
		slot, ok := g.locals[node.Value]
		if !ok {
			g.warn("unknown identifier %q at line %d", node.Value, node.Line)
			g.emit(bytecode.PUSH, 0)
			return
		}
		g.emit(bytecode.LOAD, slot)

	case ast.ASSIGNMENT:
		g.generateExpression(node.Child(ast.AssignValue))
		g.emit(bytecode.DUP, 0)
		target := node.Child(ast.AssignTarget)
		slot, _ := g.resolveLocal(target.Value)
		g.emit(bytecode.STORE, slot)

	case ast.BINARY_EXPR:
		g.generateExpression(node.Child(ast.BinaryLeft))
		g.generateExpression(node.Child(ast.BinaryRight))
		op, ok := binaryOpcodes[node.Value]
		if !ok {
			g.warn("unknown binary operator %q at line %d", node.Value, node.Line)
			return
		}
		g.emit(op, 0)

	case ast.UNARY_EXPR:
		g.generateExpression(node.Child(ast.UnaryOperand))
		if node.Value == "-" {
			g.emit(bytecode.NEG, 0)
			return
		}
		g.warn("unary operator %q at line %d is out of scope; no instruction emitted", node.Value, node.Line)

	case ast.FUNCTION_CALL:
		g.generateCall(node)

	default:
		g.warn("unexpected expression kind %s at line %d", node.Kind, node.Line)
	}
}

func (g *Generator) generateCall(node *ast.Node) {
	if args := node.Child(0); args != nil && args.Kind == ast.ARGUMENT_LIST {
		for _, arg := range args.Children {
			g.generateExpression(arg)
		}
	}

	idx, ok := g.funcIndex[node.Value]
	if !ok {
		g.warn("call to unknown function %q at line %d", node.Value, node.Line)
		g.emit(bytecode.PUSH, 0)
		return
	}
	g.emit(bytecode.CALL, idx)
}
