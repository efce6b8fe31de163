package codegen

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
)

func (g *Generator) generateStatement(node *ast.Node) {
	switch node.Kind {
	case ast.VAR_DECL:
		slot, _ := g.resolveLocal(node.Value)
		if init := node.Child(0); init != nil {
			g.generateExpression(init)
			g.emit(bytecode.STORE, slot)
		}

	case ast.BLOCK:
		g.generateBlock(node)

	case ast.EXPR_STATEMENT:
		g.generateExpression(node.Child(0))
		g.emit(bytecode.POP, 0)

	case ast.IF:
		g.generateExpression(node.Child(ast.IfCond))
		end := g.newLabel("if.end")
		g.emitJump(bytecode.JZ, end)
		g.generateStatement(node.Child(ast.IfThen))
		g.bindLabel(end)

	case ast.IF_ELSE:
		elseLabel := g.newLabel("if.else")
		endLabel := g.newLabel("if.endif")
		g.generateExpression(node.Child(ast.IfElseCond))
		g.emitJump(bytecode.JZ, elseLabel)
		g.generateStatement(node.Child(ast.IfElseThen))
		g.emitJump(bytecode.JMP, endLabel)
		g.bindLabel(elseLabel)
		g.generateStatement(node.Child(ast.IfElseElse))
		g.bindLabel(endLabel)

	case ast.WHILE:
		start := g.newLabel("while.start")
		end := g.newLabel("while.end")
		g.bindLabel(start)
		g.generateExpression(node.Child(ast.WhileCond))
		g.emitJump(bytecode.JZ, end)
		g.generateStatement(node.Child(ast.WhileBody))
		g.emitJump(bytecode.JMP, start)
		g.bindLabel(end)

	case ast.FOR:
		g.generateFor(node)

	case ast.RETURN:
		if value := node.Child(0); value != nil {
			g.generateExpression(value)
			g.emit(bytecode.RETVAL, 0)
		} else {
			g.emit(bytecode.RET, 0)
		}

	case ast.EMPTY:
		// nothing to emit

	default:
		g.warn("unexpected statement kind %s", node.Kind)
	}
}

func (g *Generator) generateFor(node *ast.Node) {
	start := g.newLabel("for.start")
	end := g.newLabel("for.end")

	if init := node.Child(ast.ForInit); init != nil && init.Kind != ast.EMPTY {
		g.generateStatement(init)
	}

	g.bindLabel(start)
	if cond := node.Child(ast.ForCond); cond != nil && cond.Kind != ast.EMPTY {
		g.generateExpression(cond)
		g.emitJump(bytecode.JZ, end)
	}

	if body := node.Child(ast.ForBody); body != nil {
		g.generateStatement(body)
	}

	if update := node.Child(ast.ForUpdate); update != nil && update.Kind != ast.EMPTY {
		g.generateExpression(update)
		g.emit(bytecode.POP, 0)
	}

	g.emitJump(bytecode.JMP, start)
	g.bindLabel(end)
}
