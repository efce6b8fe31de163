package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := New(lexer.New(src))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors: %v", p.Errors())
	return program
}

func TestParseReturnConstant(t *testing.T) {
	program := parseProgram(t, `int ana() { return 42; }`)

	require.Len(t, program.Children, 1)
	fn := program.Children[0]
	require.Equal(t, ast.FUNCTION, fn.Kind)
	require.Equal(t, "ana", fn.Value)
	require.Equal(t, "int", fn.Type)

	body := fn.Child(1)
	require.Equal(t, ast.BLOCK, body.Kind)
	require.Len(t, body.Children, 1)

	ret := body.Children[0]
	require.Equal(t, ast.RETURN, ret.Kind)
	require.Equal(t, "42", ret.Child(0).Value)
}

func TestParseFunctionWithParameters(t *testing.T) {
	program := parseProgram(t, `
		int topla(int a, int b) {
			return a + b;
		}
	`)

	fn := program.Children[0]
	params := fn.Child(0)
	require.Equal(t, ast.PARAM_LIST, params.Kind)
	require.Len(t, params.Children, 2)
	require.Equal(t, "a", params.Children[0].Value)
	require.Equal(t, "int", params.Children[0].Type)
	require.Equal(t, "b", params.Children[1].Value)
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, `
		int ana() {
			int x = 10;
			if (x > 5) {
				return 1;
			} else {
				return 0;
			}
		}
	`)

	body := program.Children[0].Child(1)
	require.Len(t, body.Children, 2)

	ifElse := body.Children[1]
	require.Equal(t, ast.IF_ELSE, ifElse.Kind)

	cond := ifElse.Child(ast.IfElseCond)
	require.Equal(t, ast.BINARY_EXPR, cond.Kind)
	require.Equal(t, ">", cond.Value)
}

func TestParseWhileLoop(t *testing.T) {
	program := parseProgram(t, `
		int ana() {
			int i = 1;
			int sum = 0;
			while (i <= 10) {
				sum = sum + i;
				i = i + 1;
			}
			return sum;
		}
	`)

	body := program.Children[0].Child(1)
	whileNode := body.Children[2]
	require.Equal(t, ast.WHILE, whileNode.Kind)
	require.Equal(t, ast.BLOCK, whileNode.Child(ast.WhileBody).Kind)
}

func TestParseForLoopAllClauses(t *testing.T) {
	program := parseProgram(t, `
		int ana() {
			int sum = 0;
			for (int i = 0; i < 10; i = i + 1) {
				sum = sum + i;
			}
			return sum;
		}
	`)

	body := program.Children[0].Child(1)
	forNode := body.Children[1]
	require.Equal(t, ast.FOR, forNode.Kind)
	require.Equal(t, ast.VAR_DECL, forNode.Child(ast.ForInit).Kind)
	require.Equal(t, ast.BINARY_EXPR, forNode.Child(ast.ForCond).Kind)
	require.Equal(t, ast.ASSIGNMENT, forNode.Child(ast.ForUpdate).Kind)
}

func TestParseForLoopEmptyClauses(t *testing.T) {
	program := parseProgram(t, `
		int ana() {
			int i = 0;
			for (;;) {
				return i;
			}
		}
	`)

	body := program.Children[0].Child(1)
	forNode := body.Children[1]
	require.Equal(t, ast.EMPTY, forNode.Child(ast.ForInit).Kind)
	require.Equal(t, ast.EMPTY, forNode.Child(ast.ForCond).Kind)
	require.Equal(t, ast.EMPTY, forNode.Child(ast.ForUpdate).Kind)
}

func TestParseFunctionCall(t *testing.T) {
	program := parseProgram(t, `
		int topla(int a, int b) { return a + b; }
		int ana() { return topla(20, 22); }
	`)

	ana := program.Children[1]
	ret := ana.Child(1).Children[0]
	call := ret.Child(0)
	require.Equal(t, ast.FUNCTION_CALL, call.Kind)
	require.Equal(t, "topla", call.Value)

	args := call.Child(0)
	require.Equal(t, ast.ARGUMENT_LIST, args.Kind)
	require.Len(t, args.Children, 2)
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseProgram(t, `int ana() { return 3 + 4 * 2; }`)

	ret := program.Children[0].Child(1).Children[0]
	top := ret.Child(0)
	require.Equal(t, ast.BINARY_EXPR, top.Kind)
	require.Equal(t, "+", top.Value)
	require.Equal(t, ast.NUMBER_LITERAL, top.Child(ast.BinaryLeft).Kind)

	right := top.Child(ast.BinaryRight)
	require.Equal(t, "*", right.Value)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	program := parseProgram(t, `
		int ana() {
			int a = 0;
			int b = 0;
			a = b = 5;
			return a;
		}
	`)

	body := program.Children[0].Child(1)
	exprStmt := body.Children[2]
	require.Equal(t, ast.EXPR_STATEMENT, exprStmt.Kind)

	outer := exprStmt.Child(0)
	require.Equal(t, ast.ASSIGNMENT, outer.Kind)
	require.Equal(t, "a", outer.Child(ast.AssignTarget).Value)

	inner := outer.Child(ast.AssignValue)
	require.Equal(t, ast.ASSIGNMENT, inner.Kind)
	require.Equal(t, "b", inner.Child(ast.AssignTarget).Value)
}

func TestMissingSemicolonProducesError(t *testing.T) {
	p := New(lexer.New(`int ana() { return 42 }`))
	p.ParseProgram()
	require.NotEmpty(t, p.Errors())
}
