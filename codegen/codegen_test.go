package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
)

func function(name, returnType string, params *ast.Node, body *ast.Node) *ast.Node {
	return ast.New(ast.FUNCTION, 1, params, body).WithValue(name).WithType(returnType)
}

func paramList(params ...*ast.Node) *ast.Node { return ast.New(ast.PARAM_LIST, 1, params...) }
func param(name, typ string) *ast.Node        { return ast.New(ast.PARAM, 1).WithValue(name).WithType(typ) }
func block(stmts ...*ast.Node) *ast.Node      { return ast.New(ast.BLOCK, 1, stmts...) }
func ret(v *ast.Node) *ast.Node {
	if v == nil {
		return ast.New(ast.RETURN, 1)
	}
	return ast.New(ast.RETURN, 1, v)
}
func num(n string) *ast.Node   { return ast.New(ast.NUMBER_LITERAL, 1).WithValue(n) }
func ident(n string) *ast.Node { return ast.New(ast.IDENTIFIER, 1).WithValue(n) }
func binary(op string, l, r *ast.Node) *ast.Node {
	return ast.New(ast.BINARY_EXPR, 1, l, r).WithValue(op)
}

// TestReturnConstantEndsWithPushRetval checks that a function returning a
// constant compiles to a PUSH of that constant followed by RETVAL.
func TestReturnConstantEndsWithPushRetval(t *testing.T) {
	ana := function("ana", "int", paramList(), block(ret(num("42"))))
	program := ast.New(ast.PROGRAM, 1, ana)

	prog, warnings := New().Generate(program)
	require.Empty(t, warnings)

	disasm := prog.Disassemble()
	require.Contains(t, disasm, "PUSH 42")
	require.Contains(t, disasm, "0005 PUSH 42\n0010 RETVAL")
	require.NotEqual(t, bytecode.NoMainEntry, prog.MainEntry)
}

// TestJumpsResolveWithinCodeArray checks that every JMP/JZ/JNZ/CALL
// operand is non-negative and points within the code array.
func TestJumpsResolveWithinCodeArray(t *testing.T) {
	cond := binary(">", ident("x"), num("5"))
	decl := ast.New(ast.VAR_DECL, 1, num("10")).WithValue("x").WithType("int")
	ifElse := ast.New(ast.IF_ELSE, 1, cond, ret(num("1")), ret(num("0")))
	ana := function("ana", "int", paramList(), block(decl, ifElse))
	program := ast.New(ast.PROGRAM, 1, ana)

	prog, warnings := New().Generate(program)
	require.Empty(t, warnings)

	i := 0
	for i < len(prog.Code) {
		def, err := bytecode.Lookup(prog.Code[i])
		require.NoError(t, err)
		width := 1
		if def.HasOperand {
			width = 5
		}
		if def.Name == "JMP" || def.Name == "JZ" || def.Name == "JNZ" || def.Name == "CALL" {
			operand := bytecode.ReadOperand(prog.Code[i+1:])
			require.GreaterOrEqual(t, operand, 0)
			require.Less(t, operand, len(prog.Code))
		}
		i += width
	}
}

func TestFunctionCallResolvesIndexByName(t *testing.T) {
	topla := function("topla", "int",
		paramList(param("a", "int"), param("b", "int")),
		block(ret(binary("+", ident("a"), ident("b")))))

	call := ast.New(ast.FUNCTION_CALL, 1, ast.New(ast.ARGUMENT_LIST, 1, num("20"), num("22"))).WithValue("topla")
	ana := function("ana", "int", paramList(), block(ret(call)))
	program := ast.New(ast.PROGRAM, 1, topla, ana)

	prog, warnings := New().Generate(program)
	require.Empty(t, warnings)
	require.Len(t, prog.Functions, 2)
	require.Equal(t, "topla", prog.Functions[0].Name)
	require.Equal(t, 2, prog.Functions[0].ParamCount)
}

func TestEnterOperandReflectsExactLocalCount(t *testing.T) {
	declA := ast.New(ast.VAR_DECL, 1, num("1")).WithValue("a").WithType("int")
	declB := ast.New(ast.VAR_DECL, 1, num("2")).WithValue("b").WithType("int")
	ana := function("ana", "int", paramList(), block(declA, declB, ret(ident("a"))))
	program := ast.New(ast.PROGRAM, 1, ana)

	prog, _ := New().Generate(program)
	require.Equal(t, 2, prog.Functions[0].LocalCount, "ENTER's operand must reflect the exact local count, not a fixed 32")
}

func TestIfWithEmptyThenBlockDoesNotPanic(t *testing.T) {
	// A degenerate IF whose then-branch is an empty BLOCK must not crash
	// codegen; it is exercised here only to confirm Generate does not panic
	// when the if.end label is bound directly after the JZ that targets it.
	cond := num("1")
	ifNode := ast.New(ast.IF, 1, cond, ast.New(ast.BLOCK, 1))
	ana := function("ana", "void", paramList(), block(ifNode, ret(nil)))
	program := ast.New(ast.PROGRAM, 1, ana)

	require.NotPanics(t, func() {
		New().Generate(program)
	})
}
