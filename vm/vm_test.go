package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
	"github.com/anaclang/anac/codegen"
	"github.com/anaclang/anac/vm"
)

// The helpers below build small ASTs directly, bypassing the parser, the
// same way codegen's own tests do — these exercise codegen and vm
// together, end to end.

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
func decl(name, typ string, v *ast.Node) *ast.Node {
	return ast.New(ast.VAR_DECL, 1, v).WithValue(name).WithType(typ)
}
func assign(name string, v *ast.Node) *ast.Node {
	return ast.New(ast.ASSIGNMENT, 1, ast.New(ast.IDENTIFIER, 1).WithValue(name), v)
}
func exprStmt(e *ast.Node) *ast.Node { return ast.New(ast.EXPR_STATEMENT, 1, e) }

func compile(t *testing.T, program *ast.Node) *bytecode.Program {
	t.Helper()
	prog, warnings := codegen.New().Generate(program)
	require.Empty(t, warnings)
	return prog
}

// Scenario 1: return constant.
func TestReturnConstant(t *testing.T) {
	ana := function("ana", "int", paramList(), block(ret(num("42"))))
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 42, code)
}

// Scenario 2: arithmetic, (3 + 4) * 2 - 1 == 13.
func TestArithmetic(t *testing.T) {
	expr := binary("-", binary("*", binary("+", num("3"), num("4")), num("2")), num("1"))
	ana := function("ana", "int", paramList(), block(ret(expr)))
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 13, code)
}

// Scenario 3: branching. x = 10; if (x > 5) return 1; else return 0;
func TestBranching(t *testing.T) {
	body := block(
		decl("x", "int", num("10")),
		ast.New(ast.IF_ELSE, 1, binary(">", ident("x"), num("5")), ret(num("1")), ret(num("0"))),
	)
	ana := function("ana", "int", paramList(), body)
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 1, code)
}

// Same as above but comparing against 50 instead of 5, so the condition is
// false and the else branch runs.
func TestBranchingFalseBranch(t *testing.T) {
	body := block(
		decl("x", "int", num("10")),
		ast.New(ast.IF_ELSE, 1, binary(">", ident("x"), num("50")), ret(num("1")), ret(num("0"))),
	)
	ana := function("ana", "int", paramList(), body)
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 0, code)
}

// Scenario 4: while loop summing 1..10.
func TestWhileLoopSum(t *testing.T) {
	body := block(
		decl("i", "int", num("1")),
		decl("sum", "int", num("0")),
		ast.New(ast.WHILE, 1,
			binary("<=", ident("i"), num("10")),
			block(
				exprStmt(assign("sum", binary("+", ident("sum"), ident("i")))),
				exprStmt(assign("i", binary("+", ident("i"), num("1")))),
			),
		),
		ret(ident("sum")),
	)
	ana := function("ana", "int", paramList(), body)
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 55, code)
}

// Scenario 5: function call with parameters.
func TestFunctionCallWithParameters(t *testing.T) {
	topla := function("topla", "int",
		paramList(param("a", "int"), param("b", "int")),
		block(ret(binary("+", ident("a"), ident("b")))))
	call := ast.New(ast.FUNCTION_CALL, 1, ast.New(ast.ARGUMENT_LIST, 1, num("20"), num("22"))).WithValue("topla")
	ana := function("ana", "int", paramList(), block(ret(call)))
	prog := compile(t, ast.New(ast.PROGRAM, 1, topla, ana))

	code, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 42, code)
}

// Scenario 8: division trap.
func TestDivisionTrap(t *testing.T) {
	ana := function("ana", "int", paramList(), block(ret(binary("/", num("10"), num("0")))))
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code, trap := vm.New(prog).Run()
	require.NotNil(t, trap)
	require.Equal(t, -1, code)
	require.Contains(t, trap.Error(), "division by zero")
}

// Determinism: the same bytecode run twice in fresh VMs yields the same
// exit code.
func TestDeterminism(t *testing.T) {
	expr := binary("-", binary("*", binary("+", num("3"), num("4")), num("2")), num("1"))
	ana := function("ana", "int", paramList(), block(ret(expr)))
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	code1, trap1 := vm.New(prog).Run()
	code2, trap2 := vm.New(prog).Run()
	require.Nil(t, trap1)
	require.Nil(t, trap2)
	require.Equal(t, code1, code2)
}

// Stack overflow is a trap, not a panic, on a deliberately undersized stack.
func TestStackOverflowTraps(t *testing.T) {
	expr := binary("+", num("1"), num("2"))
	ana := function("ana", "int", paramList(), block(ret(expr)))
	prog := compile(t, ast.New(ast.PROGRAM, 1, ana))

	cfg := vm.DefaultConfig()
	cfg.StackSize = cfg.GlobalsSize + 1
	_, trap := vm.NewWithConfig(prog, cfg).Run()
	require.NotNil(t, trap)
	require.Contains(t, trap.Error(), "stack overflow")
}

// A program with no `ana` function is not executable.
func TestNoMainEntryTraps(t *testing.T) {
	topla := function("topla", "int", paramList(), block(ret(num("1"))))
	prog := compile(t, ast.New(ast.PROGRAM, 1, topla))

	code, trap := vm.New(prog).Run()
	require.NotNil(t, trap)
	require.Equal(t, -1, code)
}

// LOAD_GLOBAL/STORE_GLOBAL are never emitted by codegen, so they need a
// hand-assembled program to exercise: store 7 at global address 0, then
// load it back and return it.
func TestGlobalStoreAndLoad(t *testing.T) {
	var code bytecode.Instructions
	code = append(code, bytecode.Make(bytecode.PUSH, 7)...)
	code = append(code, bytecode.Make(bytecode.STORE_GLOBAL, 0)...)
	code = append(code, bytecode.Make(bytecode.LOAD_GLOBAL, 0)...)
	code = append(code, bytecode.Make(bytecode.RETVAL, 0)...)

	prog := bytecode.NewProgram()
	prog.Code = code
	prog.Functions = []bytecode.FunctionEntry{{Name: "ana", Entry: 0, ParamCount: 0, LocalCount: 0}}
	prog.MainEntry = 0

	exitCode, trap := vm.New(prog).Run()
	require.Nil(t, trap)
	require.Equal(t, 7, exitCode)
}
