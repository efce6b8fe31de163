// Package analyzer implements the two-pass semantic analyzer: scope-aware
// symbol resolution and type checking over the AST the parser produces.
//
// Pass 1 harvests every top-level function's signature so mutual recursion
// needs no forward declarations. Pass 2 walks every function body, opening
// and closing scopes symmetrically, checking declarations, expressions,
// and control flow against the symbol table pass 1 built.
package analyzer

import (
	"fmt"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/symtab"
)

// Analyzer performs semantic analysis over a single PROGRAM root.
type Analyzer struct {
	symbols     *symtab.Table
	diagnostics []Diagnostic

	currentReturnType DataType
}

// New creates an Analyzer with a fresh symbol table.
func New() *Analyzer {
	return &Analyzer{symbols: symtab.New()}
}

// Result is the outcome of [Analyzer.Analyze]: the diagnostics collected
// and the symbol table built. The code generator does not take the symbol
// table as input; it keeps its own per-function local table.
type Result struct {
	Diagnostics []Diagnostic
	Symbols     *symtab.Table
}

// Success reports whether zero diagnostics were recorded.
func (r Result) Success() bool { return len(r.Diagnostics) == 0 }

// Analyze runs both passes over the PROGRAM root and returns the collected
// diagnostics and symbol table. The symbol table survives analysis and is
// returned regardless of success, since a partially analyzed program's
// symbols are still useful context for reporting.
func (a *Analyzer) Analyze(program *ast.Node) Result {
	a.harvestFunctions(program)
	for _, fn := range program.Children {
		if fn.Kind != ast.FUNCTION {
			continue
		}
		a.analyzeFunctionBody(fn)
	}
	return Result{Diagnostics: a.diagnostics, Symbols: a.symbols}
}

func (a *Analyzer) report(line int, format string, args ...any) {
	if len(a.diagnostics) >= MaxDiagnostics {
		return
	}
	a.diagnostics = append(a.diagnostics, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// harvestFunctions is pass 1: declare every function's signature at global
// scope before any body is analyzed, so forward and mutually-recursive
// calls resolve. A duplicate function name is diagnosed but not fatal —
// the later definition is skipped for declaration purposes while analysis
// continues over the rest of the program.
func (a *Analyzer) harvestFunctions(program *ast.Node) {
	for _, fn := range program.Children {
		if fn.Kind != ast.FUNCTION {
			continue
		}
		returnType := fn.Type

		sym, ok := a.symbols.DeclareFunction(fn.Value, returnType, fn.Line)
		if !ok {
			a.report(fn.Line, "function %q is already declared (previous declaration at line %d)", fn.Value, sym.Line)
			continue
		}

		params := fn.Child(0)
		if params == nil || params.Kind != ast.PARAM_LIST {
			continue
		}
		for _, p := range params.Children {
			if err := a.symbols.AddParameter(sym, p.Value, p.Type); err != nil {
				a.report(p.Line, "%s", err)
				break
			}
		}
	}
}

// analyzeFunctionBody is pass 2 for a single function: it establishes the
// expected return type, opens the function's scope, re-declares each
// parameter as a PARAMETER symbol in that same scope, then analyzes the
// body BLOCK without it opening a further scope of its own — the
// function's scope *is* the outer block scope.
func (a *Analyzer) analyzeFunctionBody(fn *ast.Node) {
	prevReturn := a.currentReturnType
	a.currentReturnType = ParseType(fn.Type)
	defer func() { a.currentReturnType = prevReturn }()

	a.symbols.EnterScope()
	defer a.symbols.ExitScope()

	params := fn.Child(0)
	if params != nil && params.Kind == ast.PARAM_LIST {
		for _, p := range params.Children {
			if _, ok := a.symbols.Declare(p.Value, symtab.PARAMETER, p.Type, p.Line); !ok {
				a.report(p.Line, "duplicate parameter name %q", p.Value)
			}
		}
	}

	body := fn.Child(1)
	if body == nil {
		return
	}
	a.analyzeStatementsNoScope(body)
}

// analyzeBlock analyzes a BLOCK statement, opening and closing its own
// scope — used for every nested block except a function's own body, which
// reuses its function-entry scope via analyzeStatementsNoScope.
func (a *Analyzer) analyzeBlock(block *ast.Node) {
	a.symbols.EnterScope()
	defer a.symbols.ExitScope()
	a.analyzeStatementsNoScope(block)
}

func (a *Analyzer) analyzeStatementsNoScope(block *ast.Node) {
	for _, stmt := range block.Children {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeStatement(node *ast.Node) {
	switch node.Kind {
	case ast.VAR_DECL:
		a.analyzeVarDecl(node)
	case ast.BLOCK:
		a.analyzeBlock(node)
	case ast.IF:
		a.analyzeCondition(node.Child(ast.IfCond))
		a.analyzeStatement(node.Child(ast.IfThen))
	case ast.IF_ELSE:
		a.analyzeCondition(node.Child(ast.IfElseCond))
		a.analyzeStatement(node.Child(ast.IfElseThen))
		a.analyzeStatement(node.Child(ast.IfElseElse))
	case ast.WHILE:
		a.analyzeCondition(node.Child(ast.WhileCond))
		a.analyzeStatement(node.Child(ast.WhileBody))
	case ast.FOR:
		a.analyzeFor(node)
	case ast.RETURN:
		a.analyzeReturn(node)
	case ast.EXPR_STATEMENT:
		a.analyzeExpression(node.Child(0))
	case ast.EMPTY:
		// nothing to check
	default:
		a.report(node.Line, "unexpected statement kind %s", node.Kind)
	}
}

// analyzeCondition checks that an IF/WHILE/FOR condition's type is not
// VOID. It need not be boolean: nonzero-is-true is the runtime convention.
func (a *Analyzer) analyzeCondition(cond *ast.Node) {
	if cond == nil {
		return
	}
	t := a.analyzeExpression(cond)
	if t == VOID {
		a.report(cond.Line, "condition must not be void")
	}
}

// analyzeFor opens a scope enclosing init/cond/update/body so an init
// declaration is local to the loop.
func (a *Analyzer) analyzeFor(node *ast.Node) {
	a.symbols.EnterScope()
	defer a.symbols.ExitScope()

	if init := node.Child(ast.ForInit); init != nil && init.Kind != ast.EMPTY {
		a.analyzeStatement(init)
	}
	if cond := node.Child(ast.ForCond); cond != nil && cond.Kind != ast.EMPTY {
		a.analyzeCondition(cond)
	}
	if body := node.Child(ast.ForBody); body != nil {
		a.analyzeStatement(body)
	}
	if update := node.Child(ast.ForUpdate); update != nil && update.Kind != ast.EMPTY {
		a.analyzeExpression(update)
	}
}

func (a *Analyzer) analyzeVarDecl(node *ast.Node) {
	declared := ParseType(node.Type)
	if declared == VOID {
		a.report(node.Line, "variable %q cannot be declared void", node.Value)
		declared = ERROR
	}

	sym, ok := a.symbols.Declare(node.Value, symtab.VARIABLE, node.Type, node.Line)
	if !ok {
		a.report(node.Line, "%q is already declared in this scope (previous declaration at line %d)", node.Value, sym.Line)
	}

	if init := node.Child(0); init != nil {
		initType := a.analyzeExpression(init)
		if !typesCompatible(declared, initType) {
			a.report(node.Line, "cannot initialize %q of type %s with value of type %s", node.Value, declared, initType)
		}
	}
}

// analyzeReturn checks a RETURN statement against the enclosing function's
// declared return type.
func (a *Analyzer) analyzeReturn(node *ast.Node) {
	value := node.Child(0)
	if value == nil {
		if a.currentReturnType != VOID {
			a.report(node.Line, "function must return %s", a.currentReturnType)
		}
		return
	}

	valueType := a.analyzeExpression(value)
	if a.currentReturnType == VOID {
		a.report(node.Line, "void function cannot return a value")
		return
	}
	if !typesCompatible(a.currentReturnType, valueType) {
		a.report(node.Line, "return type mismatch: expected %s, got %s", a.currentReturnType, valueType)
	}
}

// analyzeExpression analyzes an expression node and returns its [DataType],
// reporting diagnostics along the way. It never returns a bare Go zero
// value to signal failure — callers get ERROR. ERROR is compatible with no
// type, so an enclosing declaration, assignment, operator, return, or call
// argument that receives it reports a diagnostic of its own as well; follow-on
// diagnostics are not suppressed.
func (a *Analyzer) analyzeExpression(node *ast.Node) DataType {
	if node == nil {
		return ERROR
	}

	switch node.Kind {
	case ast.NUMBER_LITERAL:
		return INT

	case ast.STRING_LITERAL:
		// Acknowledged simplification: string literals parse and type-check
		// as INT but carry no runtime string value.
		return INT

	case ast.IDENTIFIER:
		sym, ok := a.symbols.Lookup(node.Value)
		if !ok {
			a.report(node.Line, "undeclared identifier %q", node.Value)
			return ERROR
		}
		if sym.Kind == symtab.FUNCTION {
			a.report(node.Line, "%q is a function, not a value", node.Value)
			return ERROR
		}
		return ParseType(sym.Type)

	case ast.ASSIGNMENT:
		return a.analyzeAssignment(node)

	case ast.BINARY_EXPR:
		return a.analyzeBinary(node)

	case ast.UNARY_EXPR:
		operand := a.analyzeExpression(node.Child(ast.UnaryOperand))
		if operand == VOID {
			a.report(node.Line, "operand of %q must not be void", node.Value)
			return ERROR
		}
		return operand

	case ast.FUNCTION_CALL:
		return a.analyzeCall(node)

	default:
		a.report(node.Line, "unexpected expression kind %s", node.Kind)
		return ERROR
	}
}

func (a *Analyzer) analyzeAssignment(node *ast.Node) DataType {
	target := node.Child(ast.AssignTarget)
	value := node.Child(ast.AssignValue)

	if target == nil || target.Kind != ast.IDENTIFIER {
		a.report(node.Line, "left-hand side of an assignment must be an identifier")
		a.analyzeExpression(value)
		return ERROR
	}

	sym, ok := a.symbols.Lookup(target.Value)
	if !ok {
		a.report(target.Line, "undeclared identifier %q", target.Value)
		a.analyzeExpression(value)
		return ERROR
	}

	targetType := ParseType(sym.Type)
	valueType := a.analyzeExpression(value)
	if !typesCompatible(targetType, valueType) {
		a.report(node.Line, "cannot assign value of type %s to %q of type %s", valueType, target.Value, targetType)
	}
	return targetType
}

// comparisonOps yield INT (as a 0/1 boolean) regardless of operand type;
// the remaining binary operators are arithmetic and yield the common
// operand type.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

func (a *Analyzer) analyzeBinary(node *ast.Node) DataType {
	left := a.analyzeExpression(node.Child(ast.BinaryLeft))
	right := a.analyzeExpression(node.Child(ast.BinaryRight))

	if left == VOID || right == VOID {
		a.report(node.Line, "operand of %q must not be void", node.Value)
		return ERROR
	}
	if !typesCompatible(left, right) {
		a.report(node.Line, "incompatible operand types %s and %s for %q", left, right, node.Value)
		return ERROR
	}
	if comparisonOps[node.Value] {
		return INT
	}
	return left
}

func (a *Analyzer) analyzeCall(node *ast.Node) DataType {
	sym, ok := a.symbols.Lookup(node.Value)
	if !ok {
		a.report(node.Line, "call to undeclared function %q", node.Value)
		a.analyzeArguments(node)
		return ERROR
	}
	if sym.Kind != symtab.FUNCTION {
		a.report(node.Line, "%q is not a function", node.Value)
		a.analyzeArguments(node)
		return ERROR
	}

	args := node.Child(0)
	argNodes := []*ast.Node(nil)
	if args != nil && args.Kind == ast.ARGUMENT_LIST {
		argNodes = args.Children
	}

	params := sym.Signature.Params
	if len(argNodes) != len(params) {
		a.report(node.Line, "function %q expects %d argument(s), got %d", node.Value, len(params), len(argNodes))
	}

	n := len(argNodes)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		argType := a.analyzeExpression(argNodes[i])
		paramType := ParseType(params[i].Type)
		if !typesCompatible(paramType, argType) {
			a.report(argNodes[i].Line, "argument %d to %q: expected %s, got %s", i+1, node.Value, paramType, argType)
		}
	}
	for i := n; i < len(argNodes); i++ {
		a.analyzeExpression(argNodes[i])
	}

	return ParseType(sym.Signature.ReturnType)
}

func (a *Analyzer) analyzeArguments(call *ast.Node) {
	args := call.Child(0)
	if args == nil || args.Kind != ast.ARGUMENT_LIST {
		return
	}
	for _, arg := range args.Children {
		a.analyzeExpression(arg)
	}
}
