// Package codegen lowers an analyzed AST into a [bytecode.Program]: a
// single pass over the tree that emits a linear instruction stream and a
// function table, resolves forward jumps by named-label patching, and
// assigns each local a flat stack-slot offset.
//
// Each function compiles into its own instruction range with its own
// local-slot table and label namespace, reset at function entry, then
// appended to the program's flat function table of entry addresses and
// local-slot counts. Jump targets are named labels rather than bare
// integer offsets, so an unresolved fixup can be reported by the name of
// the control-flow construct it belongs to instead of just a byte offset.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
)

// pendingJump is a forward reference: the byte offset of a jump
// instruction (its opcode byte, as [bytecode.Instructions.PatchOperand]
// expects), waiting on a label that was not yet bound when the jump was
// emitted.
type pendingJump struct {
	operandPos int
	label      string
}

// Generator lowers a PROGRAM node into a [bytecode.Program].
type Generator struct {
	prog *bytecode.Program

	// funcIndex maps a function name to its position in prog.Functions,
	// looked up by name when a call site is compiled.
	funcIndex map[string]int

	// Per-function state, reset at the start of each FUNCTION node.
	locals       map[string]int
	nextSlot     int
	labels       map[string]int // label name -> bound address, or unresolved if absent
	pending      []pendingJump
	enterPos     int
	labelCounter int

	warnings []string
}

// New creates a Generator.
func New() *Generator {
	return &Generator{prog: bytecode.NewProgram(), funcIndex: make(map[string]int)}
}

// warn records a code generator diagnostic. These are never fatal: they
// are collected for the caller (the CLI) to print to stderr, and
// generation always produces a bytecode program, even one that will trap
// at runtime.
func (g *Generator) warn(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

// Generate lowers program (a PROGRAM node) into a [bytecode.Program] and
// returns any generator warnings alongside it.
func (g *Generator) Generate(program *ast.Node) (*bytecode.Program, []string) {
	g.registerFunctionTable(program)

	for _, fn := range program.Children {
		if fn.Kind != ast.FUNCTION {
			continue
		}
		g.generateFunction(fn)
	}
	g.emit(bytecode.HALT, 0)

	g.finalizeLabels()
	return g.prog, g.warnings
}

// registerFunctionTable pre-assigns every function's index and name before
// any body is compiled, so a call to a function defined later in the
// source still resolves — entry/param/local counts are filled in as each
// function is actually compiled.
func (g *Generator) registerFunctionTable(program *ast.Node) {
	for _, fn := range program.Children {
		if fn.Kind != ast.FUNCTION {
			continue
		}
		if _, exists := g.funcIndex[fn.Value]; exists {
			continue
		}
		g.funcIndex[fn.Value] = len(g.prog.Functions)
		g.prog.Functions = append(g.prog.Functions, bytecode.FunctionEntry{Name: fn.Value})
	}
}

func (g *Generator) emit(op bytecode.Opcode, operand int) int {
	pos := len(g.prog.Code)
	g.prog.Code = append(g.prog.Code, bytecode.Make(op, operand)...)
	return pos
}

// currentAddress returns the address the next emitted instruction will
// occupy — used to bind labels and to mark a function's entry point.
func (g *Generator) currentAddress() int {
	return len(g.prog.Code)
}

func atoi(lit string) int {
	n, err := strconv.Atoi(lit)
	if err != nil {
		return 0
	}
	return n
}
