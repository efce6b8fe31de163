package codegen

import (
	"github.com/anaclang/anac/ast"
	"github.com/anaclang/anac/bytecode"
)

// generateFunction compiles one FUNCTION node: it resets all per-function
// generator state, pre-registers parameters at slots 0..k-1, emits the
// prologue, the body, and a default fallthrough return, then patches
// ENTER's operand with the function's actual local-slot high-water mark
// (rather than reserving a fixed upper bound) and records the function's
// table entry.
func (g *Generator) generateFunction(fn *ast.Node) {
	g.locals = make(map[string]int)
	g.labels = make(map[string]int)
	g.pending = nil
	g.nextSlot = 0

	params := fn.Child(0)
	paramCount := 0
	if params != nil && params.Kind == ast.PARAM_LIST {
		for _, p := range params.Children {
			g.locals[p.Value] = g.nextSlot
			g.nextSlot++
			paramCount++
		}
	}

	entry := g.currentAddress()
	g.enterPos = g.emit(bytecode.ENTER, 0)

	if body := fn.Child(1); body != nil {
		g.generateBlock(body)
	}

	// Default fallthrough: PUSH 0; RETVAL, in case the body falls through
	// without an explicit return on every path.
	g.emit(bytecode.PUSH, 0)
	g.emit(bytecode.RETVAL, 0)

	g.finalizeLabels()
	g.prog.Code.PatchOperand(g.enterPos, g.nextSlot)

	idx := g.funcIndex[fn.Value]
	g.prog.Functions[idx] = bytecode.FunctionEntry{
		Name:       fn.Value,
		Entry:      entry,
		ParamCount: paramCount,
		LocalCount: g.nextSlot,
	}

	if fn.Value == "ana" {
		g.prog.MainEntry = entry
	}
}

func (g *Generator) generateBlock(block *ast.Node) {
	for _, stmt := range block.Children {
		g.generateStatement(stmt)
	}
}

// resolveLocal returns the slot for name, adding it to the local table if
// absent. The generator is deliberately more permissive here than the
// analyzer: a duplicate VAR_DECL reaching codegen reuses its existing slot
// rather than erroring. This path is unreachable on analyzer-verified
// input, since the CLI never runs codegen over a program with
// diagnostics.
func (g *Generator) resolveLocal(name string) (slot int, existed bool) {
	if slot, ok := g.locals[name]; ok {
		return slot, true
	}
	slot = g.nextSlot
	g.locals[name] = slot
	g.nextSlot++
	return slot, false
}
