package codegen

import (
	"fmt"

	"github.com/anaclang/anac/bytecode"
)

// newLabel returns a fresh, uniquely-named label with the given prefix
// (e.g. "if.else", "while.end"). Naming labels symbolically, rather than
// using bare integer jump targets, is what lets [Generator.finalizeLabels]
// report *which* control-flow construct never resolved instead of just
// that some fixup failed.
func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s.%d", prefix, g.labelCounter)
}

// bindLabel resolves a label to the current instruction address. Repeated
// binds are not refused: binding a label again overwrites its address, and
// a backward jump already emitted against the first address keeps it. Every
// label comes from [Generator.newLabel], which never returns the same name
// twice, and each construct binds its own labels once, so the generator
// itself never rebinds a label.
func (g *Generator) bindLabel(label string) {
	if g.labels == nil {
		g.labels = make(map[string]int)
	}
	g.labels[label] = g.currentAddress()
}

// emitJump emits a jump-family instruction (JMP/JZ/JNZ) targeting label.
// If the label is already bound (a backward jump, e.g. a loop's JMP back
// to its condition), the final address is written immediately. Otherwise
// a placeholder operand of -1 is emitted and the fixup is queued for
// [Generator.finalizeLabels].
func (g *Generator) emitJump(op bytecode.Opcode, label string) {
	if addr, ok := g.labels[label]; ok {
		g.emit(op, addr)
		return
	}
	pos := g.emit(op, -1)
	g.pending = append(g.pending, pendingJump{operandPos: pos, label: label})
}

// finalizeLabels patches every queued forward jump against its now-bound
// label. An unresolved label at this point is reported but not fatal: the
// operand is left at -1, which the VM traps on.
func (g *Generator) finalizeLabels() {
	for _, p := range g.pending {
		addr, ok := g.labels[p.label]
		if !ok {
			g.warn("label %q was never bound; jump at %d left unresolved", p.label, p.operandPos)
			continue
		}
		g.prog.Code.PatchOperand(p.operandPos, addr)
	}
	g.pending = nil
}
