package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Make encodes a single instruction for the given opcode and operand. Pass
// operand 0 for an opcode that takes none.
func Make(op Opcode, operand int) Instructions {
	def, ok := definitions[op]
	if !ok {
		return Instructions{}
	}
	if !def.HasOperand {
		return Instructions{byte(op)}
	}
	ins := make(Instructions, 5)
	ins[0] = byte(op)
	binary.BigEndian.PutUint32(ins[1:], uint32(operand))
	return ins
}

// ReadOperand decodes the 4-byte big-endian operand starting at ins[0].
func ReadOperand(ins Instructions) int {
	return int(int32(binary.BigEndian.Uint32(ins)))
}

// PatchOperand overwrites the operand of the instruction at byte offset pos
// with a new value. pos must point at an opcode byte whose instruction
// carries an operand — used by the code generator to fix up forward jumps
// and ENTER's local count once they are known.
func (ins Instructions) PatchOperand(pos, operand int) {
	binary.BigEndian.PutUint32(ins[pos+1:pos+5], uint32(operand))
}

// String renders a human-readable disassembly, one instruction per line,
// prefixed by its byte offset — used by [Program.Disassemble] and by the
// VM's verbose trap diagnostics.
func (ins Instructions) String() string {
	var out strings.Builder
	i := 0
	for i < len(ins) {
		def, err := Lookup(ins[i])
		if err != nil {
			fmt.Fprintf(&out, "%04d ERROR: %s\n", i, err)
			i++
			continue
		}
		if def.HasOperand {
			operand := ReadOperand(ins[i+1:])
			fmt.Fprintf(&out, "%04d %s %d\n", i, def.Name, operand)
			i += 5
		} else {
			fmt.Fprintf(&out, "%04d %s\n", i, def.Name)
			i++
		}
	}
	return out.String()
}
