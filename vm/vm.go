// Package vm implements the stack-based virtual machine that executes a
// compiled [bytecode.Program]: an operand stack, a call-frame stack, and a
// dispatch loop over the instruction set bytecode defines.
package vm

import (
	"fmt"

	"github.com/anaclang/anac/bytecode"
)

// Default capacities. These are advisory defaults, not hard limits of the
// format — exceeding them traps rather than growing the containers, since
// a fixed bound is what makes stack/call-stack overflow a detectable,
// testable VM trap.
const (
	DefaultStackSize     = 1024
	DefaultCallStackSize = 64

	// DefaultGlobalsSize is the size of the dedicated globals region
	// LOAD_GLOBAL/STORE_GLOBAL address into. Globals live in their own
	// segment at the low end of the stack array, disjoint from the
	// locals/argument region frame base pointers index into.
	DefaultGlobalsSize = 256
)

// Config sizes a VM's fixed-capacity resources. The zero value is not
// valid; use [DefaultConfig].
type Config struct {
	StackSize     int
	CallStackSize int
	GlobalsSize   int
	Debug         bool
}

// DefaultConfig returns the reference capacities.
func DefaultConfig() Config {
	return Config{
		StackSize:     DefaultStackSize,
		CallStackSize: DefaultCallStackSize,
		GlobalsSize:   DefaultGlobalsSize,
	}
}

// VM is a single, independent interpreter instance. Multiple VMs may run
// concurrently on separate goroutines provided each owns its own
// instance — nothing here is shared mutable state.
type VM struct {
	prog *bytecode.Program
	cfg  Config

	stack []int
	sp    int

	frames []Frame
	fp     int

	pc       int
	running  bool
	exitCode int

	trap *Trap
}

// New creates a VM for prog with the default resource configuration.
func New(prog *bytecode.Program) *VM {
	return NewWithConfig(prog, DefaultConfig())
}

// NewWithConfig creates a VM for prog with an explicit [Config] — used by
// tests that need a small stack to exercise overflow traps deterministically.
func NewWithConfig(prog *bytecode.Program, cfg Config) *VM {
	return &VM{
		prog:   prog,
		cfg:    cfg,
		stack:  make([]int, cfg.StackSize),
		frames: make([]Frame, cfg.CallStackSize),
	}
}

// SetDebug toggles the VM's trace/debug flag, which gates [Trap.Verbose]'s
// instruction-window-and-stack rendering on a trap.
func (vm *VM) SetDebug(debug bool) { vm.cfg.Debug = debug }

// Run executes the program from its `ana` entry point to completion. It
// returns the program's exit code and, if execution stopped on a trap
// rather than a normal RET/RETVAL/HALT, the [Trap] that stopped it.
func (vm *VM) Run() (int, *Trap) {
	if vm.prog.MainEntry == bytecode.NoMainEntry {
		return -1, vm.fail(0, "no %q function was compiled; program is not executable", "ana")
	}

	vm.sp = vm.cfg.GlobalsSize
	vm.fp = 0
	vm.frames[0] = Frame{FuncIdx: -1, ReturnAddr: len(vm.prog.Code), BasePtr: vm.cfg.GlobalsSize}
	vm.pc = vm.prog.MainEntry
	vm.running = true
	vm.exitCode = 0

	code := vm.prog.Code
	for vm.running && vm.pc < len(code) {
		if vm.trap != nil {
			break
		}
		if vm.pc < 0 {
			vm.fail(vm.pc, "jump to invalid address %d", vm.pc)
			break
		}

		op := bytecode.Opcode(code[vm.pc])
		def, err := bytecode.Lookup(code[vm.pc])
		if err != nil {
			vm.fail(vm.pc, "unknown opcode %d", code[vm.pc])
			break
		}

		operand := 0
		width := 1
		if def.HasOperand {
			operand = bytecode.ReadOperand(code[vm.pc+1:])
			width = 5
		}
		vm.pc += width

		vm.dispatch(op, operand)
	}

	if vm.trap != nil {
		return -1, vm.trap
	}
	return vm.exitCode, nil
}

func (vm *VM) dispatch(op bytecode.Opcode, operand int) {
	switch op {
	case bytecode.NOP:
		// no effect

	case bytecode.PUSH:
		vm.push(operand)

	case bytecode.POP:
		vm.pop()

	case bytecode.DUP:
		top := vm.peek()
		vm.push(top)

	case bytecode.LOAD:
		vm.push(vm.loadLocal(operand))

	case bytecode.STORE:
		vm.storeLocal(operand, vm.pop())

	case bytecode.LOAD_GLOBAL:
		vm.push(vm.loadGlobal(operand))

	case bytecode.STORE_GLOBAL:
		vm.storeGlobal(operand, vm.pop())

	case bytecode.ADD:
		b, a := vm.pop(), vm.pop()
		vm.push(a + b)
	case bytecode.SUB:
		b, a := vm.pop(), vm.pop()
		vm.push(a - b)
	case bytecode.MUL:
		b, a := vm.pop(), vm.pop()
		vm.push(a * b)
	case bytecode.DIV:
		b, a := vm.pop(), vm.pop()
		if b == 0 {
			vm.fail(vm.pc, "division by zero")
			return
		}
		vm.push(a / b)
	case bytecode.MOD:
		b, a := vm.pop(), vm.pop()
		if b == 0 {
			vm.fail(vm.pc, "division by zero")
			return
		}
		vm.push(a % b)
	case bytecode.NEG:
		vm.push(-vm.pop())

	case bytecode.EQ:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a == b))
	case bytecode.NEQ:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a != b))
	case bytecode.LT:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a < b))
	case bytecode.GT:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a > b))
	case bytecode.LEQ:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a <= b))
	case bytecode.GEQ:
		b, a := vm.pop(), vm.pop()
		vm.push(boolToInt(a >= b))

	case bytecode.JMP:
		vm.pc = operand

	case bytecode.JZ:
		if vm.pop() == 0 {
			vm.pc = operand
		}

	case bytecode.JNZ:
		if vm.pop() != 0 {
			vm.pc = operand
		}

	case bytecode.CALL:
		vm.call(operand)

	case bytecode.RET:
		vm.doReturn(false)

	case bytecode.RETVAL:
		vm.doReturn(true)

	case bytecode.ENTER:
		if vm.fp == 0 {
			vm.sp = vm.frames[0].BasePtr + operand
		}
		// at fp>0, CALL already reserved the callee's locals.

	case bytecode.PRINT:
		vm.pop() // diagnostic sink; unused by the compiler

	case bytecode.PRINT_STR:
		vm.pop()

	case bytecode.HALT:
		vm.running = false
		if vm.sp > vm.cfg.GlobalsSize {
			vm.exitCode = vm.stack[vm.sp-1]
		}

	default:
		vm.fail(vm.pc, "unknown opcode %d", op)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) fail(pc int, format string, args ...any) *Trap {
	t := &Trap{PC: pc, Message: fmt.Sprintf(format, args...)}
	if vm.cfg.Debug {
		t.stackSnapshot = append([]int(nil), vm.stack[:vm.sp]...)
		t.window = vm.disassembleWindow(pc)
	}
	vm.trap = t
	vm.running = false
	vm.exitCode = -1
	return t
}

// disassembleWindow renders the few instructions surrounding pc, for
// [Trap.Verbose]'s debug rendering.
func (vm *VM) disassembleWindow(pc int) string {
	const radius = 16
	start := pc - radius
	if start < 0 {
		start = 0
	}
	end := pc + radius
	if end > len(vm.prog.Code) {
		end = len(vm.prog.Code)
	}
	return bytecode.Instructions(vm.prog.Code[start:end]).String()
}
