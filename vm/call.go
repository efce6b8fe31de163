package vm

// call implements CALL's calling convention: the callee's base pointer is
// the current stack pointer minus its parameter count, so the arguments
// already pushed by the caller become slots 0..param_count-1 of the new
// frame; its locals then occupy the slots above them.
func (vm *VM) call(funcIdx int) {
	if funcIdx < 0 || funcIdx >= len(vm.prog.Functions) {
		vm.fail(vm.pc, "call to invalid function index %d", funcIdx)
		return
	}
	if vm.fp+1 >= len(vm.frames) {
		vm.fail(vm.pc, "call stack overflow (capacity %d)", len(vm.frames))
		return
	}

	fn := vm.prog.Functions[funcIdx]
	basePtr := vm.sp - fn.ParamCount
	if basePtr < vm.cfg.GlobalsSize {
		vm.fail(vm.pc, "call to %q: too few arguments on the stack", fn.Name)
		return
	}

	vm.fp++
	vm.frames[vm.fp] = NewFrame(funcIdx, vm.pc, basePtr)
	vm.sp = basePtr + fn.LocalCount
	vm.pc = fn.Entry
}

// doReturn unwinds the current frame. At the top-level frame (fp == 0,
// reached without a CALL) it stops the VM instead of unwinding further:
// RET exits with code 0 regardless of what remains on the stack, and
// RETVAL exits with the popped value, rather than "whatever is left on
// top of the stack."
//
// Below the top level, both instructions collapse the frame back to its
// base pointer, which removes the callee's locals AND its arguments in
// one step (they are the same region, per call's layout above) — the
// caller is left exactly as it was before it pushed the arguments, plus
// the return value RETVAL pushes back on top. Resetting to base_ptr alone
// (rather than subtracting the parameter count again) is what keeps the
// stack balanced across a call; see DESIGN.md for the worked-through
// derivation.
func (vm *VM) doReturn(hasValue bool) {
	var value int
	if hasValue {
		value = vm.pop()
		if vm.trap != nil {
			return
		}
	}

	if vm.fp == 0 {
		vm.running = false
		if hasValue {
			vm.exitCode = value
		} else {
			vm.exitCode = 0
		}
		return
	}

	frame := vm.frames[vm.fp]
	vm.sp = frame.BasePtr
	vm.pc = frame.ReturnAddr
	vm.fp--

	if hasValue {
		vm.push(value)
	}
}
