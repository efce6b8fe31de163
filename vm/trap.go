package vm

import "fmt"

// Trap is a VM-detected runtime error that aborts execution with exit code
// -1. Every trap carries the program counter at the point of failure.
type Trap struct {
	PC      int
	Message string

	// window and stackSnapshot are filled in only when the VM's debug
	// flag is set, for the verbose rendering [Trap.Verbose] produces: the
	// surrounding instruction window and the operand stack at the moment
	// of failure.
	window        string
	stackSnapshot []int
}

func (t *Trap) Error() string {
	return fmt.Sprintf("VM trap (pc=%d): %s", t.PC, t.Message)
}

// Verbose renders the trap together with the instruction window and
// operand stack captured at the moment of failure. Unless the VM was run
// with its debug flag set, nothing was captured and it returns the same
// text as [Trap.Error].
func (t *Trap) Verbose() string {
	if t.window == "" && len(t.stackSnapshot) == 0 {
		return t.Error()
	}
	return fmt.Sprintf("%s\n%s\nstack: %v", t.Error(), t.window, t.stackSnapshot)
}
