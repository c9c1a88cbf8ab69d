package cpu

import "fmt"

// Trace renders the CPU's current register state as nestest-style
// "A:.. X:.. Y:.. P:.. SP:.." fields followed by "PC:....". The
// instruction bytes and disassembly columns of a full nestest line are
// not produced, since they need bus-side memory access that would
// couple this package to disassembly concerns.
func (c *CPU) Trace() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X",
		c.A, c.X, c.Y, c.P, c.S, c.PC)
}
