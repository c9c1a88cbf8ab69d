package cpu

// mode identifies one of the 6502's 13 addressing modes.
type mode uint8

const (
	modeImplied mode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
)

// operand resolves the effective address (or, for modeAccumulator and
// modeImplied, a meaningless zero) for the instruction at PC, and
// reports whether resolving it crossed a page boundary — needed by
// the handful of opcodes that cost an extra cycle on a page cross.
func (c *CPU) operand(m mode) (addr uint16, pageCrossed bool) {
	switch m {
	case modeImplied, modeAccumulator:
		return 0, false

	case modeImmediate:
		a := c.PC
		c.PC++
		return a, false

	case modeZeroPage:
		a := uint16(c.read(c.PC))
		c.PC++
		return a, false

	case modeZeroPageX:
		a := uint16(c.read(c.PC) + c.X)
		c.PC++
		return a, false

	case modeZeroPageY:
		a := uint16(c.read(c.PC) + c.Y)
		c.PC++
		return a, false

	case modeRelative:
		off := int8(c.read(c.PC))
		c.PC++
		base := c.PC
		target := uint16(int32(base) + int32(off))
		return target, pagesDiffer(base, target)

	case modeAbsolute:
		a := c.read16(c.PC)
		c.PC += 2
		return a, false

	case modeAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.X)
		return a, pagesDiffer(base, a)

	case modeAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.Y)
		return a, pagesDiffer(base, a)

	case modeIndirect:
		ptr := c.read16(c.PC)
		c.PC += 2
		return c.readIndirectBug(ptr), false

	case modeIndirectX:
		zp := c.read(c.PC) + c.X
		c.PC++
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		return hi<<8 | lo, false

	case modeIndirectY:
		zp := c.read(c.PC)
		c.PC++
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		base := hi<<8 | lo
		a := base + uint16(c.Y)
		return a, pagesDiffer(base, a)
	}
	return 0, false
}

// readIndirectBug reproduces the famous JMP ($xxFF) hardware bug: the
// high byte is fetched from $xx00 instead of wrapping into the next
// page.
func (c *CPU) readIndirectBug(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}

func pagesDiffer(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}
