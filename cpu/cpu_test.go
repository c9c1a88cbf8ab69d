package cpu

import "testing"

// ramBus is a flat 64KiB memory used only for testing; the real bus
// lives in the bus package and routes reads/writes to PPU/APU/cartridge.
type ramBus struct {
	mem [65536]byte
}

func (r *ramBus) Read(addr uint16) uint8      { return r.mem[addr] }
func (r *ramBus) Write(addr uint16, v uint8)  { r.mem[addr] = v }

func newTestCPU(prog []byte, resetVector uint16) (*CPU, *ramBus) {
	b := &ramBus{}
	copy(b.mem[resetVector:], prog)
	b.mem[vecReset] = uint8(resetVector)
	b.mem[vecReset+1] = uint8(resetVector >> 8)
	return New(b), b
}

func TestResetVectorLoad(t *testing.T) {
	c, _ := newTestCPU([]byte{0xEA}, 0xC000)
	if c.PC != 0xC000 {
		t.Errorf("PC = %#04x, want 0xC000", c.PC)
	}
	if c.S != 0xFD {
		t.Errorf("S = %#02x, want 0xFD", c.S)
	}
}

func TestLDAImmediateSetsZN(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x00, 0xA9, 0x80, 0xA9, 0x05}, 0xC000)

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !c.flag(FlagZero) || c.flag(FlagNegative) {
		t.Errorf("LDA #$00: P=%#02x, want Z set N clear", c.P)
	}

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.flag(FlagZero) || !c.flag(FlagNegative) {
		t.Errorf("LDA #$80: P=%#02x, want Z clear N set", c.P)
	}

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x05 {
		t.Errorf("A = %#02x, want 0x05", c.A)
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x7F, 0x69, 0x01}, 0xC000)
	c.Step() // LDA #$7F
	c.Step() // ADC #$01
	if c.A != 0x80 {
		t.Errorf("A = %#02x, want 0x80", c.A)
	}
	if !c.flag(FlagOverflow) {
		t.Error("expected overflow flag set on positive+positive=negative")
	}
	if c.flag(FlagCarry) {
		t.Error("unexpected carry")
	}
}

func TestBranchTakenCostsExtraCycle(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x00, 0xF0, 0x02}, 0xC000)
	c.Step()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 3 {
		t.Errorf("BEQ taken (no page cross) cycles = %d, want 3", cycles)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, b := newTestCPU([]byte{0x20, 0x06, 0xC0, 0xEA, 0xEA, 0xEA, 0x60}, 0xC000)
	b.mem[0xC006] = 0x60 // RTS at target
	c.Step()             // JSR $C006
	if c.PC != 0xC006 {
		t.Fatalf("PC after JSR = %#04x, want 0xC006", c.PC)
	}
	c.Step() // RTS
	if c.PC != 0xC003 {
		t.Errorf("PC after RTS = %#04x, want 0xC003", c.PC)
	}
}

func TestIndirectJMPPageBoundaryBug(t *testing.T) {
	c, b := newTestCPU([]byte{0x6C, 0xFF, 0xC0}, 0x0400)
	b.mem[0xC0FF] = 0x34
	b.mem[0xC000] = 0x12 // hardware bug: wraps within the page, not into 0xC100
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1234 {
		t.Errorf("PC = %#04x, want 0x1234", c.PC)
	}
}

func TestInvalidOpcodeHalts(t *testing.T) {
	c, b := newTestCPU([]byte{}, 0xC000)
	delete(opcodeTable, 0x04) // reclaim an unofficial-NOP slot as "unknown" for this test
	b.mem[0xC000] = 0x04
	if _, err := c.Step(); err == nil {
		t.Error("Step succeeded on removed opcode slot, want error")
	} else if !c.Halted() {
		t.Error("CPU should be halted after an invalid opcode")
	}
}

func TestNMIServicing(t *testing.T) {
	c, b := newTestCPU([]byte{0xEA}, 0xC000)
	b.mem[vecNMI] = 0x00
	b.mem[vecNMI+1] = 0xD0
	c.TriggerNMI()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 7 {
		t.Errorf("NMI service cycles = %d, want 7", cycles)
	}
	if c.PC != 0xD000 {
		t.Errorf("PC = %#04x, want 0xD000 (NMI vector)", c.PC)
	}
}
