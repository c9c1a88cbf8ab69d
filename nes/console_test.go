package nes

import (
	"bytes"
	"testing"
)

// buildROM constructs a minimal 32KiB-PRG/8KiB-CHR NROM image whose
// reset vector points at a tight infinite loop, just enough to drive
// Step/RunUntilFrame without a real game.
func buildROM() []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(2) // 2x16KiB PRG
	buf.WriteByte(1) // 1x8KiB CHR
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.Write(make([]byte, 8)) // padding

	prg := make([]byte, 32768)
	prg[0] = 0xEA // NOP at reset target $8000
	prg[1] = 0x4C // JMP $8000
	prg[2] = 0x00
	prg[3] = 0x80
	prg[0x7FFC] = 0x00 // reset vector low byte, at $FFFC in the 32KiB PRG
	prg[0x7FFD] = 0x80
	buf.Write(prg)
	buf.Write(make([]byte, 8192))

	return buf.Bytes()
}

func TestLoadAndStep(t *testing.T) {
	c, err := Load(bytes.NewReader(buildROM()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.CPU.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", c.CPU.PC)
	}
	for i := 0; i < 10; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
}

func TestGameGenieCodeInstallsPatch(t *testing.T) {
	c, err := Load(bytes.NewReader(buildROM()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.ApplyGameGenieCode("AAAAAA"); err != nil {
		t.Fatalf("ApplyGameGenieCode: %v", err)
	}
}

func TestSaveAndLoadStateRoundTrip(t *testing.T) {
	c, err := Load(bytes.NewReader(buildROM()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.CPU.A = 0x42
	data, err := SaveState(c)
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	c.CPU.A = 0x00
	if err := LoadState(c, data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if c.CPU.A != 0x42 {
		t.Errorf("A after LoadState = %#02x, want 0x42", c.CPU.A)
	}
}
