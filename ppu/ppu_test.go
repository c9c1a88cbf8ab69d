package ppu

import (
	"testing"

	"github.com/mwalton/gonostalgic/cartridge"
)

type fakeCart struct {
	chr   [0x2000]uint8
	mirror cartridge.Mirroring
}

func (f *fakeCart) PPURead(addr uint16) uint8     { return f.chr[addr] }
func (f *fakeCart) PPUWrite(addr uint16, v uint8) { f.chr[addr] = v }
func (f *fakeCart) Mirroring() cartridge.Mirroring { return f.mirror }

func newTestPPU() (*PPU, *fakeCart) {
	c := &fakeCart{mirror: cartridge.MirrorVertical}
	return New(c), c
}

func TestStatusReadClearsVBlankAndLatch(t *testing.T) {
	p, _ := newTestPPU()
	p.status |= statusVBlank
	p.w = true

	got := p.ReadRegister(2)
	if got&statusVBlank == 0 {
		t.Error("PPUSTATUS read should still report the vblank bit that was set")
	}
	if p.status&statusVBlank != 0 {
		t.Error("reading PPUSTATUS should clear the vblank flag")
	}
	if p.w {
		t.Error("reading PPUSTATUS should clear the write latch")
	}
}

func TestPPUScrollTwoWriteSequence(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(5, 0x7D) // coarse X = 15, fine X = 5
	p.WriteRegister(5, 0x5E) // coarse Y = 11, fine Y = 6

	if p.x != 5 {
		t.Errorf("fine X = %d, want 5", p.x)
	}
	if p.t.coarseX() != 15 {
		t.Errorf("coarse X = %d, want 15", p.t.coarseX())
	}
	if p.t.coarseY() != 11 {
		t.Errorf("coarse Y = %d, want 11", p.t.coarseY())
	}
	if p.t.fineY() != 6 {
		t.Errorf("fine Y = %d, want 6", p.t.fineY())
	}
}

func TestPPUAddrWriteSetsV(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(6, 0x21)
	p.WriteRegister(6, 0x08)
	if p.v.data != 0x2108 {
		t.Errorf("v = %#04x, want 0x2108", p.v.data)
	}
}

func TestPPUDataReadIsBuffered(t *testing.T) {
	p, c := newTestPPU()
	c.chr[0x0010] = 0xAB
	p.WriteRegister(6, 0x00)
	p.WriteRegister(6, 0x10)

	first := p.ReadRegister(7)
	if first == 0xAB {
		t.Error("first PPUDATA read should return the stale buffer, not the fresh byte")
	}
	second := p.ReadRegister(7)
	_ = second
}

func TestPPUDataPaletteReadIsNotBuffered(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(6, 0x3F)
	p.WriteRegister(6, 0x00)
	p.palette[0] = 0x30
	got := p.ReadRegister(7)
	if got != 0x30 {
		t.Errorf("palette read = %#02x, want 0x30 (unbuffered)", got)
	}
}

func TestNametableMirroringVertical(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(6, 0x20)
	p.WriteRegister(6, 0x00)
	p.writeData(0x42)

	if p.nametables[0][0] != 0x42 {
		t.Errorf("vertical mirroring: bank 0 = %#02x, want 0x42", p.nametables[0][0])
	}

	got := p.vramRead(0x2800)
	if got != 0x42 {
		t.Errorf("vertical mirroring: $2800 should mirror $2000, got %#02x", got)
	}
}
