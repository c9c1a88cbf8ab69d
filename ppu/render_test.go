package ppu

import "testing"

func TestEvaluateSpritesCapsAtEightAndSetsOverflow(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowSpr
	p.scanline = 10

	for i := 0; i < 10; i++ {
		base := i * 4
		p.oam[base] = 10   // y, so row = scanline - y = 0, within any sprite height
		p.oam[base+1] = 0  // tile
		p.oam[base+2] = 0  // attributes
		p.oam[base+3] = uint8(i * 8)
	}

	p.evaluateSprites()

	if len(p.visibleSprites) != 8 {
		t.Errorf("visibleSprites = %d, want 8 (hardware per-line cap)", len(p.visibleSprites))
	}
	if p.status&statusSpriteOverflow == 0 {
		t.Error("expected sprite overflow flag to be set with 10 sprites on one line")
	}
}

func TestEvaluateSpritesFlagsSpriteZero(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowSpr
	p.scanline = 5
	p.oam[0] = 5 // sprite 0's y

	p.evaluateSprites()

	if !p.spriteIsSprite0 {
		t.Error("expected sprite 0 to be flagged as present on this scanline")
	}
}

func TestReverseBitsFlipsByte(t *testing.T) {
	if got := reverseBits(0b10000001); got != 0b10000001 {
		t.Errorf("reverseBits(0x81) = %08b, want %08b", got, 0b10000001)
	}
	if got := reverseBits(0b00000001); got != 0b10000000 {
		t.Errorf("reverseBits(0x01) = %08b, want %08b", got, 0b10000000)
	}
}
