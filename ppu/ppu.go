// Package ppu implements the Ricoh 2C02 picture processing unit: its
// memory-mapped register contract, the 262x341 scanline/cycle state
// machine, and background+sprite pixel compositing into a 256x240
// frame buffer.
package ppu

import "github.com/mwalton/gonostalgic/cartridge"

// Cart is the subset of cartridge.Mapper the PPU needs: CHR-ROM/RAM
// access and the mirroring mode baked into the cartridge header.
type Cart interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)
	Mirroring() cartridge.Mirroring
}

const (
	Width  = 256
	Height = 240
)

// Register bit masks.
const (
	ctrlNametable     = 0x03
	ctrlIncrement     = 1 << 2
	ctrlSpritePattern = 1 << 3
	ctrlBGPattern     = 1 << 4
	ctrlSpriteSize    = 1 << 5
	ctrlNMIEnable     = 1 << 7

	maskGreyscale   = 1 << 0
	maskShowBGLeft  = 1 << 1
	maskShowSprLeft = 1 << 2
	maskShowBG      = 1 << 3
	maskShowSpr     = 1 << 4

	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

// PPU holds all picture-processing-unit state. It reads CHR data and
// mirroring mode through the Cart interface and exposes a completed
// RGBA frame buffer once per vblank.
type PPU struct {
	cart Cart

	ctrl, mask, status uint8

	oamAddr uint8
	oam     [256]uint8

	nametables [2][1024]uint8
	palette    [32]uint8

	v, t loopyReg
	x    uint8 // fine X scroll, 3 bits
	w    bool  // write-toggle latch

	readBuffer uint8

	scanline int // -1..260, -1 is the pre-render line
	cycle    int // 0..340

	frame         uint64
	frameComplete bool
	nmiRequested  bool

	// bg shift registers
	bgShiftPatternLo, bgShiftPatternHi uint16
	bgShiftAttrLo, bgShiftAttrHi       uint16
	bgNextTileID, bgNextAttr           uint8
	bgNextTileLo, bgNextTileHi         uint8

	visibleSprites   []oam
	spritePatternLo  [8]uint8
	spritePatternHi  [8]uint8
	spriteIsSprite0  bool

	Framebuffer [Width * Height]uint32
}

type loopyReg = loopy

// New constructs a PPU reading CHR through cart.
func New(cart Cart) *PPU {
	return &PPU{cart: cart, scanline: -1}
}

// Reset puts the PPU back into its post-power state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t = loopy{}, loopy{}
	p.x, p.w = 0, false
	p.scanline, p.cycle = -1, 0
	p.frame = 0
}

// TakeNMI reports and clears a pending NMI request, letting the bus
// forward it to the CPU exactly once per vblank entry.
func (p *PPU) TakeNMI() bool {
	v := p.nmiRequested
	p.nmiRequested = false
	return v
}

// FrameComplete reports and clears the "new frame ready" flag.
func (p *PPU) FrameComplete() bool {
	v := p.frameComplete
	p.frameComplete = false
	return v
}

// ReadRegister handles a CPU read of $2000-$2007 (mirrored through
// $3FFF). Reads of write-only registers return the PPU's open-bus
// latch value of 0.
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 0x7 {
	case 2: // PPUSTATUS
		v := p.status
		p.status &^= statusVBlank
		p.w = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	default:
		return 0
	}
}

// WriteRegister handles a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(reg uint16, val uint8) {
	switch reg & 0x7 {
	case 0: // PPUCTRL
		p.ctrl = val
		p.t.data = (p.t.data &^ 0x0C00) | uint16(val&ctrlNametable)<<10
	case 1: // PPUMASK
		p.mask = val
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.x = val & 0x07
			p.t.setCoarseX(uint16(val >> 3))
		} else {
			p.t.setFineY(uint16(val & 0x07))
			p.t.setCoarseY(uint16(val >> 3))
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeData(val)
	}
}

// WriteOAMByte is used by the bus's OAM DMA handler to load the OAM
// table directly, 256 bytes in a row, without touching OAMADDR's
// autoincrement semantics beyond the usual wraparound.
func (p *PPU) WriteOAMByte(offset uint8, val uint8) {
	p.oam[p.oamAddr+offset] = val
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&ctrlIncrement != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	addr := p.v.data & 0x3FFF
	var result uint8
	if addr < 0x3F00 {
		result = p.readBuffer
		p.readBuffer = p.vramRead(addr)
	} else {
		result = p.vramRead(addr)
		p.readBuffer = p.vramRead(addr - 0x1000)
	}
	p.v.data += p.addrIncrement()
	return result
}

func (p *PPU) writeData(val uint8) {
	addr := p.v.data & 0x3FFF
	p.vramWrite(addr, val)
	p.v.data += p.addrIncrement()
}

// vramRead/vramWrite resolve the full PPU address space: pattern
// tables through the cartridge, nametables through this PPU's two
// physical 1KiB pages mirrored per the cartridge's Mirroring mode,
// and the 32-byte palette RAM with its well-known background mirrors.
func (p *PPU) vramRead(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.cart.PPURead(addr)
	case addr < 0x3F00:
		return p.nametables[p.nametableBank(addr)][addr&0x03FF]
	default:
		return p.palette[paletteIndex(addr)]
	}
}

func (p *PPU) vramWrite(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		p.cart.PPUWrite(addr, val)
	case addr < 0x3F00:
		p.nametables[p.nametableBank(addr)][addr&0x03FF] = val
	default:
		p.palette[paletteIndex(addr)] = val
	}
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx%4 == 0 {
		idx &= 0x0F
	}
	return idx
}

func (p *PPU) nametableBank(addr uint16) int {
	table := (addr - 0x2000) / 0x0400 % 4
	switch p.cart.Mirroring() {
	case cartridge.MirrorHorizontal:
		return int(table / 2)
	case cartridge.MirrorVertical:
		return int(table % 2)
	default: // four-screen: approximate with two physical banks
		return int(table % 2)
	}
}
