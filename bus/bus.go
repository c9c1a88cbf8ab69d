// Package bus wires the CPU, PPU, APU, cartridge mapper and joypads
// into the NES's single 16-bit address space, and propagates CPU
// cycles to the PPU and APU once per instruction.
package bus

import (
	"fmt"

	"github.com/mwalton/gonostalgic/apu"
	"github.com/mwalton/gonostalgic/cartridge"
	"github.com/mwalton/gonostalgic/gamegenie"
	"github.com/mwalton/gonostalgic/ppu"
)

// CPU is the subset of *cpu.CPU the bus drives directly.
type CPU interface {
	SetIRQLine(asserted bool)
	TriggerNMI()
}

const ramSize = 0x0800

// Bus owns every component and is the CPU's only view of memory, per
// the bus-centric ownership model: the CPU never touches PPU, APU or
// cartridge state directly.
type Bus struct {
	ram     [ramSize]uint8
	ppu     *ppu.PPU
	apu     *apu.APU
	mapper  cartridge.Mapper
	pad1    *Joypad
	pad2    *Joypad
	cpu     CPU
	patches []gamegenie.Patch

	dmaPending bool
	dmaPage    uint8

	totalCycles uint64
}

// New constructs a bus wired to the given components. cpu is set
// after construction via AttachCPU since the CPU itself needs a Bus
// reference to be constructed, so the two are wired together in two
// steps to break the cycle.
func New(p *ppu.PPU, a *apu.APU, m cartridge.Mapper) *Bus {
	return &Bus{
		ppu:    p,
		apu:    a,
		mapper: m,
		pad1:   &Joypad{},
		pad2:   &Joypad{},
	}
}

// AttachCPU lets the bus forward NMI and IRQ signals. Called once
// after both the Bus and the CPU have been constructed.
func (b *Bus) AttachCPU(c CPU) {
	b.cpu = c
}

// AddPatch installs a decoded Game Genie patch, applied whenever the
// CPU reads the patch's Address in cartridge space.
func (b *Bus) AddPatch(p gamegenie.Patch) {
	b.patches = append(b.patches, p)
}

// ClearPatches removes all installed Game Genie patches.
func (b *Bus) ClearPatches() {
	b.patches = nil
}

// Read services a CPU memory read across the full map: 2KiB of
// internal RAM mirrored through $1FFF, PPU registers mirrored through
// $3FFF, the APU/joypad range at $4000-$4017, and cartridge space at
// $4020 and up.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr%ramSize]
	case addr < 0x4000:
		return b.ppu.ReadRegister(addr)
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == 0x4016:
		return b.pad1.Read()
	case addr == 0x4017:
		return b.pad2.Read()
	case addr < 0x4020:
		return 0
	default:
		return b.patchedRead(addr)
	}
}

func (b *Bus) patchedRead(addr uint16) uint8 {
	raw := b.mapper.CPURead(addr)
	for _, p := range b.patches {
		if p.Address != addr {
			continue
		}
		if p.HasCmp && p.Compare != raw {
			continue
		}
		return p.NewData
	}
	return raw
}

// Write services a CPU memory write across the same map Read covers,
// plus OAMDMA at $4014.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr%ramSize] = val
	case addr < 0x4000:
		b.ppu.WriteRegister(addr, val)
	case addr == 0x4014:
		b.dmaPending = true
		b.dmaPage = val
	case addr == 0x4016:
		b.pad1.Write(val)
		b.pad2.Write(val)
	case addr == 0x4017:
		b.apu.WriteRegister(addr, val)
	case addr >= 0x4000 && addr <= 0x4013, addr == 0x4015:
		b.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// unmapped APU/IO space, ignored
	default:
		b.mapper.CPUWrite(addr, val)
	}
}

// Tick propagates n CPU cycles worth of time to the PPU (3n dots) and
// the APU (n cycles), then latches any NMI/IRQ the tick produced. It
// is called once per CPU.Step, per the instruction-granularity tick
// model: the PPU and APU never see individual CPU cycles interleaved
// with instruction decode.
func (b *Bus) Tick(cpuCycles int) {
	b.tickCycles(cpuCycles)

	if b.dmaPending {
		b.runOAMDMA()
		b.dmaPending = false
	}
}

// tickCycles advances the PPU and APU by n CPU cycles' worth of time
// and latches any NMI/IRQ that produces. It is the shared core of
// Tick and the OAM DMA stall, both of which need to drive the PPU/APU
// clocks without re-entering DMA dispatch.
func (b *Bus) tickCycles(n int) {
	for i := 0; i < n; i++ {
		b.apu.Tick()
	}
	for i := 0; i < n*3; i++ {
		b.ppu.Tick()
	}
	if b.ppu.TakeNMI() {
		b.cpu.TriggerNMI()
	}
	b.cpu.SetIRQLine(b.apu.IRQPending() || b.mapper.IRQPending())
	b.totalCycles += uint64(n)
}

// runOAMDMA copies 256 bytes from $XX00-$XXFF into OAM, the
// well-documented $4014 write side effect, then charges the CPU stall
// the real hardware incurs while that copy happens: 513 cycles, or
// 514 if the DMA starts on an odd CPU cycle.
func (b *Bus) runOAMDMA() {
	base := uint16(b.dmaPage) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMByte(uint8(i), b.Read(base+uint16(i)))
	}

	stall := 513
	if b.totalCycles%2 != 0 {
		stall = 514
	}
	b.tickCycles(stall)
}

// FrameComplete reports whether the PPU has finished a frame since
// the last call, letting the console driver know when to present.
func (b *Bus) FrameComplete() bool {
	return b.ppu.FrameComplete()
}

// Framebuffer exposes the PPU's current pixel buffer. The returned
// pointer aliases the PPU's own storage and is overwritten as
// rendering continues; callers that need to retain a frame must copy
// it before ticking the bus again.
func (b *Bus) Framebuffer() *[ppu.Width * ppu.Height]uint32 {
	return &b.ppu.Framebuffer
}

// DrainAudio returns and clears the APU's pending mixed samples.
func (b *Bus) DrainAudio() []float32 {
	return b.apu.Drain()
}

// Joypad1 and Joypad2 expose the two controller ports for the host to
// drive from its input backend.
func (b *Bus) Joypad1() *Joypad { return b.pad1 }
func (b *Bus) Joypad2() *Joypad { return b.pad2 }

// NewFromCartridge is a convenience constructor: it builds the PPU,
// APU and mapper for c and wires them into a new Bus.
func NewFromCartridge(c *cartridge.Cartridge) (*Bus, error) {
	m, err := cartridge.Get(c)
	if err != nil {
		return nil, fmt.Errorf("bus: resolving mapper: %w", err)
	}
	p := ppu.New(m)
	a := apu.New(apu.DefaultSampleRate, apu.DefaultCPUFrequency)
	return New(p, a, m), nil
}
