// Package apu implements the 2A03's integrated audio processing
// unit: two pulse channels, a triangle channel, a noise channel, a
// DMC stub, and the frame sequencer that clocks their envelope,
// sweep and length-counter units.
package apu

// APU owns all five channels and the frame sequencer. It is clocked
// once per CPU cycle by Tick and exposes a running mixed sample
// stream through Drain.
type APU struct {
	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frame frameSequencer

	cycles uint64

	sampleRate       float64
	cpuFrequency     float64
	cycleAccumulator float64
	samples          []float32

	hpPrevIn, hpPrevOut float64

	irqLine bool
}

const (
	// DefaultCPUFrequency is the NTSC 2A03 clock rate in Hz.
	DefaultCPUFrequency = 1789773.0
	// DefaultSampleRate is the host audio sink's target rate.
	DefaultSampleRate = 44100.0
)

// New constructs an APU producing samples at sampleRate from a
// cpuFrequency-Hz clock.
func New(sampleRate, cpuFrequency float64) *APU {
	a := &APU{
		sampleRate:   sampleRate,
		cpuFrequency: cpuFrequency,
		noise:        newNoiseChannel(),
	}
	a.pulse2.sweepOnesComplement = true
	return a
}

// IRQPending reports whether the frame sequencer or DMC wants to
// assert the CPU's IRQ line.
func (a *APU) IRQPending() bool {
	return a.irqLine
}

// Tick advances the APU by one CPU cycle: the triangle and the frame
// sequencer tick every CPU cycle, pulse and noise every other cycle,
// matching the 2A03's internal /2 divider on those channels' timers.
func (a *APU) Tick() {
	a.triangle.tickTimer()
	if a.cycles%2 == 0 {
		a.pulse1.tickTimer()
		a.pulse2.tickTimer()
		a.noise.tickTimer()
	}

	if seq, quarter, half := a.frame.tick(); seq {
		if quarter {
			a.pulse1.clockEnvelope()
			a.pulse2.clockEnvelope()
			a.noise.clockEnvelope()
			a.triangle.clockLinearCounter()
		}
		if half {
			a.pulse1.clockSweep()
			a.pulse2.clockSweep()
			a.pulse1.clockLengthCounter()
			a.pulse2.clockLengthCounter()
			a.triangle.clockLengthCounter()
			a.noise.clockLengthCounter()
		}
	}
	if a.frame.irqFlag {
		a.irqLine = true
	}

	a.cycles++

	a.cycleAccumulator += a.sampleRate / a.cpuFrequency
	if a.cycleAccumulator >= 1.0 {
		a.cycleAccumulator -= 1.0
		a.samples = append(a.samples, a.mix())
	}
}

// Drain returns and clears all samples produced since the last call,
// for the host audio sink to hand to its output stream.
func (a *APU) Drain() []float32 {
	s := a.samples
	a.samples = nil
	return s
}

// ReadStatus services a CPU read of $4015: length counter status for
// each channel, plus the frame and DMC IRQ flags. The read clears the
// frame IRQ flag; the DMC IRQ flag is left as it is.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.pulse1.lengthCounter > 0 {
		v |= 1 << 0
	}
	if a.pulse2.lengthCounter > 0 {
		v |= 1 << 1
	}
	if a.triangle.lengthCounter > 0 {
		v |= 1 << 2
	}
	if a.noise.lengthCounter > 0 {
		v |= 1 << 3
	}
	if a.dmc.bytesRemaining > 0 {
		v |= 1 << 4
	}
	if a.frame.irqFlag {
		v |= 1 << 6
	}
	if a.dmc.irqFlag {
		v |= 1 << 7
	}
	a.frame.irqFlag = false
	a.irqLine = a.dmc.irqFlag
	return v
}

// WriteRegister handles a CPU write into the $4000-$4013,$4015,$4017
// register range.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse1.write(addr-0x4000, val)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse2.write(addr-0x4004, val)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.write(addr-0x4008, val)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.write(addr-0x400C, val)
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.write(addr-0x4010, val)
	case addr == 0x4015:
		a.pulse1.enabled = val&0x01 != 0
		a.pulse2.enabled = val&0x02 != 0
		a.triangle.enabled = val&0x04 != 0
		a.noise.enabled = val&0x08 != 0
		a.dmc.enabled = val&0x10 != 0
		if a.dmc.enabled && a.dmc.bytesRemaining == 0 {
			a.dmc.bytesRemaining = a.dmc.sampleLength
		}
		if !a.pulse1.enabled {
			a.pulse1.lengthCounter = 0
		}
		if !a.pulse2.enabled {
			a.pulse2.lengthCounter = 0
		}
		if !a.triangle.enabled {
			a.triangle.lengthCounter = 0
		}
		if !a.noise.enabled {
			a.noise.lengthCounter = 0
		}
		if !a.dmc.enabled {
			a.dmc.bytesRemaining = 0
		}
		a.dmc.irqFlag = false
	case addr == 0x4017:
		if a.frame.write(val) {
			a.pulse1.clockEnvelope()
			a.pulse2.clockEnvelope()
			a.noise.clockEnvelope()
			a.triangle.clockLinearCounter()
			a.pulse1.clockSweep()
			a.pulse2.clockSweep()
			a.pulse1.clockLengthCounter()
			a.pulse2.clockLengthCounter()
			a.triangle.clockLengthCounter()
			a.noise.clockLengthCounter()
		}
		if a.frame.irqInhibit {
			a.frame.irqFlag = false
		}
	}
}
