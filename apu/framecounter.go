package apu

// frameSequencer implements the APU's frame counter: a divider that
// clocks the envelope/linear-counter ("quarter frame") and
// sweep/length-counter ("half frame") units on a 4-step or 5-step
// schedule, and optionally asserts a frame IRQ at the end of the
// 4-step sequence.
type frameSequencer struct {
	fiveStep   bool
	irqInhibit bool
	irqFlag    bool

	cycle uint16
}

// NTSC frame sequencer step boundaries, in CPU cycles.
const (
	step1 = 7457
	step2 = 14913
	step3 = 22371
	step4 = 29781
	step5 = 37281
)

// write handles a $4017 write, reporting whether the mode bit being
// set means the caller must immediately clock a quarter and half
// frame event, in addition to the ones the normal sequence produces.
func (f *frameSequencer) write(val uint8) bool {
	f.fiveStep = val&0x80 != 0
	f.irqInhibit = val&0x40 != 0
	f.cycle = 0
	return f.fiveStep
}

// tick advances the sequencer by one CPU cycle and reports whether
// this cycle is a sequencer step, and if so whether it is a quarter-
// frame and/or half-frame boundary.
func (f *frameSequencer) tick() (stepped, quarter, half bool) {
	f.cycle++

	if f.fiveStep {
		switch f.cycle {
		case step1, step3:
			return true, true, false
		case step2, step5:
			return true, true, true
		case step4:
			return false, false, false
		}
		if f.cycle > step5 {
			f.cycle = 0
		}
		return false, false, false
	}

	switch f.cycle {
	case step1, step3:
		return true, true, false
	case step2:
		return true, true, true
	case step4:
		if !f.irqInhibit {
			f.irqFlag = true
		}
		f.cycle = 0
		return true, true, true
	}
	return false, false, false
}
