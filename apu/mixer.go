package apu

// highPassAlpha is the fixed one-pole coefficient applied after the
// scale/offset step below.
const highPassAlpha = 0.99

// mix combines the five channels' current outputs using the
// non-linear mixing formulas documented for the 2A03's DAC, rescales
// the result to a signed, centered range, then applies a one-pole
// high-pass filter to remove the DC bias those formulas produce.
func (a *APU) mix() float32 {
	p1 := float64(a.pulse1.output())
	p2 := float64(a.pulse2.output())
	t := float64(a.triangle.output())
	n := float64(a.noise.output())
	d := float64(a.dmc.output())

	var pulseOut float64
	if p1+p2 > 0 {
		pulseOut = 95.88 / (8128.0/(p1+p2) + 100.0)
	}

	var tndOut float64
	if t+n+d > 0 {
		tndOut = 159.79 / (1.0/(t/8227.0+n/12241.0+d/22638.0) + 100.0)
	}

	raw := pulseOut + tndOut
	scaled := raw*0.7 - 0.35
	return a.highPass(scaled)
}

// highPass applies a one-pole high-pass filter with a fixed alpha,
// carrying its previous input/output pair across calls in
// a.hpPrevIn/a.hpPrevOut.
func (a *APU) highPass(in float64) float32 {
	out := highPassAlpha * (a.hpPrevOut + in - a.hpPrevIn)
	a.hpPrevIn = in
	a.hpPrevOut = out
	return float32(out)
}
