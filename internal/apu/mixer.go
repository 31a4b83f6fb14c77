package apu

const (
	clockRateHz  = 1789773.0
	lowPassTaps  = 57
	highPassHzAt = 40.0 // nominal high-pass cutoff, scaled against the output rate below
)

// mixer combines the five channel levels into a single DAC sample, removes
// DC with a one-pole high-pass, and decimates through a 57-tap FIR low-pass
// down to the caller's chosen output sample rate.
type mixer struct {
	ring     [lowPassTaps]float32
	writeIdx int

	prevRaw float32 // x[n-1]
	prevHP  float32 // y[n-1]
	hpAlpha float32

	accumulator float64
	ratio       float64 // APU cycles per output sample
}

func newMixer(outputSampleRate int) *mixer {
	ratio := clockRateHz / float64(outputSampleRate)
	sampleDt := 1.0 / float64(outputSampleRate)
	cutoff := (1.0 / ratio) * highPassHzAt
	rc := 1.0 / (2 * 3.14159265358979323846 * cutoff)
	alpha := rc / (rc + sampleDt)

	return &mixer{
		hpAlpha: float32(alpha),
		ratio:   ratio,
	}
}

// mix applies the nonlinear closed-form DAC formula from the NES APU mixer.
// Division by zero in either term is well-defined under IEEE 754: it yields
// an output of exactly 0, matching the "denominator would divide by zero"
// boundary case.
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	p1, p2 := float32(pulse1), float32(pulse2)
	t, n, d := float32(triangle), float32(noise), float32(dmc)

	pulseOut := float32(95.88) / (float32(8128.0)/(p1+p2) + 100)
	tndOut := float32(159.79) / (1.0/(t/8227.0+n/12241.0+d/22638.0) + 100)

	return pulseOut + tndOut
}

// tick feeds one raw DAC sample through the filter chain and the decimator.
// It returns a produced output sample and true at most once every `ratio`
// calls.
func (m *mixer) tick(raw float32) (sample float32, ready bool) {
	hp := m.hpAlpha * (m.prevHP + raw - m.prevRaw)
	m.prevRaw = raw
	m.prevHP = hp

	m.ring[m.writeIdx] = -hp
	m.writeIdx = (m.writeIdx + 1) % lowPassTaps

	m.accumulator++
	if m.accumulator < m.ratio {
		return 0, false
	}
	m.accumulator -= m.ratio
	return m.convolve(), true
}

// convolve walks the ring buffer oldest-to-newest starting from writeIdx,
// which (having just been advanced past the newest sample) points at the
// oldest surviving entry.
func (m *mixer) convolve() float32 {
	var acc float32
	idx := m.writeIdx
	for k := 0; k < lowPassTaps; k++ {
		acc += lowPassCoeffs[k] * m.ring[idx]
		idx = (idx + 1) % lowPassTaps
	}
	return acc
}
