// Package apu implements a cycle-accurate emulation of the 2A03 audio
// processing unit: five sound channels, a frame sequencer, and a mixer
// chain that decimates the ~1.79 MHz signal down to a caller-chosen output
// sample rate.
package apu

// Register indices, relative to the 24-byte register bank ($00 maps to the
// hardware's $4000, $17 to $4017).
const (
	RegSQ1Vol    = 0x00
	RegSQ1Sweep  = 0x01
	RegSQ1Lo     = 0x02
	RegSQ1Hi     = 0x03
	RegSQ2Vol    = 0x04
	RegSQ2Sweep  = 0x05
	RegSQ2Lo     = 0x06
	RegSQ2Hi     = 0x07
	RegTriLinear = 0x08
	RegTriLo     = 0x0A
	RegTriHi     = 0x0B
	RegNoiVol    = 0x0C
	RegNoiFreq   = 0x0E
	RegNoiLen    = 0x0F
	RegDMCFreq   = 0x10
	RegDMCRaw    = 0x11
	RegDMCAddr   = 0x12
	RegDMCLen    = 0x13
	RegSndChn    = 0x15
	RegAPUFrame  = 0x17

	registerCount = 0x18
)

// APU is the complete five-channel 2A03 core. It owns all of its state;
// nothing here is a process-wide global.
type APU struct {
	mem        memoryReader
	sampleRate int

	pulse1   PulseChannel
	pulse2   PulseChannel
	triangle TriangleChannel
	noise    NoiseChannel
	dmc      DMCChannel

	frameSeq frameSequencer
	mix      *mixer

	regs [registerCount]uint8
}

// New builds an APU reading DMC sample bytes from mem and producing output
// samples at outputSampleRate. The APU begins fully initialized, as if
// Reset had just been called.
func New(mem memoryReader, outputSampleRate int) *APU {
	a := &APU{mem: mem, sampleRate: outputSampleRate}
	a.Reset()
	return a
}

// Reset reinitializes every piece of state. It writes zero to registers
// $00..$13 through the normal write path (so side effects such as duty
// table selection and envelope restarts fire), then seeds the noise LFSR
// and the DMC's read pointer the way real hardware does not, but this
// core's startup convention requires.
func (a *APU) Reset() {
	a.pulse1 = newPulseChannel(true)
	a.pulse2 = newPulseChannel(false)
	a.triangle = TriangleChannel{}
	a.noise = newNoiseChannel()
	a.dmc = newDMCChannel(a.mem)
	a.frameSeq = frameSequencer{}
	a.mix = newMixer(a.sampleRate)
	a.regs = [registerCount]uint8{}

	for i := uint8(0); i < 0x14; i++ {
		a.WriteRegister(i, 0)
	}

	a.noise.lfsr = 1
	a.dmc.currentAddress = 0xC000
	a.dmc.startingAddress = 0xC000

	// Start the high-pass from the reset-state DAC level (the triangle rests
	// at 15), so an untouched core emits zeros instead of a filtered step.
	a.mix.prevRaw = mix(a.pulse1.sample(), a.pulse2.sample(), a.triangle.sample(), a.noise.sample(), a.dmc.sample())
}

// WriteRegister applies a write to register index (0..=0x17), dispatching
// to whichever channel or sequencer it addresses.
func (a *APU) WriteRegister(index uint8, val uint8) {
	if int(index) < len(a.regs) {
		a.regs[index] = val
	}

	switch index {
	case RegSQ1Vol:
		a.pulse1.writeVolume(val)
	case RegSQ1Sweep:
		a.pulse1.writeSweep(val)
	case RegSQ1Lo:
		a.pulse1.writeTimerLow(val)
	case RegSQ1Hi:
		a.pulse1.writeTimerHigh(val)

	case RegSQ2Vol:
		a.pulse2.writeVolume(val)
	case RegSQ2Sweep:
		a.pulse2.writeSweep(val)
	case RegSQ2Lo:
		a.pulse2.writeTimerLow(val)
	case RegSQ2Hi:
		a.pulse2.writeTimerHigh(val)

	case RegTriLinear:
		a.triangle.writeLinear(val)
	case RegTriLo:
		a.triangle.writeTimerLow(val)
	case RegTriHi:
		a.triangle.writeTimerHigh(val)

	case RegNoiVol:
		a.noise.writeVolume(val)
	case RegNoiFreq:
		a.noise.writePeriod(val)
	case RegNoiLen:
		a.noise.writeLength(val)

	case RegDMCFreq:
		a.dmc.writeFreq(val)
	case RegDMCRaw:
		a.dmc.writeRaw(val)
	case RegDMCAddr:
		a.dmc.writeAddress(val)
	case RegDMCLen:
		a.dmc.writeLength(val)

	case RegSndChn:
		a.pulse1.setEnabled(val&0x01 != 0)
		a.pulse2.setEnabled(val&0x02 != 0)
		a.triangle.setEnabled(val&0x04 != 0)
		a.noise.setEnabled(val&0x08 != 0)
		a.dmc.setEnabled(val&0x10 != 0)
		a.dmc.irqFlag = false

	case RegAPUFrame:
		a.frameSeq.write(val)
	}
}

// ReadRegister performs the hardware-realistic read: only $15 has a defined
// value (and a read side effect); every other index reads back as 0, as on
// real write-only register hardware.
func (a *APU) ReadRegister(index uint8) uint8 {
	if index != RegSndChn {
		return 0
	}
	return a.readStatus()
}

// ReadLastWritten returns the raw byte last written to index, with no side
// effects — the "debug" read path used to verify round-trip behaviour.
func (a *APU) ReadLastWritten(index uint8) uint8 {
	if int(index) >= len(a.regs) {
		return 0
	}
	return a.regs[index]
}

func (a *APU) readStatus() uint8 {
	var b uint8
	if a.pulse1.length.active() {
		b |= 0x01
	}
	if a.pulse2.length.active() {
		b |= 0x02
	}
	if a.triangle.length.active() {
		b |= 0x04
	}
	if a.noise.length.active() {
		b |= 0x08
	}
	if a.dmc.active() {
		b |= 0x10
	}
	if a.frameSeq.readFlag() {
		b |= 0x40
	}
	if a.dmc.irqFlag {
		b |= 0x80
	}
	return b
}

// IRQLine reports the current state of the aggregate IRQ line: the frame
// sequencer's IRQ OR the DMC's IRQ. Inspecting it has no side effects.
func (a *APU) IRQLine() bool {
	return a.frameSeq.irqFlag || a.dmc.irqFlag
}

// Tick advances the core by exactly one APU cycle: the frame sequencer,
// then channel timers (pulses on odd cycles, triangle conditionally,
// noise and DMC unconditionally), then the mixer and filter chain. It
// returns the produced output sample (valid only when ready is true) and
// the aggregate IRQ line.
func (a *APU) Tick() (sample float32, ready bool, irq bool) {
	quarter, half := a.frameSeq.step()

	if quarter {
		a.pulse1.env.clock()
		a.pulse2.env.clock()
		a.noise.env.clock()
		a.triangle.clockLinear()
	}
	if half {
		a.pulse1.length.clock()
		a.pulse2.length.clock()
		a.triangle.length.clock()
		a.noise.length.clock()
		a.pulse1.clockSweep()
		a.pulse2.clockSweep()
	}

	if a.frameSeq.cycle&1 != 0 {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
	}
	a.triangle.clockTimer()
	a.noise.clockTimer()
	a.dmc.clockTimer()

	raw := mix(a.pulse1.sample(), a.pulse2.sample(), a.triangle.sample(), a.noise.sample(), a.dmc.sample())
	sample, ready = a.mix.tick(raw)

	return sample, ready, a.IRQLine()
}
