package apu

import (
	"math"
	"testing"
)

// flatMemory is a trivial memoryReader for tests: every address reads back
// a fixed fill byte.
type flatMemory struct {
	fill uint8
}

func (f flatMemory) Read(uint16) uint8 { return f.fill }

func newTestAPU(t *testing.T, sampleRate int) *APU {
	t.Helper()
	return New(flatMemory{fill: 0xAA}, sampleRate)
}

func TestSilentStartProducesNearZeroSamples(t *testing.T) {
	a := newTestAPU(t, 48000)

	for i := 0; i < 40000; i++ {
		sample, ready, _ := a.Tick()
		if ready && math.Abs(float64(sample)) > 1e-6 {
			t.Fatalf("cycle %d: silent start produced %g, want ~0", i, sample)
		}
	}
}

func TestEnvelopeDecayLevelStaysInRange(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegSQ1Vol, 0x00) // non-constant, period 0 -> decays fast
	a.WriteRegister(RegSQ1Hi, 0x00)  // restart envelope
	a.WriteRegister(RegSndChn, 0x01)

	for i := 0; i < 50000; i++ {
		a.Tick()
		if a.pulse1.env.level > 15 {
			t.Fatalf("cycle %d: envelope level %d out of range", i, a.pulse1.env.level)
		}
	}
}

func TestLengthCounterNonIncreasing(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegSQ1Vol, 0x00) // halt clear
	a.WriteRegister(RegSndChn, 0x01) // enable pulse 1
	a.WriteRegister(RegSQ1Hi, 0xF8) // load length index 0x1F

	prev := a.pulse1.length.value
	for i := 0; i < 200000; i++ {
		a.Tick()
		if a.pulse1.length.value > prev {
			t.Fatalf("cycle %d: length counter increased from %d to %d", i, prev, a.pulse1.length.value)
		}
		prev = a.pulse1.length.value
	}
}

func TestDMCOutputLevelStaysInRange(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegDMCFreq, 0x0F) // fastest rate, loop off
	a.WriteRegister(RegDMCAddr, 0x00)
	a.WriteRegister(RegDMCLen, 0xFF)
	a.WriteRegister(RegSndChn, 0x10)

	for i := 0; i < 100000; i++ {
		a.Tick()
		if a.dmc.outputLevel > 127 {
			t.Fatalf("cycle %d: DMC output %d out of range", i, a.dmc.outputLevel)
		}
	}
}

func TestNoiseLFSRNeverZero(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegNoiFreq, 0x00)
	a.WriteRegister(RegSndChn, 0x08)

	for i := 0; i < 100000; i++ {
		a.Tick()
		if a.noise.lfsr == 0 {
			t.Fatalf("cycle %d: LFSR became zero", i)
		}
	}
}

func TestMixerOutputIsFinite(t *testing.T) {
	for p1 := uint8(0); p1 <= 15; p1 += 5 {
		for n := uint8(0); n <= 15; n += 5 {
			for d := uint8(0); d <= 127; d += 31 {
				out := mix(p1, 0, 0, n, d)
				if math.IsNaN(float64(out)) || math.IsInf(float64(out), 0) {
					t.Fatalf("mix(%d,0,0,%d,%d) = %v, want finite", p1, n, d, out)
				}
			}
		}
	}
	if out := mix(0, 0, 0, 0, 0); math.IsNaN(float64(out)) || math.IsInf(float64(out), 0) {
		t.Fatalf("mix(0,0,0,0,0) = %v, want finite", out)
	}
}

func TestFrameCounterWriteRestartsWithinFourCycles(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegAPUFrame, 0x80) // 5-step mode

	sawHalfFrame := false
	for i := 0; i < 4; i++ {
		_, half := a.frameSeq.step()
		if half {
			sawHalfFrame = true
		}
	}
	if !sawHalfFrame {
		t.Fatal("clock_B did not fire within 4 cycles of a 5-step-mode frame-counter write")
	}
}

func TestFIRCoefficientsAreSymmetric(t *testing.T) {
	for i := 0; i < lowPassTaps/2; i++ {
		if lowPassCoeffs[i] != lowPassCoeffs[lowPassTaps-1-i] {
			t.Fatalf("tap %d (%v) != tap %d (%v): FIR is not symmetric",
				i, lowPassCoeffs[i], lowPassTaps-1-i, lowPassCoeffs[lowPassTaps-1-i])
		}
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	a := newTestAPU(t, 48000)
	for idx := uint8(0); idx < registerCount; idx++ {
		if idx == RegSndChn || idx == RegAPUFrame {
			continue
		}
		want := uint8(idx*7 + 3)
		a.WriteRegister(idx, want)
		if got := a.ReadLastWritten(idx); got != want {
			t.Errorf("register %#02x: wrote %#02x, read back %#02x", idx, want, got)
		}
	}
}

func TestReinitializationIsByteIdentical(t *testing.T) {
	a := newTestAPU(t, 48000)
	for i := 0; i < 1000; i++ {
		a.Tick()
	}
	a.WriteRegister(RegSQ1Vol, 0x3F)
	a.WriteRegister(RegSndChn, 0x1F)
	for i := 0; i < 500; i++ {
		a.Tick()
	}

	a.Reset()
	first := *a

	a.Reset()
	second := *a

	if first.pulse1 != second.pulse1 || first.noise.lfsr != second.noise.lfsr ||
		first.dmc.currentAddress != second.dmc.currentAddress {
		t.Fatal("reinitializing the APU did not produce identical state")
	}
}

func TestPulseMutesBelowPeriodEight(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegSndChn, 0x01) // enable before loading length, as $4015 gates the reload
	a.WriteRegister(RegSQ1Vol, 0x1F) // constant volume, max level
	a.WriteRegister(RegSQ1Lo, 0x05)
	a.WriteRegister(RegSQ1Hi, 0x00) // period = 5, below the mute threshold; also reloads length

	if got := a.pulse1.sample(); got != 0 {
		t.Fatalf("pulse with period 5 sample() = %d, want 0 (muted)", got)
	}
}

func TestTriangleHoldsSequencerValueWhenLinearCounterZero(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegTriLo, 0xFF)
	a.WriteRegister(RegTriHi, 0x07)
	a.WriteRegister(RegSndChn, 0x04)
	// linear counter was never armed (TRILINEAR not written), so it stays 0.

	before := a.triangle.index
	for i := 0; i < 100; i++ {
		a.Tick()
	}
	if a.triangle.index != before {
		t.Fatalf("triangle sequencer advanced with linear counter at 0: %d -> %d", before, a.triangle.index)
	}
}

func TestDMCAddressWrapsFromFFFFToEightThousand(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.dmc.currentAddress = 0xFFFF
	a.dmc.bytesRemaining = 2
	a.dmc.bitsLeft = 0
	a.dmc.timer = 0

	a.dmc.clockTimer()

	if a.dmc.currentAddress != 0x8000 {
		t.Fatalf("DMC address after fetch at $FFFF = %#04x, want $8000", a.dmc.currentAddress)
	}
}

func TestDMCRaisesIRQOnSampleEnd(t *testing.T) {
	a := newTestAPU(t, 48000)
	a.WriteRegister(RegDMCFreq, 0x8F) // IRQ enable, loop off, fastest rate
	a.WriteRegister(RegDMCAddr, 0x00)
	a.WriteRegister(RegDMCLen, 0x00) // one byte
	a.WriteRegister(RegSndChn, 0x10)

	raised := false
	for i := 0; i < 2000 && !raised; i++ {
		_, _, irq := a.Tick()
		raised = irq
	}
	if !raised {
		t.Fatal("DMC IRQ never raised for a one-shot sample with IRQ enabled")
	}
}
