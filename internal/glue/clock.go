// Package glue drives the APU one cycle at a time and the music
// interpreter once per video frame, collecting produced samples into
// caller-supplied buffers. It mirrors the reference player's per-cycle
// loop: tick the APU, and exactly when the frame counter wraps, run the
// interpreter before the next cycle's tick.
package glue

// FrameCycles is the number of APU cycles per NTSC video frame
// (1 789 773 Hz / 60.0988 Hz), the cadence the music interpreter runs at.
const FrameCycles = 29781

// apuCore is the per-cycle tick surface the clock drives.
type apuCore interface {
	Tick() (sample float32, ready bool, irq bool)
}

// driverCore is the per-frame music interpreter surface the clock drives.
type driverCore interface {
	StepFrame()
}

// Clock ties an APU core and a music interpreter together: calling RunFrame
// repeatedly reproduces the reference player's audio_run_2a03 loop.
type Clock struct {
	apu      apuCore
	driver   driverCore
	cpuCycle int
}

// New builds a Clock driving apu and driver together. New itself does not
// step the interpreter; because cpuCycle starts at 0, the first RunFrame
// steps it before its first APU tick, then every FrameCycles APU cycles
// thereafter.
func New(apu apuCore, driver driverCore) *Clock {
	return &Clock{apu: apu, driver: driver}
}

// RunFrame advances the clock by exactly one video frame's worth of APU
// cycles, appending every produced sample to buf (which must have room for
// at least FrameCycles entries; fewer samples than that are typically
// produced once output sample rate is below the APU clock). It returns the
// number of samples written and whether the aggregate IRQ line was
// observed high on any cycle this frame.
func (c *Clock) RunFrame(buf []float32) (n int, irqSeen bool) {
	for i := 0; i < FrameCycles; i++ {
		if c.cpuCycle == 0 {
			c.driver.StepFrame()
		}

		sample, ready, irq := c.apu.Tick()
		if ready && n < len(buf) {
			buf[n] = sample
			n++
		}
		if irq {
			irqSeen = true
		}

		c.cpuCycle++
		if c.cpuCycle == FrameCycles {
			c.cpuCycle = 0
		}
	}
	return n, irqSeen
}
