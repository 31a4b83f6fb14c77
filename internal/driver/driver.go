// Package driver implements the PPMCK music-data interpreter: five
// per-voice command streams (four tone channels plus DPCM) that walk
// ROM-resident byte code and drive it into an APU's register interface,
// one video frame at a time.
package driver

import "apu2a03/internal/apu"

// registerWriter is the APU's write-side register interface. *apu.APU
// satisfies this.
type registerWriter interface {
	WriteRegister(index uint8, val uint8)
}

// romReader is the read-only program-memory view the interpreter fetches
// opcodes and tables from. *memory.Memory satisfies this.
type romReader interface {
	Read(address uint16) uint8
}

// Interpreter drives all five voices of a single song. It holds no state
// beyond the voices themselves and the shared channel-enable shadow that
// $15 writes must preserve across a DPCM retrigger.
type Interpreter struct {
	rom romReader
	apu registerWriter

	psg  [4]psgVoice
	dpcm dpcmVoice

	enableMask uint8
}

// New builds an Interpreter for the track pointed to by the fixed track
// table's first 5 entries (pulse 1, pulse 2, triangle, noise, DPCM, in that
// order), and enables every channel.
func New(rom romReader, w registerWriter) *Interpreter {
	ip := &Interpreter{rom: rom, apu: w}

	ip.psg[0] = newPSGVoice(kindPulse1)
	ip.psg[1] = newPSGVoice(kindPulse2)
	ip.psg[2] = newPSGVoice(kindTriangle)
	ip.psg[3] = newPSGVoice(kindNoise)
	for i := range ip.psg {
		ip.psg[i].dataPtr = readTablePointer(rom, trackPointerTable, uint8(i))
	}
	ip.dpcm.dataPtr = readTablePointer(rom, trackPointerTable, 4)

	ip.enableMask = 0x1F
	w.WriteRegister(apu.RegSndChn, ip.enableMask)

	return ip
}

// StepFrame advances every voice by one video frame. The caller invokes
// this once every 29 781 APU cycles.
func (ip *Interpreter) StepFrame() {
	for i := range ip.psg {
		ip.psg[i].step(ip.rom, ip.apu)
	}
	ip.dpcm.step(ip.rom, ip.apu, &ip.enableMask)
}
