package driver

import "apu2a03/internal/apu"

// dpcmVoice is the fifth voice's command stream. It shares the loop,
// bank-set, no-op and wait opcodes with the PSG voices but has no
// envelopes: a note simply loads the four DMC registers from a per-sample
// table and retriggers playback.
type dpcmVoice struct {
	dataPtr     uint16
	waitCounter uint8
	loopCounter uint8
}

func (v *dpcmVoice) step(rom romReader, w registerWriter, enableMask *uint8) {
	if v.waitCounter > 0 {
		v.waitCounter--
		if v.waitCounter > 0 {
			return
		}
	}
	v.runOpcodes(rom, w, enableMask)
}

func (v *dpcmVoice) runOpcodes(rom romReader, w registerWriter, enableMask *uint8) {
	for {
		b := rom.Read(v.dataPtr)
		v.dataPtr++

		switch b {
		case opLoopLimit:
			limit := rom.Read(v.dataPtr)
			v.loopCounter++
			if v.loopCounter == limit {
				v.loopCounter = 0
				v.dataPtr += 3
			} else {
				lo := rom.Read(v.dataPtr + 1)
				hi := rom.Read(v.dataPtr + 2)
				v.dataPtr = uint16(hi)<<8 | uint16(lo)
			}

		case opLoopUntilEqual:
			limit := rom.Read(v.dataPtr)
			v.loopCounter++
			if v.loopCounter != limit {
				lo := rom.Read(v.dataPtr + 1)
				hi := rom.Read(v.dataPtr + 2)
				v.dataPtr = uint16(hi)<<8 | uint16(lo)
			} else {
				v.loopCounter = 0
				v.dataPtr += 3
			}

		case opBankSet:
			lo := rom.Read(v.dataPtr)
			hi := rom.Read(v.dataPtr + 1)
			v.dataPtr = uint16(hi)<<8 | uint16(lo)

		case opNoOp:
			// continue

		case opWaitOnly:
			v.waitCounter = rom.Read(v.dataPtr)
			v.dataPtr++
			return

		default:
			v.playSample(rom, w, enableMask, b)
			v.waitCounter = rom.Read(v.dataPtr)
			v.dataPtr++
			return
		}
	}
}

// playSample loads the rate, optional initial level, start address and
// length for sample index from the fixed DPCM data table, then toggles the
// DMC enable bit off and back on to force the fetch state machine to
// restart from the new starting address.
func (v *dpcmVoice) playSample(rom romReader, w registerWriter, enableMask *uint8, index uint8) {
	entry := dpcmDataTable + uint16(index)*4
	rate := rom.Read(entry)
	level := rom.Read(entry + 1)
	startByte := rom.Read(entry + 2)
	lengthByte := rom.Read(entry + 3)

	off := *enableMask &^ 0x10
	w.WriteRegister(apu.RegSndChn, off)

	w.WriteRegister(apu.RegDMCFreq, rate)
	if level != 0xFF {
		w.WriteRegister(apu.RegDMCRaw, level)
	}
	w.WriteRegister(apu.RegDMCAddr, startByte)
	w.WriteRegister(apu.RegDMCLen, lengthByte)

	*enableMask = off | 0x10
	w.WriteRegister(apu.RegSndChn, *enableMask)
}
