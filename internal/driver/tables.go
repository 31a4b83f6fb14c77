package driver

// ROM addresses of the fixed data tables the interpreter consults. These
// are baked into the data format itself, not configurable per song.
const (
	dutyEnvelopeTable    = 0x8000
	dutyEnvelopeLoopTab  = 0x8010
	softEnvelopeTable    = 0x8058
	softEnvelopeLoopTab  = 0x806A
	pitchEnvelopeTable   = 0x816F
	pitchEnvelopeLoopTab = 0x8179
	arpeggioTable        = 0x81B2
	arpeggioLoopTable    = 0x81C8
	lfoDataTable         = 0x8218
	dpcmDataTable        = 0x822D
	trackPointerTable    = 0x8245
)

// psgFrequencyTable maps a note's pitch class (the low nibble of a note
// byte) to an 11-bit PSG timer period at octave 0. Index 12 is silence
// (period 0); 13-15 are unused by melodic notes (reserved for noise-channel
// raw values, which bypass this table).
var psgFrequencyTable = [16]uint16{
	0x06AE, 0x064E, 0x05F4, 0x059E,
	0x054E, 0x0501, 0x04B9, 0x0476,
	0x0436, 0x03F9, 0x03C0, 0x038A,
	0x0000, 0x07F2, 0x0780, 0x0714,
}
