package apu

// lengthTable maps a 5-bit length-counter load value (register bits 7-3)
// to the number of frames the channel keeps playing.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 24,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dutyTable holds the four pulse duty-cycle waveforms (12.5/25/50/75%).
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// triangleTable is the 32-step triangle ramp.
var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noisePeriodTable maps a register's low nibble to the noise timer period (NTSC).
var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// dmcPeriodTable maps a register's low nibble to the DMC output-timer period
// (NTSC); writeFreq subtracts one at point of use, matching how the
// reference driver's table is indexed.
var dmcPeriodTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 66, 50,
}

// lowPassCoeffs is the 57-tap symmetric FIR low-pass response.
var lowPassCoeffs = [lowPassTaps]float32{
	0.001849518640956687, 0.002940828279670894, 0.004082242117319950,
	0.005267921516200974, 0.006491597820838475, 0.007746615346237941,
	0.009025977943704931, 0.010322398774978651, 0.011628352895204809,
	0.012936132218491396, 0.014237902416709077, 0.015525761283040954,
	0.016791798076742259, 0.018028153354790733, 0.019227078789704255,
	0.020380996470845691, 0.021482557189056169, 0.022524697211445895,
	0.023500693064574064, 0.024404213859972788, 0.025229370715880550,
	0.025970762852976014, 0.026623519969633091, 0.027183340533506847,
	0.027646525660829369, 0.028010008292333979, 0.028271377414899983,
	0.028428897120454221, 0.028481520337998785, 0.028428897120454221,
	0.028271377414899983, 0.028010008292333979, 0.027646525660829369,
	0.027183340533506847, 0.026623519969633091, 0.025970762852976014,
	0.025229370715880550, 0.024404213859972788, 0.023500693064574064,
	0.022524697211445895, 0.021482557189056169, 0.020380996470845691,
	0.019227078789704255, 0.018028153354790733, 0.016791798076742259,
	0.015525761283040954, 0.014237902416709077, 0.012936132218491396,
	0.011628352895204809, 0.010322398774978651, 0.009025977943704931,
	0.007746615346237941, 0.006491597820838475, 0.005267921516200974,
	0.004082242117319950, 0.002940828279670894, 0.001849518640956687,
}
