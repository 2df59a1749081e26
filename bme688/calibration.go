package bme688

import "github.com/calmh/boatenv/i2c"

// Calibration holds the factory trimming coefficients read from the
// device's non-volatile registers.
type Calibration struct {
	T1 uint16
	T2 int16
	T3 int8

	P1  uint16
	P2  int16
	P3  int8
	P4  int16
	P5  int16
	P6  int8
	P7  int8
	P8  int16
	P9  int16
	P10 uint8

	H1 uint16 // 12 bits
	H2 uint16 // 12 bits
	H3 int8
	H4 int8
	H5 int8
	H6 uint8
	H7 int8

	G1           int8
	G2           int16
	G3           int8
	ResHeatRange uint8 // 2 bits
	ResHeatVal   int8
}

// readCalibration reads every coefficient, one register at a time. Faults
// are left in r and the affected coefficients read as zero.
func readCalibration(r *i2c.Reader) Calibration {
	var c Calibration

	c.T1 = r.Uint16(regParT1LSB, regParT1MSB)
	c.T2 = r.Int16(regParT2LSB, regParT2MSB)
	c.T3 = r.Int8(regParT3)

	c.P1 = r.Uint16(regParP1LSB, regParP1MSB)
	c.P2 = r.Int16(regParP2LSB, regParP2MSB)
	c.P3 = r.Int8(regParP3)
	c.P4 = r.Int16(regParP4LSB, regParP4MSB)
	c.P5 = r.Int16(regParP5LSB, regParP5MSB)
	c.P6 = r.Int8(regParP6)
	c.P7 = r.Int8(regParP7)
	c.P8 = r.Int16(regParP8LSB, regParP8MSB)
	c.P9 = r.Int16(regParP9LSB, regParP9MSB)
	c.P10 = r.Byte(regParP10)

	// H1 and H2 share the nibbles of 0xe2.
	h := r.Read(regParH1H2LSB, regParH1MSB, regParH2MSB)
	c.H1 = humidityH1(h[0], h[1])
	c.H2 = humidityH2(h[0], h[2])
	c.H3 = r.Int8(regParH3)
	c.H4 = r.Int8(regParH4)
	c.H5 = r.Int8(regParH5)
	c.H6 = r.Byte(regParH6)
	c.H7 = r.Int8(regParH7)

	c.G1 = r.Int8(regParG1)
	c.G2 = r.Int16(regParG2LSB, regParG2MSB)
	c.G3 = r.Int8(regParG3)
	c.ResHeatRange = (r.Byte(regResHeatRange) & 0x30) >> 4
	c.ResHeatVal = r.Int8(regResHeatVal)

	return c
}

func humidityH1(lsb, msb uint8) uint16 {
	return uint16(msb)<<4 | uint16(lsb&0x0f)
}

func humidityH2(lsb, msb uint8) uint16 {
	return uint16(msb)<<4 | uint16(lsb>>4)
}
