package bme688

import (
	"math"
	"time"
)

// Temperature is a compensated temperature together with the fine
// resolution value that pressure and humidity compensation are computed
// from. Both must come from the same measurement cycle as the reading
// being compensated.
type Temperature struct {
	Celsius float64
	Fine    int32
}

// Temperature compensates a 20 bit raw temperature code.
func (c *Calibration) Temperature(raw int32) Temperature {
	r := float64(raw)
	t1 := float64(c.T1)
	var1 := (r/16384 - t1/1024) * float64(c.T2)
	d := r/131072 - t1/8192
	var2 := d * d * (float64(c.T3) * 16)
	fine := int32(var1 + var2)
	return Temperature{
		Celsius: float64(fine) / 5120,
		Fine:    fine,
	}
}

// Pressure compensates a 20 bit raw pressure code, returning Pa. Every
// intermediate is truncated to an integer before the next step, which the
// deployed firmware does as well.
func (c *Calibration) Pressure(raw int32, t Temperature) float64 {
	var1 := int64(float64(t.Fine)/2 - 64000)
	var2 := int64(float64(var1*var1) * (float64(c.P6) / 131072))
	var2 = int64(float64(var2) + float64(var1)*float64(c.P5)*2)
	var2 = int64(float64(var2)/4 + float64(c.P4)*65536)
	var1 = int64((float64(c.P3)*float64(var1)*float64(var1)/16384 + float64(c.P2)*float64(var1)) / 524288)
	var1 = int64((1 + float64(var1)/32768) * float64(c.P1))
	if var1 == 0 {
		return 0
	}

	p := int64(1048576 - float64(raw))
	p = int64((float64(p) - float64(var2)/4096) * 6250 / float64(var1))
	pf := float64(p)
	var1 = int64(float64(c.P9) * pf * pf / 2147483648)
	var2 = int64(pf * (float64(c.P8) / 32768))
	var3 := int64((pf / 256) * (pf / 256) * (pf / 256) * (float64(c.P10) / 131072))
	p = int64(pf + (float64(var1+var2+var3)+float64(c.P7)*128)/16)
	return float64(p)
}

// Humidity compensates a 16 bit raw humidity code, returning %RH. The
// result is not clamped to 0-100.
func (c *Calibration) Humidity(raw int32, t Temperature) float64 {
	tc := t.Celsius
	var1 := float64(raw) - (float64(c.H1)*16 + (float64(c.H3)/2)*tc)
	var2 := var1 * ((float64(c.H2) / 262144) * (1 + (float64(c.H4)/16384)*tc + (float64(c.H5)/1048576)*tc*tc))
	var3 := float64(c.H6) / 16384
	var4 := float64(c.H7) / 2097152
	return var2 + (var3+var4*tc)*var2*var2
}

// HeaterResistance returns the res_heat register code that heats the gas
// plate to target °C at the given ambient temperature.
func (c *Calibration) HeaterResistance(target float64, ambient Temperature) uint8 {
	var1 := float64(c.G1)/16 + 49
	var2 := (float64(c.G2)/32768)*0.0005 + 0.00235
	var3 := float64(c.G3) / 1024
	var4 := var1 * (1 + var2*target)
	var5 := var4 + var3*ambient.Celsius
	res := 3.4 * (var5*(4/(4+float64(c.ResHeatRange)))*(1/(1+float64(c.ResHeatVal)*0.002)) - 25)
	switch {
	case math.IsNaN(res), res < 0:
		return 0
	case res > math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(res)
}

// GasResistance converts a 10 bit raw gas code and its ADC range to ohms.
func GasResistance(raw uint16, gasRange uint8) int64 {
	var1 := uint32(262144) >> (gasRange & gasRangeMask)
	var2 := (int32(raw&0x3ff)-512)*3 + 4096
	return int64(1000000 * float64(var1) / float64(var2))
}

// GasWait encodes a heater duration as a gas_wait register code: six bits
// of milliseconds and a two bit multiplier of 1, 4, 16 or 64. Durations
// above the encodable maximum saturate.
func GasWait(d time.Duration) uint8 {
	ms := d.Milliseconds()
	if ms >= 0xfc0 {
		return 0xff
	}
	var factor uint8
	for ms > 0x3f {
		ms /= 4
		factor++
	}
	return uint8(ms) | factor<<6
}
