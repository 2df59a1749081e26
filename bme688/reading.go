package bme688

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// Reading is one set of compensated values.
type Reading struct {
	Temperature   float64 `json:"temperature_c"`
	Pressure      float64 `json:"pressure_pa"`
	Humidity      float64 `json:"humidity_rh"`
	GasResistance int64   `json:"gas_resistance_ohm"`
	HeatStable    bool    `json:"heat_stable"`
}

// Env returns the temperature, pressure and humidity as periph units.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.Temperature(r.Temperature*float64(physic.Kelvin)) + physic.ZeroCelsius,
		Pressure:    physic.Pressure(r.Pressure * float64(physic.Pascal)),
		Humidity:    physic.RelativeHumidity(r.Humidity * float64(physic.PercentRH)),
	}
}

func (r Reading) Resistance() physic.ElectricResistance {
	return physic.ElectricResistance(r.GasResistance) * physic.Ohm
}

// Round returns r with temperature, pressure and humidity rounded half away
// from zero to prec decimals.
func (r Reading) Round(prec int) Reading {
	r.Temperature = round(r.Temperature, prec)
	r.Pressure = round(r.Pressure, prec)
	r.Humidity = round(r.Humidity, prec)
	return r
}

// round returns the half away from zero rounded value of x with prec precision.
//
// Special cases are:
// 	Round(±0) = +0
// 	Round(±Inf) = ±Inf
// 	Round(NaN) = NaN
func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	// Fast path for positive precision on integers.
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}

	if x == 0 {
		return 0
	}

	return x / pow
}
