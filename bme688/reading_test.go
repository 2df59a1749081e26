package bme688

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		prec int
		out  float64
	}{
		{21.456, 2, 21.46},
		{101325.4, 0, 101325},
		{-3.16, 1, -3.2},
		{-0.001, 2, 0},
		{0, 2, 0},
		{42, 2, 42},
	}
	for _, tc := range cases {
		if r := round(tc.in, tc.prec); r != tc.out {
			t.Errorf("round(%v, %d) = %v, expected %v", tc.in, tc.prec, r, tc.out)
		}
	}

	if r := round(math.Copysign(0, -1), 2); math.Signbit(r) {
		t.Error("negative zero kept its sign")
	}
	if r := round(math.Inf(1), 2); !math.IsInf(r, 1) {
		t.Errorf("round(+Inf) = %v", r)
	}
	if r := round(math.MaxFloat64, 2); r != math.MaxFloat64 {
		t.Errorf("round(MaxFloat64) = %v", r)
	}
}

func TestReadingRound(t *testing.T) {
	r := Reading{Temperature: 21.456, Pressure: 101325.456, Humidity: 40.004, GasResistance: 12345, HeatStable: true}
	e := Reading{Temperature: 21.46, Pressure: 101325.46, Humidity: 40, GasResistance: 12345, HeatStable: true}
	if res := r.Round(2); res != e {
		t.Errorf("%+v != expected %+v", res, e)
	}
}
