package store

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/calmh/boatenv/bme688"
)

func openTemp(t *testing.T) *Store {
	dir, err := ioutil.TempDir("", "store")
	if err != nil {
		t.Fatal(err)
	}
	s, err := Open(filepath.Join(dir, "test.sqlite"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(dir)
	})
	return s
}

func TestAddRecent(t *testing.T) {
	s := openTemp(t)

	t0 := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := bme688.Reading{
			Temperature:   20 + float64(i),
			Pressure:      101325,
			Humidity:      40,
			GasResistance: int64(1000 * i),
			HeatStable:    i%2 == 0,
		}
		if err := s.Add(t0.Add(time.Duration(i)*time.Minute), r); err != nil {
			t.Fatal(err)
		}
	}

	ms, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 3 {
		t.Fatalf("%d measurements, expected 3", len(ms))
	}
	for i, m := range ms {
		exp := 24 - float64(i)
		if m.Temperature != exp {
			t.Errorf("measurement %d: temperature %v, expected %v", i, m.Temperature, exp)
		}
	}
	if r := ms[0].Reading(); r.GasResistance != 4000 || !r.HeatStable {
		t.Errorf("unexpected reading %+v", r)
	}
}

func TestPrune(t *testing.T) {
	s := openTemp(t)

	t0 := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := s.Add(t0.Add(time.Duration(i)*time.Hour), bme688.Reading{Temperature: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(t0.Add(2 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("pruned %d, expected 2", n)
	}

	ms, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 2 || ms[1].Temperature != 2 {
		t.Errorf("unexpected remaining measurements %+v", ms)
	}
}
