package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calmh/boatenv/bme688"
)

type recordedLines map[int]string

func (r recordedLines) WriteLine(line int, text string) error {
	r[line] = text
	return nil
}

func TestShow(t *testing.T) {
	rec := make(recordedLines)
	show(rec, bme688.Reading{Temperature: 21.456, Pressure: 101325, Humidity: 40.5, GasResistance: 12000})

	expected := map[int]string{
		0: "T  21.46 C",
		1: "P 1013.25 hPa",
		2: "H  40.50 %",
		3: "G 12000 ohm *",
	}
	for i, e := range expected {
		if rec[i] != e {
			t.Errorf("line %d: %q != %q", i, rec[i], e)
		}
	}
}

func TestTerminalRedraws(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(&buf, 2)

	if err := term.WriteLine(0, "first"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[2A") {
		t.Error("cursor moved up before anything was drawn")
	}

	buf.Reset()
	if err := term.WriteLine(1, "second"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\x1b[2A") {
		t.Errorf("redraw does not start at the top: %q", out)
	}
	if !strings.Contains(out, "first\n") || !strings.Contains(out, "second\n") {
		t.Errorf("redraw lost a line: %q", out)
	}
}

func TestTerminalRejectsBadLine(t *testing.T) {
	term := newTerminal(&bytes.Buffer{}, displayLines)
	if err := term.WriteLine(displayLines, "x"); err == nil {
		t.Error("expected error for line past the end")
	}
	if err := term.WriteLine(-1, "x"); err == nil {
		t.Error("expected error for negative line")
	}
}
