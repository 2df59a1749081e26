package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const displayLines = 4

// lineWriter is a text display addressed by line.
type lineWriter interface {
	WriteLine(line int, text string) error
}

// terminal is a lineWriter that redraws a fixed block of lines on an ANSI
// terminal.
type terminal struct {
	out   io.Writer
	mut   sync.Mutex
	lines []string
	drawn bool
}

func newTerminal(out io.Writer, lines int) *terminal {
	return &terminal{out: out, lines: make([]string, lines)}
}

func (t *terminal) WriteLine(line int, text string) error {
	t.mut.Lock()
	defer t.mut.Unlock()

	if line < 0 || line >= len(t.lines) {
		return errors.Errorf("line %d outside display of %d lines", line, len(t.lines))
	}
	t.lines[line] = text

	var b strings.Builder
	if t.drawn {
		// Move back to the top of the block.
		fmt.Fprintf(&b, "\x1b[%dA", len(t.lines))
	}
	for _, l := range t.lines {
		b.WriteString("\x1b[2K")
		b.WriteString(l)
		b.WriteString("\n")
	}
	t.drawn = true
	_, err := io.WriteString(t.out, b.String())
	return err
}
