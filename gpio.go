// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"log"

	"mbvemu/periph"
)

// GPIO emulates channel 1 of the AXI GPIO with nothing wired to its pins:
// input bits read as 0, output bits read back the latch.
type GPIO struct {
	data  word
	tri   word
	debug bool
}

func (g *GPIO) initialize() {
	// all pins are inputs after reset
	g.tri = wordmask
	g.data = 0
}

func (g *GPIO) read(offset word) (word, error) {
	switch offset {
	case periph.GPIOData:
		return g.data &^ g.tri, nil
	case periph.GPIOTri:
		return g.tri, nil
	}
	return 0, nil
}

func (g *GPIO) write(value word, offset word) error {
	switch offset {
	case periph.GPIOData:
		if g.debug && (g.data^value)&^g.tri != 0 {
			log.Printf("** GPIO outputs %08X -> %08X", g.data&^g.tri, value&^g.tri)
		}
		g.data = value
	case periph.GPIOTri:
		g.tri = value
	}
	return nil
}
