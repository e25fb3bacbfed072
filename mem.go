// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"errors"
	"fmt"
	"log"
)

var errUnmapped = errors.New("no device at address")

type ioRegion struct {
	name      string
	base      word
	size      word
	iohandler IOHandler
}

// Mem is the peripheral bus. It decodes an address to the device mapped
// there; there is no RAM behind it.
type Mem struct {
	regions []ioRegion
	tickers []Ticker
}

func (m *Mem) attachIO(h IOHandler, name string, base word, size word) {
	for _, r := range m.regions {
		if base < r.base+r.size && r.base < base+size {
			log.Panicf("I/O handler %s at %08X overlaps %s at %08X", name, base, r.name, r.base)
		}
	}

	m.regions = append(m.regions, ioRegion{name, base, size, h})
	if t, ok := h.(Ticker); ok {
		m.tickers = append(m.tickers, t)
	}
}

func (m *Mem) decode(byteaddr word) (*ioRegion, error) {
	if byteaddr%4 != 0 {
		return nil, fmt.Errorf("unaligned access at %08X", byteaddr)
	}
	for i := range m.regions {
		r := &m.regions[i]
		if byteaddr >= r.base && byteaddr-r.base < r.size {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w %08X", errUnmapped, byteaddr)
}

func (m *Mem) read(byteaddr word) (word, error) {
	r, err := m.decode(byteaddr)
	if err != nil {
		return 0, err
	}
	return r.iohandler.read(byteaddr - r.base)
}

func (m *Mem) write(value word, byteaddr word) error {
	r, err := m.decode(byteaddr)
	if err != nil {
		return err
	}
	return r.iohandler.write(value, byteaddr-r.base)
}

func (m *Mem) tick(cycles uint64) {
	for _, t := range m.tickers {
		t.tick(cycles)
	}
}

// regionName returns the name of the device mapped at byteaddr, for traces.
func (m *Mem) regionName(byteaddr word) string {
	for _, r := range m.regions {
		if byteaddr >= r.base && byteaddr-r.base < r.size {
			return r.name
		}
	}
	return "?"
}
