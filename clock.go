// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"fmt"
	"time"
)

type ClockMode int

const (
	// Realtime derives elapsed cycles from the wall clock.
	Realtime ClockMode = iota
	// Instr charges a fixed number of cycles per bus access, so a run is
	// reproducible.
	Instr
)

func (m ClockMode) String() string {
	switch m {
	case Realtime:
		return "realtime"
	case Instr:
		return "instr"
	}
	return fmt.Sprintf("ClockMode(%d)", int(m))
}

func parseClockMode(s string) (ClockMode, error) {
	switch s {
	case "realtime":
		return Realtime, nil
	case "instr":
		return Instr, nil
	}
	return 0, fmt.Errorf("unknown clock mode %q", s)
}

// CyclesPerAccess is what one bus access costs in Instr mode.
const CyclesPerAccess = 4

type Clock struct {
	mode    ClockMode
	hz      uint64
	start   time.Time
	now     func() time.Time
	handed  uint64 // cycles already given to the devices
	pending uint64 // Instr mode: burnt cycles not handed out yet
}

func (c *Clock) initialize(mode ClockMode, hz uint64) {
	c.mode = mode
	c.hz = hz
	if c.now == nil {
		c.now = time.Now
	}
	c.start = c.now()
	c.handed = 0
	c.pending = 0
}

// total is the number of cycles since initialize.
func (c *Clock) total() uint64 {
	if c.mode == Instr {
		return c.handed + c.pending
	}
	elapsed := c.now().Sub(c.start)
	secs := uint64(elapsed / time.Second)
	nsecs := uint64(elapsed % time.Second)
	return secs*c.hz + nsecs*c.hz/uint64(time.Second)
}

// access accounts for one bus access and returns the cycles elapsed
// since the previous call.
func (c *Clock) access() uint64 {
	if c.mode == Instr {
		c.pending += CyclesPerAccess
	}
	now := c.total()
	delta := now - c.handed
	c.handed = now
	if c.mode == Instr {
		c.pending = 0
	}
	return delta
}

// burn lets n cycles pass without a bus access. In Realtime mode that
// means actually spinning until the wall clock has moved on.
func (c *Clock) burn(n uint64, keepGoing func() bool) {
	if c.mode == Instr {
		c.pending += n
		return
	}
	target := c.total() + n
	for c.total() < target && keepGoing() {
	}
}
