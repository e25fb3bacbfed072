// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"errors"
	"log"
	"sync/atomic"

	"mbvemu/periph"
)

// Terminated is reported when a run is stopped from outside the program.
var Terminated = errors.New("terminated")

// spinCycles is the cost of one iteration of an empty counting loop.
const spinCycles = 4

// busFault unwinds a program whose CPU has stopped.
type busFault struct {
	err error
}

// CPU is the execution context of a program. Programs reach the
// peripherals only through register windows on its bus.
type CPU struct {
	mem   *Mem
	clock *Clock

	stopped  bool
	stopReq  atomic.Bool
	trace    bool
	maxLoops int
	loops    int
	accesses uint64
}

func (c *CPU) initialize(mem *Mem, clock *Clock) {
	c.mem = mem
	c.clock = clock
	c.stopped = false
	c.stopReq.Store(false)
	c.loops = 0
	c.accesses = 0
}

// requestStop may be called from any goroutine.
func (c *CPU) requestStop() {
	c.stopReq.Store(true)
}

func (c *CPU) halt(err error) {
	c.stopped = true
	panic(busFault{err})
}

func (c *CPU) sync() {
	if c.stopReq.Load() {
		c.halt(Terminated)
	}
	if d := c.clock.access(); d > 0 {
		c.mem.tick(d)
	}
	c.accesses++
}

func (c *CPU) showStep(desc string, addr word, value word) {
	if !c.trace {
		return
	}
	log.Printf("%-6s %-5s %08X %08X", desc, c.mem.regionName(addr), addr, value)
}

func (c *CPU) load(addr word) word {
	c.sync()
	v, err := c.mem.read(addr)
	if err != nil {
		log.Printf("Stopped by error at load %08X", addr)
		c.halt(err)
	}
	c.showStep("LOAD", addr, v)
	return v
}

func (c *CPU) store(value word, addr word) {
	c.sync()
	c.showStep("STORE", addr, value)
	if err := c.mem.write(value, addr); err != nil {
		log.Printf("Stopped by error at store %08X", addr)
		c.halt(err)
	}
}

// spin is an empty counting loop of n iterations.
func (c *CPU) spin(n int) {
	c.clock.burn(uint64(n)*spinCycles, func() bool { return !c.stopReq.Load() })
	// let the devices catch up with the loop
	c.sync()
}

// running is the condition of a program's outer forever loop. With a
// loop budget it turns false once the budget is used up.
func (c *CPU) running() bool {
	if c.stopped || c.stopReq.Load() {
		return false
	}
	if c.maxLoops > 0 {
		if c.loops >= c.maxLoops {
			return false
		}
		c.loops++
	}
	return true
}

type window struct {
	cpu  *CPU
	base word
}

func (c *CPU) window(base word) periph.Registers {
	return &window{cpu: c, base: base}
}

func (w *window) Load32(off uint32) uint32 {
	return uint32(w.cpu.load(w.base + word(off)))
}

func (w *window) Store32(off uint32, value uint32) {
	w.cpu.store(word(value), w.base+word(off))
}
