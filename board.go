// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"fmt"
	"io"
	"log"

	"mbvemu/periph"
)

// consoleBuffer is how many typed bytes may wait for the UART to take them.
const consoleBuffer = 256

type Config struct {
	ClockMode ClockMode
	ClockHz   uint64
	Baud      uint64
	Trace     bool
	MaxLoops  int // 0: forever loops never end
	SpinLimit int // 0: status polls never give up
}

// Board is the MicroBlaze-V system: a CPU context and the peripherals on
// its bus.
type Board struct {
	cfg   Config
	cpu   CPU
	mem   Mem
	clock Clock
	uart  UARTLite
	timer AXITimer
	gpio  GPIO
}

func newBoard(cfg Config, out io.Writer) *Board {
	b := &Board{cfg: cfg}

	b.clock.initialize(cfg.ClockMode, cfg.ClockHz)

	b.uart.initialize(out, cfg.ClockHz, cfg.Baud)
	b.uart.consoleChan = make(chan byte, consoleBuffer)
	b.mem.attachIO(&b.uart, "uart", periph.UARTLiteBase, periph.UARTLiteSize)

	b.mem.attachIO(&b.timer, "timer", periph.TimerBase, periph.TimerSize)

	b.gpio.initialize()
	b.gpio.debug = cfg.Trace
	b.mem.attachIO(&b.gpio, "gpio", periph.GPIOBase, periph.GPIOSize)

	b.cpu.initialize(&b.mem, &b.clock)
	b.cpu.trace = cfg.Trace
	b.cpu.maxLoops = cfg.MaxLoops

	return b
}

func (b *Board) options() []periph.Option {
	return []periph.Option{
		periph.WithClockHz(uint32(b.cfg.ClockHz)),
		periph.WithSpinLimit(b.cfg.SpinLimit),
	}
}

// run executes the named program until it returns, its forever loop
// budget is used up, or the CPU is stopped.
func (b *Board) run(name string) (err error) {
	prog, ok := programs[name]
	if !ok {
		return fmt.Errorf("unknown program %q", name)
	}

	env := &Env{
		cpu:   &b.cpu,
		uart:  periph.NewUARTLite(b.cpu.window(periph.UARTLiteBase), b.options()...),
		timer: periph.NewTimer(b.cpu.window(periph.TimerBase), b.options()...),
	}

	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(busFault)
			if !ok {
				panic(r)
			}
			err = f.err
		}
		if ferr := b.uart.flush(); err == nil {
			err = ferr
		}
		if b.uart.dropped > 0 || b.uart.overruns > 0 {
			log.Printf("uart: %d bytes dropped on TX, %d on RX", b.uart.dropped, b.uart.overruns)
		}
	}()

	prog.run(env)
	return env.err
}
