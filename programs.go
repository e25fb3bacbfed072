// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"fmt"
	"sort"

	"mbvemu/periph"
)

type program struct {
	desc string
	run  func(e *Env)
}

var programs = map[string]program{
	"hello":  {"greeting, then a dot now and then", hello},
	"timer":  {"ten ticks half a second apart", timerTest},
	"system": {"startup banner and heartbeat", system},
	"debug":  {"exercises for a debugger session", debugExample},
	"echo":   {"echoes what is typed", echo},
}

func programNames() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Env is what a program runs with. Output errors are sticky: after the
// first one every output call is a no-op and running reports false.
type Env struct {
	cpu   *CPU
	uart  *periph.UARTLite
	timer *periph.Timer
	err   error
}

func (e *Env) ok() bool {
	return e.err == nil
}

func (e *Env) running() bool {
	return e.err == nil && e.cpu.running()
}

func (e *Env) puts(s string) {
	if e.err == nil {
		e.err = e.uart.PutString(s)
	}
}

func (e *Env) putc(c byte) {
	if e.err == nil {
		e.err = e.uart.PutChar(c)
	}
}

func (e *Env) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.uart, format, args...)
	}
}

func (e *Env) getc() byte {
	if e.err != nil {
		return 0
	}
	var c byte
	c, e.err = e.uart.GetChar()
	return c
}

func (e *Env) delay(ms uint32) {
	if e.err == nil {
		e.err = e.timer.Delay(ms)
	}
}

func hello(e *Env) {
	e.puts("Hello, Microblaze-V World!\n")

	for e.running() {
		e.cpu.spin(10000000)
		e.putc('.')
	}
}

func timerTest(e *Env) {
	e.puts("Microblaze-V Timer Test\n")

	for i := 0; i < 10 && e.ok(); i++ {
		e.puts("Timer tick ")
		e.putc('0' + byte(i))
		e.puts("\n")

		e.delay(500)
	}

	e.puts("Timer test complete!\n")
}

func system(e *Env) {
	e.puts("Microblaze-V System Starting...\n")
	e.puts("QEMU Platform Test\n")
	e.puts("==================\n\n")

	e.puts("Testing UARTlite...\n")
	e.puts("Hello from Microblaze-V!\n")

	e.puts("Testing timer delays...\n")
	for i := 0; i < 5 && e.ok(); i++ {
		e.puts("Tick ")
		e.putc('0' + byte(i))
		e.puts("\n")
		e.cpu.spin(5000000)
	}

	e.puts("\nMicroblaze-V Demo Complete!\n")
	e.puts("Running heartbeat...\n\n")

	for heartbeat := 0; e.running(); heartbeat++ {
		e.puts("Heartbeat: ")
		e.putc('0' + byte(heartbeat%10))
		e.puts("\n")
		e.cpu.spin(10000000)
	}
}

func echo(e *Env) {
	e.puts("Echo ready\n")

	for e.running() {
		c := e.getc()
		e.putc(c)
		if c == '\r' {
			e.putc('\n')
		}
	}
}
