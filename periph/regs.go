// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

// Package periph drives the MicroBlaze-V UART-lite and AXI timer through
// their 32-bit register blocks.
//
// The drivers never touch fixed addresses themselves. They are handed a
// Registers value: a simulated block in tests, a bus window in the
// emulator, or the real memory-mapped block on hardware (see MMIO).
package periph

import "errors"

// Registers is a block of 32-bit registers addressed by byte offset.
// Every call is a single bus transaction.
type Registers interface {
	Load32(off uint32) uint32
	Store32(off uint32, value uint32)
}

// Peripheral base addresses.
const (
	GPIOBase      = 0x40000000
	UARTLiteBase  = 0x40600000
	TimerBase     = 0x41C00000
	UART16550Base = 0x44A11000 // not mapped by the emulator
)

// UART-lite register offsets.
const (
	UARTLiteRxFIFO = 0x00 // R
	UARTLiteTxFIFO = 0x04 // W
	UARTLiteStat   = 0x08 // R
	UARTLiteCtrl   = 0x0C // W
	UARTLiteSize   = 0x10
)

// UART-lite status register bits.
const (
	SRRxFIFOValidData = 0x01
	SRRxFIFOFull      = 0x02
	SRTxFIFOEmpty     = 0x04
	SRTxFIFOFull      = 0x08
	SRIntrEnabled     = 0x10
	SROverrunError    = 0x20
)

// UART-lite control register bits.
const (
	CRResetTxFIFO = 0x01
	CRResetRxFIFO = 0x02
	CREnableIntr  = 0x10
)

// Timer 0 register offsets.
const (
	TimerTCSR0 = 0x00 // control/status
	TimerTLR0  = 0x04 // load
	TimerTCR0  = 0x08 // counter, read-only
	TimerSize  = 0x10
)

// Timer control/status bits.
const (
	CSRDownCount  = 0x002
	CSRAutoReload = 0x010
	CSRLoad       = 0x020
	CSREnableInt  = 0x040
	CSREnable     = 0x080
	CSRExpired    = 0x100 // latched, cleared by rewriting TCSR0
)

// GPIO channel 1 register offsets.
const (
	GPIOData = 0x00
	GPIOTri  = 0x04
	GPIOSize = 0x08
)

// DefaultClockHz is the bus clock of every board configuration shipped so far.
const DefaultClockHz = 100_000_000

// ErrSpinLimit is returned by a blocking call when a spin limit was
// configured and the awaited status bit never showed up.
var ErrSpinLimit = errors.New("periph: spin limit reached")

type config struct {
	spinLimit int
	clockHz   uint32
}

// Option configures a driver.
type Option func(*config)

// WithSpinLimit bounds every status poll to n reads. Zero, the default,
// polls forever.
func WithSpinLimit(n int) Option {
	return func(c *config) { c.spinLimit = n }
}

// WithClockHz sets the timer input clock used to convert milliseconds to
// cycles.
func WithClockHz(hz uint32) Option {
	return func(c *config) { c.clockHz = hz }
}

func newConfig(opts []Option) config {
	c := config{clockHz: DefaultClockHz}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// spinUntil polls regs at off until (value & mask) == want. There is no
// sleep or yield between reads.
func (c *config) spinUntil(regs Registers, off, mask, want uint32) error {
	for n := 0; regs.Load32(off)&mask != want; n++ {
		if c.spinLimit > 0 && n+1 >= c.spinLimit {
			return ErrSpinLimit
		}
	}
	return nil
}
