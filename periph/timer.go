// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

package periph

import "math"

// ArmWord is the TCSR0 value of a running timer: enabled, auto-reload,
// counting down.
const ArmWord = CSREnable | CSRAutoReload | CSRDownCount

// Timer drives timer 0 of the AXI timer as a free-running down counter.
type Timer struct {
	regs Registers
	cfg  config
}

func NewTimer(regs Registers, opts ...Option) *Timer {
	return &Timer{regs: regs, cfg: newConfig(opts)}
}

// Init loads reload into the counter and starts it. The counter then
// reloads itself and latches CSRExpired every reload cycles.
func (t *Timer) Init(reload uint32) {
	t.regs.Store32(TimerTLR0, reload)
	t.regs.Store32(TimerTCSR0, CSRLoad)
	t.regs.Store32(TimerTCSR0, ArmWord)
}

// Read returns the live counter.
func (t *Timer) Read() uint32 {
	return t.regs.Load32(TimerTCR0)
}

// Expired reports whether a period has elapsed since the timer was armed.
func (t *Timer) Expired() bool {
	return t.regs.Load32(TimerTCSR0)&CSRExpired != 0
}

// WaitForExpiry spins until the expired bit is latched.
func (t *Timer) WaitForExpiry() error {
	return t.cfg.spinUntil(t.regs, TimerTCSR0, CSRExpired, CSRExpired)
}

// Stop disarms the timer.
func (t *Timer) Stop() {
	t.regs.Store32(TimerTCSR0, 0)
}

// Cycles converts ms to timer input clock cycles, saturating at the
// largest load value.
func (t *Timer) Cycles(ms uint32) uint32 {
	c := uint64(ms) * uint64(t.cfg.clockHz) / 1000
	if c > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(c)
}

// Delay busy-waits for ms milliseconds. It rearms the timer, so whatever
// was running before is lost.
func (t *Timer) Delay(ms uint32) error {
	t.Init(t.Cycles(ms))
	return t.WaitForExpiry()
}
