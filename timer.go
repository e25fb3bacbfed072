// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import "mbvemu/periph"

// AXITimer emulates timer 0 of the AXI timer. Timer 1 and the interrupt
// output are not modelled; ENIT0 is stored and read back only.
type AXITimer struct {
	tcsr word
	tlr  word
	tcr  word
}

func (t *AXITimer) read(offset word) (word, error) {
	switch offset {
	case periph.TimerTCSR0:
		return t.tcsr, nil
	case periph.TimerTLR0:
		return t.tlr, nil
	case periph.TimerTCR0:
		return t.tcr, nil
	}
	return 0, nil
}

func (t *AXITimer) write(value word, offset word) error {
	switch offset {
	case periph.TimerTCSR0:
		wasEnabled := t.tcsr&periph.CSREnable != 0
		// any write to TCSR0 rearms, so the expired latch is cleared
		t.tcsr = value &^ periph.CSRExpired
		if value&periph.CSRLoad != 0 || (!wasEnabled && value&periph.CSREnable != 0) {
			t.tcr = t.tlr
		}
	case periph.TimerTLR0:
		t.tlr = value
	}
	return nil
}

func (t *AXITimer) expire() {
	t.tcsr |= periph.CSRExpired
}

func (t *AXITimer) tick(cycles uint64) {
	if t.tcsr&periph.CSREnable == 0 || t.tcsr&periph.CSRLoad != 0 {
		return
	}
	if t.tcsr&periph.CSRDownCount != 0 {
		t.countDown(cycles)
	} else {
		t.countUp(cycles)
	}
}

// countDown runs the counter towards zero. Reaching zero latches the
// expired bit; with auto-reload the next cycle restarts from TLR0,
// otherwise the counter stays at zero.
func (t *AXITimer) countDown(cycles uint64) {
	autoReload := t.tcsr&periph.CSRAutoReload != 0
	for cycles > 0 {
		if t.tcr == 0 {
			if !autoReload {
				return
			}
			if t.tlr == 0 {
				t.expire()
				return
			}
			t.tcr = t.tlr
		}
		if cycles < uint64(t.tcr) {
			t.tcr -= word(cycles)
			return
		}
		cycles -= uint64(t.tcr)
		t.tcr = 0
		t.expire()
		if autoReload && t.tlr > 0 {
			cycles %= uint64(t.tlr)
		}
	}
}

// countUp is countDown mirrored: the counter runs towards 0xFFFFFFFF.
func (t *AXITimer) countUp(cycles uint64) {
	autoReload := t.tcsr&periph.CSRAutoReload != 0
	for cycles > 0 {
		if t.tcr == wordmask {
			if !autoReload {
				return
			}
			if t.tlr == wordmask {
				t.expire()
				return
			}
			t.tcr = t.tlr
		}
		left := uint64(wordmask - t.tcr)
		if cycles < left {
			t.tcr += word(cycles)
			return
		}
		cycles -= left
		t.tcr = wordmask
		t.expire()
		if autoReload && t.tlr != wordmask {
			cycles %= uint64(wordmask - t.tlr)
		}
	}
}
