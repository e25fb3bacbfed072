// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"fmt"
	"io"

	"mbvemu/periph"
)

const uartFIFODepth = 16

// bits on the line per character: start, 8 data, stop
const uartBitsPerChar = 10

// UARTLite emulates the UART-lite: two 16 byte FIFOs, a status and a
// control register. The TX FIFO drains at the baud rate; the RX FIFO is
// filled from consoleChan.
type UARTLite struct {
	rx          []byte
	tx          []byte
	overrun     bool
	intrEnabled bool
	consoleChan chan byte
	out         io.Writer
	outErr      error

	cyclesPerChar uint64
	txCycles      uint64

	dropped  int // TX writes lost to a full FIFO
	overruns int // RX bytes lost to a full FIFO
}

func (u *UARTLite) initialize(out io.Writer, hz uint64, baud uint64) {
	u.out = out
	u.rx = make([]byte, 0, uartFIFODepth)
	u.tx = make([]byte, 0, uartFIFODepth)
	u.cyclesPerChar = 1
	if baud > 0 && hz*uartBitsPerChar/baud > 0 {
		u.cyclesPerChar = hz * uartBitsPerChar / baud
	}
}

// poll moves waiting console input into the RX FIFO.
func (u *UARTLite) poll() {
	for u.consoleChan != nil {
		select {
		case inbyte, ok := <-u.consoleChan:
			if !ok {
				u.consoleChan = nil
				return
			}
			if len(u.rx) == uartFIFODepth {
				u.overrun = true
				u.overruns++
			} else {
				u.rx = append(u.rx, inbyte)
			}
		default:
			return
		}
	}
}

func (u *UARTLite) status() word {
	var st word
	if len(u.rx) > 0 {
		st |= periph.SRRxFIFOValidData
	}
	if len(u.rx) == uartFIFODepth {
		st |= periph.SRRxFIFOFull
	}
	if len(u.tx) == 0 {
		st |= periph.SRTxFIFOEmpty
	}
	if len(u.tx) == uartFIFODepth {
		st |= periph.SRTxFIFOFull
	}
	if u.intrEnabled {
		st |= periph.SRIntrEnabled
	}
	if u.overrun {
		st |= periph.SROverrunError
	}
	return st
}

func (u *UARTLite) read(offset word) (word, error) {
	if u.outErr != nil {
		return 0, u.outErr
	}

	switch offset {
	case periph.UARTLiteRxFIFO:
		u.poll()
		if len(u.rx) == 0 {
			return 0, nil
		}
		result := word(u.rx[0])
		u.rx = u.rx[1:]
		return result, nil
	case periph.UARTLiteStat:
		u.poll()
		st := u.status()
		// error bits clear on read
		u.overrun = false
		return st, nil
	}
	return 0, nil
}

func (u *UARTLite) write(value word, offset word) error {
	if u.outErr != nil {
		return u.outErr
	}

	switch offset {
	case periph.UARTLiteTxFIFO:
		if len(u.tx) == uartFIFODepth {
			u.dropped++
			return nil
		}
		if len(u.tx) == 0 {
			u.txCycles = 0
		}
		u.tx = append(u.tx, byte(value&255))
	case periph.UARTLiteCtrl:
		if value&periph.CRResetTxFIFO != 0 {
			u.tx = u.tx[:0]
		}
		if value&periph.CRResetRxFIFO != 0 {
			u.rx = u.rx[:0]
		}
		u.intrEnabled = value&periph.CREnableIntr != 0
	}
	return nil
}

func (u *UARTLite) tick(cycles uint64) {
	if len(u.tx) == 0 {
		return
	}
	u.txCycles += cycles
	n := 0
	for n < len(u.tx) && u.txCycles >= u.cyclesPerChar {
		u.txCycles -= u.cyclesPerChar
		n++
	}
	u.emit(n)
}

// flush sends whatever is still queued, as the line would after the
// program stops touching the UART.
func (u *UARTLite) flush() error {
	u.emit(len(u.tx))
	return u.outErr
}

func (u *UARTLite) emit(n int) {
	if n == 0 {
		return
	}
	if u.outErr == nil {
		_, err := u.out.Write(u.tx[:n])
		if err != nil {
			u.outErr = fmt.Errorf("uart output: %w", err)
		}
	}
	u.tx = append(u.tx[:0], u.tx[n:]...)
}
