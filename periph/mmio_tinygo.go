// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

//go:build tinygo

package periph

import (
	"runtime/volatile"
	"unsafe"
)

type mmio uintptr

// MMIO returns the register block mapped at base.
func MMIO(base uintptr) Registers {
	return mmio(base)
}

func (m mmio) reg(off uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(m) + uintptr(off)))
}

func (m mmio) Load32(off uint32) uint32 {
	return m.reg(off).Get()
}

func (m mmio) Store32(off uint32, value uint32) {
	m.reg(off).Set(value)
}

// Console returns the driver for the board's UART-lite.
func Console(opts ...Option) *UARTLite {
	return NewUARTLite(MMIO(UARTLiteBase), opts...)
}

// SysTimer returns the driver for timer 0 of the board's AXI timer.
func SysTimer(opts ...Option) *Timer {
	return NewTimer(MMIO(TimerBase), opts...)
}
