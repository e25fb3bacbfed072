// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

type word uint32

const wordmask = 0xFFFFFFFF

// IOHandler is a memory-mapped device. Offsets are relative to the
// device's base address and always word aligned.
type IOHandler interface {
	read(offset word) (word, error)
	write(value word, offset word) error
}

// Ticker is a device that advances with the board clock.
type Ticker interface {
	tick(cycles uint64)
}
