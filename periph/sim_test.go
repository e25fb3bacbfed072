// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

package periph

import "testing"

type store struct {
	off, value uint32
}

// simBlock is a register block the test plays hardware for.
type simBlock struct {
	regs   map[uint32]uint32
	stores []store
	loads  map[uint32]int

	// onLoad runs before each load with the number of earlier loads of off.
	onLoad func(b *simBlock, off uint32, n int)
	// onStore runs before each store is recorded.
	onStore func(b *simBlock, off, value uint32)
}

func newSimBlock() *simBlock {
	return &simBlock{regs: map[uint32]uint32{}, loads: map[uint32]int{}}
}

func (b *simBlock) Load32(off uint32) uint32 {
	if b.onLoad != nil {
		b.onLoad(b, off, b.loads[off])
	}
	b.loads[off]++
	return b.regs[off]
}

func (b *simBlock) Store32(off uint32, value uint32) {
	if b.onStore != nil {
		b.onStore(b, off, value)
	}
	b.stores = append(b.stores, store{off, value})
	b.regs[off] = value
}

func (b *simBlock) storesTo(off uint32) []uint32 {
	var vs []uint32
	for _, s := range b.stores {
		if s.off == off {
			vs = append(vs, s.value)
		}
	}
	return vs
}

func expectStores(t *testing.T, b *simBlock, want ...store) {
	t.Helper()
	if len(b.stores) != len(want) {
		t.Fatalf("got %d stores %v, want %v", len(b.stores), b.stores, want)
	}
	for i := range want {
		if b.stores[i] != want[i] {
			t.Errorf("store %d: got {%#x %#x}, want {%#x %#x}",
				i, b.stores[i].off, b.stores[i].value, want[i].off, want[i].value)
		}
	}
}
