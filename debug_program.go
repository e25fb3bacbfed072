// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

// debugState holds the globals a debugger is meant to watch.
type debugState struct {
	*Env
	counter int
	buffer  [64]byte
}

// fill rejects negative values, otherwise fills and prints the first
// value bytes of the buffer.
func (d *debugState) fill(value int) {
	if value < 0 {
		d.puts("Error: Negative value!\n")
		return
	}

	n := min(value, len(d.buffer))
	for i := 0; i < n; i++ {
		d.buffer[i] = 'A' + byte(i%26)
	}

	d.counter += value

	d.puts("Debug buffer: ")
	for _, c := range d.buffer[:n] {
		d.putc(c)
	}
	d.puts("\n")
}

func (d *debugState) timerValues() {
	d.puts("Testing timer functionality...\n")

	d.timer.Init(1000000)
	d.puts("Timer initialized\n")

	for i := 0; i < 5 && d.ok(); i++ {
		d.printf("Timer value: %08X\n", d.timer.Read())
		d.cpu.spin(1000000)
	}
}

func (d *debugState) level1(depth int) {
	d.printf("Level 1: depth = %d\n", depth)
	d.counter += depth
	d.level2(depth + 1)
}

func (d *debugState) level2(depth int) {
	d.printf("Level 2: depth = %d\n", depth)
	d.counter += depth * 2
	d.level3(depth + 1)
}

func (d *debugState) level3(depth int) {
	d.printf("Level 3: depth = %d\n", depth)
	d.counter += depth * 3
}

func debugExample(e *Env) {
	d := &debugState{Env: e}

	d.puts("MicroBlaze-V Debug Example Starting...\n")
	d.puts("=====================================\n\n")

	d.puts("Test 1: Basic UART Communication\n")
	d.puts("This tests basic UART functionality\n\n")

	d.puts("Test 2: Problematic Function\n")
	d.fill(5)
	d.fill(-1)
	d.fill(10)
	d.puts("\n")

	d.puts("Test 3: Timer Debugging\n")
	d.timerValues()
	d.puts("\n")

	d.puts("Test 4: Nested Function Calls\n")
	d.level1(1)
	d.puts("\n")

	d.puts("Test 5: Loop with Counter\n")
	for i := 0; i < 10 && d.ok(); i++ {
		d.printf("Loop iteration: %d, debug counter = %d\n", i, d.counter)
		d.cpu.spin(2000000)
	}

	d.puts("\nDebug Example Complete!\n")
	d.printf("Final debug counter value: %d\n\n", d.counter)

	d.puts("Entering infinite loop for debugging...\n")
	for n := 0; d.running(); n++ {
		d.puts("Debug loop: ")
		d.putc('0' + byte(n%10))
		d.puts("\n")
		d.cpu.spin(10000000)
	}
}
