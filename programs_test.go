// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"mbvemu/periph"
)

// testConfig runs the clock off bus accesses at 1 kHz, so a 500ms delay is
// 500 cycles.
func testConfig() Config {
	return Config{
		ClockMode: Instr,
		ClockHz:   1000,
		Baud:      115200,
	}
}

func runProgram(t *testing.T, cfg Config, name string, input string) (string, *Board, error) {
	t.Helper()
	var out bytes.Buffer
	b := newBoard(cfg, &out)
	for i := 0; i < len(input); i++ {
		b.uart.consoleChan <- input[i]
	}
	err := b.run(name)
	return out.String(), b, err
}

// captureLog sends the log to a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(saved) })
	return &buf
}

func withProgram(t *testing.T, name string, run func(e *Env)) {
	t.Helper()
	programs[name] = program{"test", run}
	t.Cleanup(func() { delete(programs, name) })
}

func TestTimerProgram(t *testing.T) {
	out, b, err := runProgram(t, testConfig(), "timer", "")
	if err != nil {
		t.Fatal(err)
	}

	var want strings.Builder
	want.WriteString("Microblaze-V Timer Test\n")
	for i := 0; i < 10; i++ {
		want.WriteString("Timer tick " + string(rune('0'+i)) + "\n")
	}
	want.WriteString("Timer test complete!\n")
	if out != want.String() {
		t.Errorf("got\n%s\nwant\n%s", out, want.String())
	}

	// ten delays of 500 cycles each, polled at CyclesPerAccess
	if b.clock.total() < 10*500 {
		t.Errorf("program finished after %d cycles", b.clock.total())
	}
	if b.timer.tlr != 500 {
		t.Errorf("TLR0 = %d, want 500", b.timer.tlr)
	}
}

func TestSystemProgram(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoops = 3
	out, _, err := runProgram(t, cfg, "system", "")
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{
		"Microblaze-V System Starting...\nQEMU Platform Test\n",
		"Tick 0\nTick 1\nTick 2\nTick 3\nTick 4\n",
		"\nMicroblaze-V Demo Complete!\nRunning heartbeat...\n\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output lacks %q", s)
		}
	}
	if !strings.HasSuffix(out, "Heartbeat: 0\nHeartbeat: 1\nHeartbeat: 2\n") {
		t.Errorf("output ends %q", out[max(0, len(out)-60):])
	}
}

func TestHelloProgram(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoops = 4
	out, _, err := runProgram(t, cfg, "hello", "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello, Microblaze-V World!\n...." {
		t.Errorf("got %q", out)
	}
}

func TestDebugProgram(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoops = 2
	out, _, err := runProgram(t, cfg, "debug", "")
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{
		"Debug buffer: ABCDE\nError: Negative value!\nDebug buffer: ABCDEFGHIJ\n",
		"Timer initialized\n",
		"Level 1: depth = 1\nLevel 2: depth = 2\nLevel 3: depth = 3\n",
		"Loop iteration: 9, debug counter = 29\n",
		"Final debug counter value: 29\n",
		"Debug loop: 0\nDebug loop: 1\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output lacks %q", s)
		}
	}
	if n := strings.Count(out, "Timer value: "); n != 5 {
		t.Errorf("%d timer values printed, want 5", n)
	}
}

func TestDebugFillClampsToBuffer(t *testing.T) {
	withProgram(t, "fill", func(e *Env) {
		d := &debugState{Env: e}
		d.fill(100)
	})
	out, _, err := runProgram(t, testConfig(), "fill", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSuffix(strings.TrimPrefix(out, "Debug buffer: "), "\n"); len(got) != 64 {
		t.Errorf("printed %d buffer bytes, want 64", len(got))
	}
}

func TestEchoProgram(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoops = 3
	out, _, err := runProgram(t, cfg, "echo", "hi\r")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Echo ready\nhi\r\n" {
		t.Errorf("got %q", out)
	}
}

func TestEchoSpinLimit(t *testing.T) {
	cfg := testConfig()
	cfg.SpinLimit = 100
	out, _, err := runProgram(t, cfg, "echo", "")
	if !errors.Is(err, periph.ErrSpinLimit) {
		t.Fatalf("got %v, want ErrSpinLimit", err)
	}
	if out != "Echo ready\n" {
		t.Errorf("got %q", out)
	}
}

func TestUnknownProgram(t *testing.T) {
	if _, _, err := runProgram(t, testConfig(), "tetris", ""); err == nil {
		t.Error("unknown program ran")
	}
}

func TestStopRequest(t *testing.T) {
	var out bytes.Buffer
	b := newBoard(testConfig(), &out)
	b.cpu.requestStop()

	if err := b.run("system"); !errors.Is(err, Terminated) {
		t.Fatalf("got %v, want Terminated", err)
	}
	if out.Len() != 0 {
		t.Errorf("stopped CPU wrote %q", out.String())
	}
}

func TestBusFault(t *testing.T) {
	withProgram(t, "fault", func(e *Env) {
		e.puts("before\n")
		e.cpu.window(periph.UART16550Base).Load32(0)
		e.puts("after\n")
	})

	captureLog(t)

	out, b, err := runProgram(t, testConfig(), "fault", "")
	if !errors.Is(err, errUnmapped) {
		t.Fatalf("got %v, want errUnmapped", err)
	}
	if out != "before\n" {
		t.Errorf("got %q", out)
	}
	if !b.cpu.stopped {
		t.Error("CPU not stopped after bus fault")
	}
}

// The status check in PutChar is what keeps a slow line from losing bytes.
func TestSlowLineKeepsBytes(t *testing.T) {
	cfg := testConfig()
	cfg.Baud = 10 // 1000 cycles per character
	msg := "the quick brown fox jumps over the lazy dog\n"

	withProgram(t, "slow", func(e *Env) { e.puts(msg) })
	out, b, err := runProgram(t, cfg, "slow", "")
	if err != nil {
		t.Fatal(err)
	}
	if out != msg || b.uart.dropped != 0 {
		t.Errorf("got %q, %d dropped", out, b.uart.dropped)
	}

	withProgram(t, "unchecked", func(e *Env) {
		regs := e.cpu.window(periph.UARTLiteBase)
		for i := 0; i < len(msg); i++ {
			regs.Store32(periph.UARTLiteTxFIFO, uint32(msg[i]))
		}
	})
	captureLog(t)

	out, b, err = runProgram(t, cfg, "unchecked", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) >= len(msg) || b.uart.dropped == 0 {
		t.Errorf("unchecked writes kept %d of %d bytes", len(out), len(msg))
	}
}

func TestTrace(t *testing.T) {
	logbuf := captureLog(t)

	cfg := testConfig()
	cfg.Trace = true
	withProgram(t, "one", func(e *Env) { e.putc('H') })
	if _, _, err := runProgram(t, cfg, "one", ""); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{
		"LOAD   uart  40600008 00000004",
		"STORE  uart  40600004 00000048",
	} {
		if !strings.Contains(logbuf.String(), s) {
			t.Errorf("trace lacks %q:\n%s", s, logbuf.String())
		}
	}
}
