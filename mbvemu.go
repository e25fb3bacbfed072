// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"

	"mbvemu/periph"
)

// typing ^] stops the emulator
const quitKey = 0x1d

func readConsole(ch chan<- byte, cpu *CPU) {
	for {
		buf := make([]byte, 1)
		n, err := ConsoleRead(buf)
		if err != nil {
			if err != io.EOF {
				log.Print("read error on stdin: ", err)
			}
			return
		}
		if n == 0 {
			continue
		}
		if buf[0] == quitKey {
			cpu.requestStop()
			continue
		}
		select {
		case ch <- buf[0]:
		default:
			// the UART is not keeping up, drop like a line overrun
		}
	}
}

func main() {
	os.Exit(emulate())
}

func emulate() int {
	clockPtr := flag.String("clock", "realtime", "clock mode, realtime or instr")
	hzPtr := flag.Uint64("hz", periph.DefaultClockHz, "bus clock in Hz")
	baudPtr := flag.Uint64("baud", 115200, "UART-lite baud rate")
	tracePtr := flag.Bool("t", false, "trace")
	loopsPtr := flag.Int("loops", 0, "end forever loops after this many rounds (0: never)")
	spinPtr := flag.Int("spin", 0, "give up status polls after this many reads (0: never)")
	windowPtr := flag.Bool("window", false, "show the console in a window")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [program]\n\nprograms:\n", os.Args[0])
		for _, name := range programNames() {
			fmt.Fprintf(flag.CommandLine.Output(), "  %-8s %s\n", name, programs[name].desc)
		}
		fmt.Fprintln(flag.CommandLine.Output(), "\nflags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	name := "system"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}

	log.SetFlags(0)

	mode, err := parseClockMode(*clockPtr)
	if err != nil {
		log.Print(err)
		return 2
	}
	if *hzPtr == 0 || *hzPtr > math.MaxUint32 {
		log.Printf("clock of %d Hz out of range", *hzPtr)
		return 2
	}
	if _, ok := programs[name]; !ok {
		log.Printf("unknown program %q", name)
		flag.Usage()
		return 2
	}

	oldState, err := SetRawConsole()
	if err != nil {
		panic(err)
	}
	defer RestoreConsole(oldState)

	out := ConsoleWriter(oldState)
	var transcript *Transcript
	if *windowPtr {
		transcript = &Transcript{echo: out}
		out = transcript
	}

	board := newBoard(Config{
		ClockMode: mode,
		ClockHz:   *hzPtr,
		Baud:      *baudPtr,
		Trace:     *tracePtr,
		MaxLoops:  *loopsPtr,
		SpinLimit: *spinPtr,
	}, out)

	go readConsole(board.uart.consoleChan, &board.cpu)

	if oldState == nil {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		go func() {
			<-sigs
			board.cpu.requestStop()
		}()
	}

	if *windowPtr {
		err = runWindow(board, name, transcript)
	} else {
		err = board.run(name)
	}

	if err != nil && !errors.Is(err, Terminated) {
		log.Printf("Stopped: %v", err)
		return 1
	}
	return 0
}
