//go:build windows

// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

package main

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

type ConsoleState struct {
	modeStdin uint32
}

func SetRawConsole() (*ConsoleState, error) {
	var stIn uint32

	stdinFd := os.Stdin.Fd()

	if err := windows.GetConsoleMode(windows.Handle(stdinFd), &stIn); err != nil {
		// not a console, e.g. redirected input
		return nil, nil
	}
	raw := stIn &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_OUTPUT)
	raw |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	if err := windows.SetConsoleMode(windows.Handle(stdinFd), raw); err != nil {
		return nil, err
	}
	return &ConsoleState{stIn}, nil
}

func RestoreConsole(st *ConsoleState) error {
	if st == nil {
		return nil
	}
	return windows.SetConsoleMode(windows.Handle(os.Stdin.Fd()), st.modeStdin)
}

func ConsoleRead(buf []byte) (count int, err error) {
	n, e := os.Stdin.Read(buf)
	if e == io.EOF { // ^Z
		n = 1
		buf[0] = 26
		return n, nil
	}
	return n, e
}

// ConsoleWriter is where UART output goes. Output processing is left on
// by SetRawConsole, so no translation is needed.
func ConsoleWriter(st *ConsoleState) io.Writer {
	return os.Stdout
}
