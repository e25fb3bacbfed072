//go:build !windows

// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details

package main

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"
)

type ConsoleState struct {
	state *term.State
}

// SetRawConsole puts stdin into raw mode. When stdin is not a terminal it
// does nothing and returns a nil state.
func SetRawConsole() (*ConsoleState, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &ConsoleState{oldState}, nil
}

func RestoreConsole(st *ConsoleState) error {
	if st == nil {
		return nil
	}
	return term.Restore(int(os.Stdin.Fd()), st.state)
}

func ConsoleRead(buf []byte) (count int, err error) {
	return os.Stdin.Read(buf)
}

// ConsoleWriter is where UART output goes. A raw terminal no longer turns
// LF into CR LF, so that is done here.
func ConsoleWriter(st *ConsoleState) io.Writer {
	if st == nil {
		return os.Stdout
	}
	return crlfWriter{os.Stdout}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	_, err := c.w.Write(bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\r', '\n'}))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
