// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestTranscriptTail(t *testing.T) {
	var echo bytes.Buffer
	tr := &Transcript{echo: &echo}

	tr.Write([]byte("one\r\ntwo\nthree\nfour"))
	tests := []struct {
		n    int
		want string
	}{
		{1, "four"},
		{2, "three\nfour"},
		{4, "one\ntwo\nthree\nfour"},
		{10, "one\ntwo\nthree\nfour"},
	}
	for _, tt := range tests {
		if got := tr.tail(tt.n); got != tt.want {
			t.Errorf("tail(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
	if echo.String() != "one\r\ntwo\nthree\nfour" {
		t.Errorf("echo got %q", echo.String())
	}
}

func TestTranscriptKeepsTail(t *testing.T) {
	tr := &Transcript{}
	line := strings.Repeat("x", 99) + "\n"
	for i := 0; i < 2*transcriptKeep/len(line); i++ {
		tr.Write([]byte(line))
	}
	tr.Write([]byte("last"))

	if len(tr.text) > transcriptKeep {
		t.Errorf("transcript grew to %d bytes", len(tr.text))
	}
	if got := tr.tail(2); got != line+"last" {
		t.Errorf("tail(2) = %q", got)
	}
}
