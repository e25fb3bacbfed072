// Copyright 2021-2024 Sebastian Lederer. See the file LICENSE.md for details
package main

import (
	"bytes"
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const ScreenWidth = 640
const ScreenHeight = 400

// DebugPrint uses a 16 pixel line height
const ScreenRows = ScreenHeight / 16

const transcriptKeep = 64 * 1024

// Transcript keeps the tail of the UART output for the window and passes
// everything on to echo.
type Transcript struct {
	mu   sync.Mutex
	text []byte
	echo io.Writer
}

func (t *Transcript) Write(p []byte) (int, error) {
	t.mu.Lock()
	t.text = append(t.text, bytes.ReplaceAll(p, []byte{'\r'}, nil)...)
	if len(t.text) > transcriptKeep {
		t.text = append(t.text[:0], t.text[len(t.text)-transcriptKeep/2:]...)
	}
	t.mu.Unlock()

	if t.echo != nil {
		return t.echo.Write(p)
	}
	return len(p), nil
}

// tail returns the last n lines, the unfinished one included.
func (t *Transcript) tail(n int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	end := len(t.text)
	start := end
	for start > 0 {
		if t.text[start-1] == '\n' {
			n--
			if n == 0 {
				break
			}
		}
		start--
	}
	return string(t.text[start:end])
}

// ConsoleWindow shows the transcript and types into the UART.
type ConsoleWindow struct {
	transcript *Transcript
	input      chan<- byte
	done       <-chan error
	finished   bool
	err        error
}

func (w *ConsoleWindow) send(c byte) {
	select {
	case w.input <- c:
	default:
	}
}

func (w *ConsoleWindow) Update() error {
	if !w.finished {
		select {
		case err := <-w.done:
			w.finished = true
			w.err = err
		default:
		}
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x80 {
			w.send(byte(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		w.send('\r')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		w.send(8)
	}
	return nil
}

func (w *ConsoleWindow) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, w.transcript.tail(ScreenRows))
}

func (w *ConsoleWindow) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth, ScreenHeight
}

// runWindow runs the named program on its own goroutine while the window
// is open. Closing the window stops the program.
func runWindow(b *Board, name string, transcript *Transcript) error {
	done := make(chan error, 1)
	go func() {
		done <- b.run(name)
	}()

	w := &ConsoleWindow{
		transcript: transcript,
		input:      b.uart.consoleChan,
		done:       done,
	}

	ebiten.SetWindowSize(800, 600)
	ebiten.SetWindowTitle("mbvemu " + name)
	if err := ebiten.RunGame(w); err != nil {
		return err
	}

	if !w.finished {
		b.cpu.requestStop()
		w.err = <-done
	}
	return w.err
}
