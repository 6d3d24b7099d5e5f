package ui

import (
	"fmt"
	"io"
	"time"
)

// Spinner animates a loading indicator in the terminal.
// This is a lightweight spinner for non-TUI contexts; it writes to its own
// writer (stderr in the CLI) so stdout stays clean for results.
type Spinner struct {
	w      io.Writer
	frames []string
	msg    string
	stop   chan struct{}
	done   chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(w io.Writer, msg string) *Spinner {
	return &Spinner{
		w:      w,
		frames: spinnerFrames,
		msg:    msg,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the spinner animation in a goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		i := 0
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(s.w, "\r%-60s\r", "") // clear line
				return
			default:
				frame := StyleModel.Render(s.frames[i%len(s.frames)])
				fmt.Fprintf(s.w, "\r%s  %s", frame, s.msg)
				time.Sleep(80 * time.Millisecond)
				i++
			}
		}
	}()
}

// Stop halts the spinner and waits for it to finish.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
