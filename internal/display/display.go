// Package display provides the two-line display sink the renderer writes to.
// On a headless board the console implementation logs frame changes; the
// fake records frames for test assertions.
package display

import (
	"log"

	"github.com/sweeney/tally-tracker/internal/face"
)

// Display shows a rendered frame.
type Display interface {
	Show(frame face.Frame)
}

// Console logs frames as they change. Identical consecutive frames are not
// repeated, so a 1 Hz tick does not flood the log.
type Console struct {
	last  face.Frame
	shown bool
}

// NewConsole creates a console display.
func NewConsole() *Console {
	return &Console{}
}

// Show logs the frame if it differs from the previous one.
func (c *Console) Show(frame face.Frame) {
	if c.shown && frame == c.last {
		return
	}
	c.last = frame
	c.shown = true
	log.Printf("display: [%s] [%s]", frame.Top, frame.Main)
}

// Fake records every shown frame.
type Fake struct {
	Frames []face.Frame
}

// NewFake creates a Fake display.
func NewFake() *Fake {
	return &Fake{}
}

// Show records the frame.
func (f *Fake) Show(frame face.Frame) {
	f.Frames = append(f.Frames, frame)
}

// Last returns the most recently shown frame, or a zero frame if none.
func (f *Fake) Last() face.Frame {
	if len(f.Frames) == 0 {
		return face.Frame{}
	}
	return f.Frames[len(f.Frames)-1]
}

// Reset clears recorded frames.
func (f *Fake) Reset() {
	f.Frames = nil
}
