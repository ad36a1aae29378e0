// Package draw defines the per-frame command list handed to renderers.
//
// The simulator never talks to a graphics API directly. It fills a Frame with
// Circle and Polyline commands in paint order and passes it to a Renderer, so
// the same frame can be shown in a raylib window, a terminal, or recorded in
// tests.
package draw

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Command is a single draw instruction. It is either a Circle or a Polyline.
type Command interface {
	command()
}

// Circle is a filled disc.
type Circle struct {
	Center r2.Vec
	Radius float64
	Color  color.NRGBA
	Alpha  float64 // Multiplies Color.A, in [0, 1]
	Blur   bool    // Soft edge requested
}

// Polyline is an open or closed line strip.
type Polyline struct {
	Points []r2.Vec
	Color  color.NRGBA
	Alpha  float64
	Width  float64
	Closed bool
}

func (Circle) command()   {}
func (Polyline) command() {}

// Frame is the ordered command list for one display refresh.
type Frame struct {
	Width, Height float64
	Background    color.NRGBA
	Commands      []Command
}

// Reset empties the frame, keeping its command capacity.
func (f *Frame) Reset(width, height float64, bg color.NRGBA) {
	f.Width = width
	f.Height = height
	f.Background = bg
	clear(f.Commands)
	f.Commands = f.Commands[:0]
}

// Add appends a command.
func (f *Frame) Add(c Command) {
	f.Commands = append(f.Commands, c)
}

// Line appends a two-point polyline.
func (f *Frame) Line(a, b r2.Vec, c color.NRGBA, alpha, width float64) {
	f.Commands = append(f.Commands, Polyline{Points: []r2.Vec{a, b}, Color: c, Alpha: alpha, Width: width})
}

// Clone returns a deep copy that does not share point slices with f.
func (f *Frame) Clone() *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Background: f.Background}
	out.Commands = make([]Command, len(f.Commands))
	for i, c := range f.Commands {
		if pl, ok := c.(Polyline); ok {
			pl.Points = append([]r2.Vec(nil), pl.Points...)
			c = pl
		}
		out.Commands[i] = c
	}
	return out
}

// Counts returns the number of circles and polylines in the frame.
func (f *Frame) Counts() (circles, polylines int) {
	for _, c := range f.Commands {
		switch c.(type) {
		case Circle:
			circles++
		case Polyline:
			polylines++
		}
	}
	return circles, polylines
}

// Renderer consumes frames. Open acquires any graphics resources and Close
// releases them; Render is only called between the two.
type Renderer interface {
	Open(width, height int) error
	Render(f *Frame)
	Close() error
}

// EffectiveAlpha combines the command alpha with the color's own alpha.
func EffectiveAlpha(c color.NRGBA, alpha float64) uint8 {
	if alpha <= 0 || math.IsNaN(alpha) {
		return 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return uint8(float64(c.A)*alpha + 0.5)
}
