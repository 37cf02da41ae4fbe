// Package headless is an in-memory bar.Display. Frames are plain RGBA
// images that also record where glyphs were placed, and river commands
// are kept in a log.
package headless

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/text"
)

// ErrFrame is returned by NewFrame while FailFrames is set.
var ErrFrame = errors.New("frame allocation failed")

// Command is one river command run by a seat.
type Command struct {
	Seat uint32
	Args []string
}

func (c Command) String() string {
	return fmt.Sprintf("seat %d: %s", c.Seat, strings.Join(c.Args, " "))
}

// Display implements bar.Display.
type Display struct {
	Commands []Command
	// Surfaces holds the current surface of every output that has one.
	Surfaces map[uint32]*Surface
	// Created counts surfaces ever created.
	Created int
	// FailSurfaces and FailFrames make the next calls fail.
	FailSurfaces bool
	FailFrames   bool
}

var _ bar.Display = (*Display)(nil)

func New() *Display {
	return &Display{Surfaces: make(map[uint32]*Surface)}
}

func (d *Display) CreateSurface(output uint32, height int, bottom bool) (bar.Surface, error) {
	if d.FailSurfaces {
		return nil, errors.New("surface creation failed")
	}
	s := &Surface{display: d, Output: output, Height: height, Bottom: bottom}
	d.Surfaces[output] = s
	d.Created++
	return s, nil
}

func (d *Display) RunCommand(seat uint32, args ...string) {
	d.Commands = append(d.Commands, Command{Seat: seat, Args: append([]string(nil), args...)})
}

// TakeCommands returns the logged commands and clears the log.
func (d *Display) TakeCommands() []Command {
	cmds := d.Commands
	d.Commands = nil
	return cmds
}

// Surface implements bar.Surface.
type Surface struct {
	display *Display
	Output  uint32
	Height  int
	Bottom  bool
	// Frames counts presented frames.
	Frames int
	// Last is the most recently presented frame.
	Last *Frame
}

func (s *Surface) SetAnchor(bottom bool) { s.Bottom = bottom }

func (s *Surface) NewFrame(width, height int) (bar.Frame, error) {
	if s.display.FailFrames {
		return nil, ErrFrame
	}
	return &Frame{RGBA: image.NewRGBA(image.Rect(0, 0, width, height)), surface: s}, nil
}

func (s *Surface) Destroy() {
	if s.display.Surfaces[s.Output] == s {
		delete(s.display.Surfaces, s.Output)
	}
}

// Frame implements bar.Frame and render.GlyphRecorder.
type Frame struct {
	*image.RGBA
	Glyphs  []text.Placement
	surface *Surface
}

func (f *Frame) Image() draw.Image { return f }

func (f *Frame) RecordGlyph(p text.Placement) { f.Glyphs = append(f.Glyphs, p) }

func (f *Frame) Present() {
	f.surface.Frames++
	f.surface.Last = f
}

// Text returns the placed runes in order.
func (f *Frame) Text() string {
	var sb strings.Builder
	for _, g := range f.Glyphs {
		sb.WriteRune(g.Rune)
	}
	return sb.String()
}

// Cells renders the frame as one character per cell of width w, with
// spaces where nothing was placed. Wide runes fill their first cell.
func (f *Frame) Cells(w int) []rune {
	n := f.Bounds().Dx() / w
	cells := make([]rune, n)
	for i := range cells {
		cells[i] = ' '
	}
	for _, g := range f.Glyphs {
		if i := g.X / w; i >= 0 && i < n {
			cells[i] = g.Rune
			for j := 1; j < g.Advance/w && i+j < n; j++ {
				cells[i+j] = 0
			}
		}
	}
	return cells
}
