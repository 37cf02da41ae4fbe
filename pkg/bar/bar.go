// Package bar holds the state of every output bar and input seat and turns
// compositor events, control commands and clicks into redraws and river
// commands.
//
// All methods must be called from one goroutine.
package bar

import (
	"io"
	"log"

	"golang.org/x/image/draw"

	"github.com/b/sandbar/pkg/render"
)

// Display creates bar surfaces and sends river commands.
type Display interface {
	// CreateSurface maps a layer surface of the given logical height on
	// output, anchored to the top or bottom edge.
	CreateSurface(output uint32, height int, bottom bool) (Surface, error)
	// RunCommand runs a river command on behalf of seat.
	RunCommand(seat uint32, args ...string)
}

// Surface is a mapped bar.
type Surface interface {
	SetAnchor(bottom bool)
	// NewFrame returns a buffer of width by height device pixels.
	NewFrame(width, height int) (Frame, error)
	Destroy()
}

// Frame is one buffer. After Present it belongs to the display.
type Frame interface {
	Image() draw.Image
	Present()
}

// Bar is the state of one output.
type Bar struct {
	ID   uint32
	Name string
	// Width and Height are in device pixels, valid once Configured.
	Width, Height int
	Configured    bool
	Hidden        bool
	Bottom        bool

	Focused  uint32
	Occupied uint32
	Urgent   uint32
	Selected bool

	Layout string
	Title  string
	Status string

	surface Surface
	redraw  bool
}

// NeedsRedraw reports whether a state change is waiting for a redraw.
func (b *Bar) NeedsRedraw() bool { return b.redraw }

// Seat is the state of one input seat.
type Seat struct {
	ID uint32
	// Bar is the output river reports as focused, or 0.
	Bar uint32
	// Pointer is the bar under the pointer, or 0.
	Pointer uint32
	// X and Y are the pointer position in surface coordinates.
	X, Y float64
	Mode string
	// FrameEvents is set when the pointer sends frame events; otherwise
	// clicks are handled on release.
	FrameEvents bool

	pressed uint32
	click   uint32
}

// Store owns all bars and seats.
type Store struct {
	display  Display
	renderer *render.Renderer
	logger   *log.Logger

	bars  []*Bar
	seats []*Seat
}

// NewStore returns an empty store. A nil logger discards.
func NewStore(display Display, renderer *render.Renderer, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{display: display, renderer: renderer, logger: logger}
}

func (s *Store) Renderer() *render.Renderer { return s.renderer }

// Bars returns the bars in the order their outputs appeared.
func (s *Store) Bars() []*Bar { return s.bars }

// Seats returns the seats in the order they appeared.
func (s *Store) Seats() []*Seat { return s.seats }

// Bar returns the bar for output id, or nil.
func (s *Store) Bar(id uint32) *Bar {
	if id == 0 {
		return nil
	}
	for _, b := range s.bars {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// BarByName returns the first bar whose output has the given name.
func (s *Store) BarByName(name string) *Bar {
	for _, b := range s.bars {
		if b.Name != "" && b.Name == name {
			return b
		}
	}
	return nil
}

// Seat returns the seat with id, or nil.
func (s *Store) Seat(id uint32) *Seat {
	for _, st := range s.seats {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// View returns what a frame of b shows.
func (s *Store) View(b *Bar) render.View {
	modes := make([]string, len(s.seats))
	for i, st := range s.seats {
		modes[i] = st.Mode
	}
	return render.View{
		Width:    b.Width,
		Height:   b.Height,
		Focused:  b.Focused,
		Occupied: b.Occupied,
		Urgent:   b.Urgent,
		Selected: b.Selected,
		Layout:   b.Layout,
		Title:    b.Title,
		Status:   b.Status,
		Modes:    modes,
	}
}

func (s *Store) redrawAll() {
	for _, b := range s.bars {
		b.redraw = true
	}
}

// updateSelection recomputes Selected from the seats.
func (s *Store) updateSelection() {
	for _, b := range s.bars {
		sel := false
		for _, st := range s.seats {
			if st.Bar == b.ID {
				sel = true
				break
			}
		}
		if sel != b.Selected {
			b.Selected = sel
			b.redraw = true
		}
	}
}

// Close destroys every surface.
func (s *Store) Close() {
	for _, b := range s.bars {
		if b.surface != nil {
			b.surface.Destroy()
			b.surface = nil
		}
	}
}
