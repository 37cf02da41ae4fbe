package bar

import (
	"strconv"

	"github.com/b/sandbar/pkg/render"
)

// Linux input event codes.
const (
	BtnLeft   = 0x110
	BtnRight  = 0x111
	BtnMiddle = 0x112
)

// PointerEnter records that seat's pointer entered the bar on output.
func (s *Store) PointerEnter(seat, output uint32, x, y float64) {
	st := s.Seat(seat)
	if st == nil {
		return
	}
	st.Pointer = output
	st.X, st.Y = x, y
	st.pressed, st.click = 0, 0
}

func (s *Store) PointerLeave(seat uint32) {
	if st := s.Seat(seat); st != nil {
		st.Pointer = 0
		st.pressed, st.click = 0, 0
	}
}

func (s *Store) PointerMotion(seat uint32, x, y float64) {
	if st := s.Seat(seat); st != nil {
		st.X, st.Y = x, y
	}
}

// PointerButton tracks presses. Releasing the pressed button completes a
// click, which runs on the next frame, or at once without frame events.
func (s *Store) PointerButton(seat, button uint32, pressed bool) {
	st := s.Seat(seat)
	if st == nil {
		return
	}
	if pressed {
		st.pressed, st.click = button, 0
		return
	}
	if button != st.pressed {
		st.pressed = 0
		return
	}
	st.pressed, st.click = 0, button
	if !st.FrameEvents {
		s.PointerFrame(seat)
	}
}

// PointerFrame handles a completed click, if any.
func (s *Store) PointerFrame(seat uint32) {
	st := s.Seat(seat)
	if st == nil || st.click == 0 {
		return
	}
	button := st.click
	st.click = 0

	b := s.Bar(st.Pointer)
	if b == nil || b.Hidden || !b.Configured {
		return
	}
	x := int(st.X) * s.renderer.Options().Scale
	reg := s.renderer.HitTest(s.View(b), x)
	switch reg.Kind {
	case render.Tag:
		var cmd string
		switch button {
		case BtnLeft:
			cmd = "set-focused-tags"
		case BtnMiddle:
			cmd = "toggle-focused-tags"
		case BtnRight:
			cmd = "set-view-tags"
		default:
			return
		}
		s.display.RunCommand(st.ID, cmd, strconv.FormatUint(uint64(1)<<reg.Index, 10))
	case render.Mode:
		var mode string
		switch button {
		case BtnLeft:
			mode = "normal"
		case BtnRight:
			mode = "passthrough"
		default:
			return
		}
		if reg.Index < len(s.seats) {
			s.display.RunCommand(s.seats[reg.Index].ID, "enter-mode", mode)
		}
	}
}
