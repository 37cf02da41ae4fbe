package bar

import "github.com/b/sandbar/pkg/config"

func (s *Store) tagMask() uint32 {
	n := len(s.renderer.Options().Tags)
	if n >= config.MaxTags {
		return ^uint32(0)
	}
	return uint32(1)<<n - 1
}

// AddOutput creates the bar for a new output and shows it unless bars
// start hidden.
func (s *Store) AddOutput(id uint32) *Bar {
	if b := s.Bar(id); b != nil {
		return b
	}
	opts := s.renderer.Options()
	b := &Bar{ID: id, Hidden: true, Bottom: opts.Bottom}
	s.bars = append(s.bars, b)
	if !opts.Hidden {
		s.Show(b)
	}
	return b
}

// RemoveOutput destroys the bar for id and drops references to it.
func (s *Store) RemoveOutput(id uint32) {
	for i, b := range s.bars {
		if b.ID != id {
			continue
		}
		if b.surface != nil {
			b.surface.Destroy()
		}
		s.bars = append(s.bars[:i], s.bars[i+1:]...)
		for _, st := range s.seats {
			if st.Bar == id {
				st.Bar = 0
			}
			if st.Pointer == id {
				st.Pointer = 0
				st.pressed, st.click = 0, 0
			}
		}
		s.updateSelection()
		return
	}
}

func (s *Store) SetOutputName(id uint32, name string) {
	if b := s.Bar(id); b != nil {
		b.Name = name
	}
}

// Configure records the size the compositor gave the bar's surface, in
// logical pixels. Repeating the current size does nothing.
func (s *Store) Configure(id uint32, width, height int) {
	b := s.Bar(id)
	if b == nil || b.Hidden {
		return
	}
	scale := s.renderer.Options().Scale
	width, height = width*scale, height*scale
	if b.Configured && width == b.Width && height == b.Height {
		return
	}
	b.Width, b.Height = width, height
	b.Configured = true
	b.redraw = true
}

// SurfaceClosed handles the compositor closing a bar's surface. The bar
// is hidden and can be shown again.
func (s *Store) SurfaceClosed(id uint32) {
	if b := s.Bar(id); b != nil {
		s.logger.Printf("surface on %s closed by compositor", b.describe())
		s.Hide(b)
	}
}

func (s *Store) SetFocusedTags(id, tags uint32) {
	if b := s.Bar(id); b != nil {
		b.Focused = tags & s.tagMask()
		b.redraw = true
	}
}

func (s *Store) SetUrgentTags(id, tags uint32) {
	if b := s.Bar(id); b != nil {
		b.Urgent = tags & s.tagMask()
		b.redraw = true
	}
}

// SetViewTags sets the occupied tags to the union of every view's tags.
func (s *Store) SetViewTags(id uint32, views []uint32) {
	b := s.Bar(id)
	if b == nil {
		return
	}
	var occupied uint32
	for _, v := range views {
		occupied |= v
	}
	b.Occupied = occupied & s.tagMask()
	b.redraw = true
}

func (s *Store) SetLayout(id uint32, name string) {
	if b := s.Bar(id); b != nil {
		b.Layout = name
		b.redraw = true
	}
}

func (s *Store) ClearLayout(id uint32) {
	if b := s.Bar(id); b != nil {
		b.Layout = ""
		b.redraw = true
	}
}

func (b *Bar) describe() string {
	if b.Name != "" {
		return b.Name
	}
	return "output"
}
