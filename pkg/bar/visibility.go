package bar

// Show maps a surface for b. The bar draws once the compositor configures
// it.
func (s *Store) Show(b *Bar) {
	if !b.Hidden {
		return
	}
	surf, err := s.display.CreateSurface(b.ID, s.renderer.BarHeight(), b.Bottom)
	if err != nil {
		s.logger.Printf("show bar on %s: %v", b.describe(), err)
		return
	}
	b.surface = surf
	b.Hidden = false
	b.Configured = false
}

// Hide destroys b's surface.
func (s *Store) Hide(b *Bar) {
	if b.Hidden {
		return
	}
	if b.surface != nil {
		b.surface.Destroy()
		b.surface = nil
	}
	b.Hidden = true
	b.Configured = false
}

func (s *Store) ToggleVisibility(b *Bar) {
	if b.Hidden {
		s.Show(b)
	} else {
		s.Hide(b)
	}
}

func (s *Store) SetTop(b *Bar) { s.setEdge(b, false) }

func (s *Store) SetBottom(b *Bar) { s.setEdge(b, true) }

func (s *Store) ToggleLocation(b *Bar) { s.setEdge(b, !b.Bottom) }

func (s *Store) setEdge(b *Bar, bottom bool) {
	if !b.Hidden && b.surface != nil {
		b.surface.SetAnchor(bottom)
		b.redraw = true
	}
	b.Bottom = bottom
}

func (s *Store) SetStatus(b *Bar, status string) {
	b.Status = status
	b.redraw = true
}
