package bar

// AddSeat registers a seat. Modes are drawn for every seat, so all bars
// are redrawn.
func (s *Store) AddSeat(id uint32) *Seat {
	if st := s.Seat(id); st != nil {
		return st
	}
	st := &Seat{ID: id}
	s.seats = append(s.seats, st)
	s.redrawAll()
	return st
}

func (s *Store) RemoveSeat(id uint32) {
	for i, st := range s.seats {
		if st.ID == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			s.updateSelection()
			s.redrawAll()
			return
		}
	}
}

// FocusOutput records that seat focuses output. An unknown output leaves
// the seat with no bar.
func (s *Store) FocusOutput(seat, output uint32) {
	st := s.Seat(seat)
	if st == nil {
		return
	}
	st.Bar = 0
	if b := s.Bar(output); b != nil {
		st.Bar = b.ID
		b.redraw = true
	}
	s.updateSelection()
}

// UnfocusOutput clears the seat's focused bar.
func (s *Store) UnfocusOutput(seat uint32) {
	st := s.Seat(seat)
	if st == nil || st.Bar == 0 {
		return
	}
	if b := s.Bar(st.Bar); b != nil {
		b.redraw = true
	}
	st.Bar = 0
	s.updateSelection()
}

// SetFocusedView sets the title of the seat's focused bar.
func (s *Store) SetFocusedView(seat uint32, title string) {
	if s.renderer.Options().NoTitle {
		return
	}
	st := s.Seat(seat)
	if st == nil {
		return
	}
	b := s.Bar(st.Bar)
	if b == nil {
		return
	}
	b.Title = title
	b.redraw = true
}

func (s *Store) SetMode(seat uint32, mode string) {
	st := s.Seat(seat)
	if st == nil {
		return
	}
	st.Mode = mode
	s.redrawAll()
}
