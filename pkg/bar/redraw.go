package bar

import (
	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/perf"
)

// Redraw draws each bar with a pending change
func (s *Store) Redraw() {
	for _, b := range s.bars {
		if !b.redraw {
			continue
		}
		// Clear even when skipped, Configure sets it again
		b.redraw = false
		if b.Hidden || !b.Configured || b.surface == nil {
			continue
		}
		s.draw(b)
	}
}

func (s *Store) draw(b *Bar) {
	t := perf.Start("redraw " + b.describe())
	defer t.Stop()

	// Fresh buffer each time, the previous one may still be held by river
	frame, err := b.surface.NewFrame(b.Width, b.Height)
	if err != nil {
		s.logger.Printf("redraw %s: %v", b.describe(), err)
		return
	}
	s.renderer.Compose(frame.Image(), s.View(b))
	frame.Present()
}

// SetOptions applies reloaded options and redraws everything
// (caller checks the change is allowed at runtime)
func (s *Store) SetOptions(opts *config.Options) {
	s.renderer = s.renderer.WithOptions(opts)
	if opts.NoTitle {
		for _, b := range s.bars {
			b.Title = ""
		}
	}
	// Drop tags beyond a shrunk tag count
	mask := s.tagMask()
	for _, b := range s.bars {
		b.Focused &= mask
		b.Occupied &= mask
		b.Urgent &= mask
	}
	s.redrawAll()
}
