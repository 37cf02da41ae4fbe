package font

import (
	"image"

	"github.com/mattn/go-runewidth"

	"github.com/b/sandbar/pkg/text"
)

// Cell is a face where every rune occupies whole terminal cells of W by H
// pixels. Widths follow go-runewidth; zero-width runes have no glyph.
// With Solid set, glyphs are opaque blocks so they show up in pixel output.
type Cell struct {
	W, H  int
	Solid bool

	masks map[int]*image.Alpha
}

var _ text.Face = (*Cell)(nil)

// NewCell returns a cell face with the given cell size.
func NewCell(w, h int, solid bool) *Cell {
	return &Cell{W: w, H: h, Solid: solid}
}

func (c *Cell) Glyph(r rune) (text.Glyph, bool) {
	cells := runewidth.RuneWidth(r)
	if cells == 0 {
		return text.Glyph{}, false
	}
	g := text.Glyph{Advance: cells * c.W}
	if c.Solid && r != ' ' {
		m := c.Metrics()
		g.Bounds = image.Rect(0, -m.Ascent, g.Advance, m.Descent)
		g.Mask = c.mask(g.Advance, m.Height)
	}
	return g, true
}

func (c *Cell) mask(w, h int) *image.Alpha {
	if c.masks == nil {
		c.masks = make(map[int]*image.Alpha)
	}
	if m, ok := c.masks[w]; ok {
		return m
	}
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	c.masks[w] = m
	return m
}

func (c *Cell) Kern(prev, r rune) int { return 0 }

func (c *Cell) Metrics() text.Metrics {
	descent := c.H / 4
	return text.Metrics{Ascent: c.H - descent, Descent: descent, Height: c.H}
}
