package text

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Layout places s starting at pen position x without passing maxX.
// Padding from st is reserved on both sides of the glyphs. When c is nil
// nothing is drawn and the result is only a measurement.
//
// It returns the pen position after the trailing padding, or x unchanged
// when no glyph could be placed.
func Layout(face Face, s string, x, maxX int, st Style, c *Canvas) int {
	if s == "" || maxX == 0 {
		return x
	}
	start := x
	if x+2*st.Padding >= maxX {
		return x
	}
	x += st.Padding

	p := pen{fg: st.FG, bg: st.BG}
	inline := st.Inline
	var dec Decoder
	var last rune
	placed := false

	for i := 0; i < len(s); i++ {
		b := s[i]
		if inline && b == '^' && dec.Idle() {
			if i+1 >= len(s) {
				break
			}
			if s[i+1] != '^' {
				e, ok := parseEscape(s, i+1)
				if ok {
					p.apply(e, st)
					i = e.end
					continue
				}
				// Without a complete command nothing later can be one,
				// so the caret and the rest are plain text.
				inline = false
			} else {
				i++
			}
		}

		r, status := dec.Feed(b)
		if status != Accept {
			continue
		}
		g, ok := face.Glyph(r)
		if !ok {
			continue
		}

		kern := 0
		if placed {
			kern = face.Kern(last, r)
		}
		next := x + kern + g.Advance
		if next+st.Padding > maxX {
			break
		}
		last = r
		placed = true
		x += kern

		if c != nil {
			c.drawGlyph(g, x, p.fg)
			c.fill(x, next, p.bg)
			if c.OnGlyph != nil {
				c.OnGlyph(Placement{Rune: r, X: x, Advance: next - x, FG: p.fg, BG: p.bg})
			}
		}
		x = next
	}

	if !placed {
		return start
	}
	end := x + st.Padding
	if c != nil {
		c.fill(start, start+st.Padding, st.BG)
		c.fill(x, end, st.BG)
	}
	return end
}

// drawGlyph composites g with its origin at pen position x on the baseline.
func (c *Canvas) drawGlyph(g Glyph, x int, fg color.NRGBA64) {
	if g.Mask == nil || g.Bounds.Empty() {
		return
	}
	r := g.Bounds.Add(image.Pt(x, c.Baseline))
	mp := g.Mask.Bounds().Min
	fill := image.NewUniform(fg)
	if g.Colored {
		// Pre-rendered bitmaps are the source; the fill only contributes
		// its alpha so the glyph keeps its own colors.
		draw.DrawMask(c.Glyphs, r, g.Mask, mp, fill, image.Point{}, draw.Over)
		return
	}
	draw.DrawMask(c.Glyphs, r, fill, image.Point{}, g.Mask, mp, draw.Over)
}

// fill paints [x0, x1) over the full height of the fill layer.
func (c *Canvas) fill(x0, x1 int, bg color.NRGBA64) {
	if x1 <= x0 {
		return
	}
	r := image.Rect(x0, 0, x1, c.Height())
	draw.Draw(c.Fills, r, image.NewUniform(bg), image.Point{}, draw.Over)
}
