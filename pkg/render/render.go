// Package render draws bar frames and maps pointer positions back to the
// regions of a frame.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/text"
)

// View is everything a frame shows. Sizes are in device pixels.
type View struct {
	Width, Height int
	Focused       uint32
	Occupied      uint32
	Urgent        uint32
	// Selected is set when some seat has this bar's output focused.
	Selected bool
	Layout   string
	Title    string
	Status   string
	// Modes holds one entry per seat, in seat order.
	Modes []string
}

// GlyphRecorder is implemented by draw targets that want to know where
// each glyph was placed.
type GlyphRecorder interface {
	RecordGlyph(text.Placement)
}

// Compositor is implemented by draw targets with a fast path for
// compositing a premultiplied layer with the Over operator.
type Compositor interface {
	Over(src *image.RGBA)
}

// Renderer draws frames for one set of options and one face.
type Renderer struct {
	opts    *config.Options
	face    text.Face
	padding int
}

func New(opts *config.Options, face text.Face) *Renderer {
	return &Renderer{opts: opts, face: face, padding: face.Metrics().Height / 2}
}

// WithOptions returns a renderer sharing r's face.
func (r *Renderer) WithOptions(opts *config.Options) *Renderer {
	return &Renderer{opts: opts, face: r.face, padding: r.padding}
}

func (r *Renderer) Options() *config.Options { return r.opts }

func (r *Renderer) Face() text.Face { return r.face }

// Padding is the horizontal padding around each text element.
func (r *Renderer) Padding() int { return r.padding }

// BarHeight is the bar height in logical pixels.
func (r *Renderer) BarHeight() int {
	return r.face.Metrics().Height/r.opts.Scale + 2*r.opts.VerticalPadding
}

// Baseline is the text baseline for a bar of the given device height.
func (r *Renderer) Baseline(height int) int {
	m := r.face.Metrics()
	return (height + m.Ascent - m.Descent) / 2
}

// Compose draws v onto dst, which must cover v.Width by v.Height.
func (r *Renderer) Compose(dst draw.Image, v View) {
	c := text.NewCanvas(v.Width, v.Height, r.Baseline(v.Height))
	if rec, ok := dst.(GlyphRecorder); ok {
		c.OnGlyph = rec.RecordGlyph
	}
	r.walk(v, c)

	if comp, ok := dst.(Compositor); ok {
		comp.Over(c.Fills)
		comp.Over(c.Glyphs)
		return
	}
	b := c.Fills.Bounds()
	draw.Draw(dst, b, c.Fills, image.Point{}, draw.Over)
	draw.Draw(dst, b, c.Glyphs, image.Point{}, draw.Over)
}

// walk lays out every element of v from left to right and returns the
// regions it produced. With a nil canvas nothing is drawn.
func (r *Renderer) walk(v View, c *text.Canvas) []Region {
	o := r.opts
	pal := o.Palette
	regions := make([]Region, 0, len(o.Tags)+len(v.Modes)+3)
	layout := func(s string, x, maxX int, fg, bg color.NRGBA64, inline bool, canvas *text.Canvas) int {
		return text.Layout(r.face, s, x, maxX, text.Style{Padding: r.padding, FG: fg, BG: bg, Inline: inline}, canvas)
	}

	x := 0
	h := r.face.Metrics().Height
	boxs, boxw := h/9, h/6+2
	for i, label := range o.Tags {
		bit := uint32(1) << i
		active := v.Focused&bit != 0
		occupied := v.Occupied&bit != 0
		urgent := v.Urgent&bit != 0
		if o.HideVacant && !active && !occupied && !urgent {
			continue
		}

		fg, bg := pal.InactiveFG, pal.InactiveBG
		switch {
		case urgent:
			fg, bg = pal.UrgentFG, pal.UrgentBG
		case active:
			fg, bg = pal.ActiveFG, pal.ActiveBG
		}

		if c != nil && !o.HideVacant && occupied {
			box := image.Rect(x+boxs, boxs, x+boxs+boxw, boxs+boxw)
			draw.Draw(c.Glyphs, box, image.NewUniform(fg), image.Point{}, draw.Src)
			if (!v.Selected || !active) && boxw >= 3 {
				draw.Draw(c.Glyphs, box.Inset(1), image.Transparent, image.Point{}, draw.Src)
			}
		}

		end := layout(label, x, v.Width, fg, bg, false, c)
		regions = append(regions, Region{Kind: Tag, Index: i, Start: x, End: end})
		x = end
	}

	if !o.NoMode {
		for i, mode := range v.Modes {
			end := layout(mode, x, v.Width, pal.InactiveFG, pal.InactiveBG, false, c)
			regions = append(regions, Region{Kind: Mode, Index: i, Start: x, End: end})
			x = end
		}
	}

	if !o.NoLayout && v.Focused&v.Occupied != 0 {
		end := layout(v.Layout, x, v.Width, pal.InactiveFG, pal.InactiveBG, false, c)
		regions = append(regions, Region{Kind: Layout, Start: x, End: end})
		x = end
	}

	inline := !o.NoStatusCommands
	statusWidth := layout(v.Status, 0, v.Width-x, pal.InactiveFG, pal.InactiveBG, inline, nil)
	statusX := v.Width - statusWidth
	if c != nil {
		layout(v.Status, statusX, v.Width, pal.InactiveFG, pal.InactiveBG, inline, c)
	}

	titleX := x
	if !o.NoTitle {
		fg, bg := pal.InactiveFG, pal.InactiveBG
		if v.Selected {
			fg, bg = pal.TitleFG, pal.TitleBG
		}
		x = layout(v.Title, x, statusX, fg, bg, false, c)
	}
	if c != nil && x < statusX {
		gap := image.Rect(x, 0, statusX, c.Height())
		draw.Draw(c.Fills, gap, image.NewUniform(pal.TitleBG), image.Point{}, draw.Src)
	}

	if titleX < statusX {
		regions = append(regions, Region{Kind: Title, Start: titleX, End: statusX})
	}
	if statusWidth > 0 {
		regions = append(regions, Region{Kind: Status, Start: statusX, End: v.Width})
	}
	return regions
}
