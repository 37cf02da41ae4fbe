// Package text lays out single-line strings of glyphs for the bar.
//
// Layout is one function used two ways: with a Canvas it draws glyphs and
// background fills, without one it only measures. Hit-testing relies on the
// two agreeing to the pixel, so there is no separate measuring code path.
package text

import (
	"image"
	"image/color"
)

// Metrics are the vertical font metrics in device pixels.
type Metrics struct {
	Ascent  int
	Descent int
	Height  int
}

// Glyph is a rasterized code point.
type Glyph struct {
	// Advance is the pen movement in device pixels.
	Advance int
	// Bounds is where Mask lands relative to the pen on the baseline.
	Bounds image.Rectangle
	// Mask is an alpha coverage mask, or a pre-colored bitmap when Colored
	// is set. It may be nil for blank glyphs such as spaces.
	Mask image.Image
	// Colored marks bitmaps that carry their own colors (emoji).
	Colored bool
}

// Face provides glyph metrics and bitmaps.
type Face interface {
	// Glyph returns the glyph for r, or false if the face has none.
	Glyph(r rune) (Glyph, bool)
	// Kern returns the horizontal kerning adjustment between prev and r.
	Kern(prev, r rune) int
	Metrics() Metrics
}

// Placement records one glyph placed by Layout.
type Placement struct {
	Rune    rune
	X       int
	Advance int
	FG      color.NRGBA64
	BG      color.NRGBA64
}

// Style is the state Layout starts from.
type Style struct {
	// Padding is reserved before the first and after the last glyph.
	Padding int
	FG      color.NRGBA64
	BG      color.NRGBA64
	// Inline enables ^fg()/^bg() escapes.
	Inline bool
}

// Canvas is a draw target for Layout. Glyphs and Fills must share bounds.
type Canvas struct {
	Glyphs   *image.RGBA
	Fills    *image.RGBA
	Baseline int
	// OnGlyph, if set, is called for every placed glyph.
	OnGlyph func(Placement)
}

// NewCanvas allocates a canvas of the given size.
func NewCanvas(width, height, baseline int) *Canvas {
	r := image.Rect(0, 0, width, height)
	return &Canvas{
		Glyphs:   image.NewRGBA(r),
		Fills:    image.NewRGBA(r),
		Baseline: baseline,
	}
}

// Height is the full height filled behind glyphs.
func (c *Canvas) Height() int {
	return c.Fills.Bounds().Dy()
}
