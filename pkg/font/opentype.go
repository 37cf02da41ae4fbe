// Package font provides text.Face implementations: scalable OpenType faces
// located through fontconfig, and a fixed cell face for terminals.
package font

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/b/sandbar/pkg/text"
)

type cachedGlyph struct {
	g  text.Glyph
	ok bool
}

// Face is a rasterized OpenType face at a fixed size.
type Face struct {
	face    xfont.Face
	sf      *opentype.Font
	buf     sfnt.Buffer
	glyphs  map[rune]cachedGlyph
	metrics text.Metrics
}

var _ text.Face = (*Face)(nil)

// Load resolves descriptor and builds a face scaled by scale. Lookup and
// parse failures fall back to Go Mono with a warning; a descriptor that
// names a file that cannot be read is an error.
func Load(descriptor string, scale int, logger *log.Logger) (*Face, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if scale < 1 {
		scale = 1
	}
	d, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	var data []byte
	if d.IsPath() {
		data, err = os.ReadFile(expandHome(d.Pattern))
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
	} else {
		path, err := Match(context.Background(), d.Pattern)
		if err == nil {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			logger.Printf("font %q: %v, using Go Mono", descriptor, err)
			data = nil
		}
	}

	if data != nil {
		f, err := New(data, d.Points(), scale)
		if err == nil {
			return f, nil
		}
		if d.IsPath() {
			return nil, err
		}
		logger.Printf("font %q: %v, using Go Mono", descriptor, err)
	}
	return New(gomono.TTF, d.Points(), scale)
}

// New builds a face from font file contents. Collections use their first
// font.
func New(data []byte, points float64, scale int) (*Face, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		if sf, err = coll.Font(0); err != nil {
			return nil, fmt.Errorf("parse font collection: %w", err)
		}
	}
	face, err := opentype.NewFace(sf, &opentype.FaceOptions{
		Size:    points,
		DPI:     96 * float64(scale),
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	m := face.Metrics()
	return &Face{
		face:   face,
		sf:     sf,
		glyphs: make(map[rune]cachedGlyph),
		metrics: text.Metrics{
			Ascent:  m.Ascent.Ceil(),
			Descent: m.Descent.Ceil(),
			Height:  m.Height.Ceil(),
		},
	}, nil
}

func (f *Face) Glyph(r rune) (text.Glyph, bool) {
	if c, ok := f.glyphs[r]; ok {
		return c.g, c.ok
	}
	c := f.rasterize(r)
	f.glyphs[r] = c
	return c.g, c.ok
}

func (f *Face) rasterize(r rune) cachedGlyph {
	idx, err := f.sf.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return cachedGlyph{}
	}
	dr, mask, mp, adv, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return cachedGlyph{}
	}
	// Outlines only: color tables (emoji) come out as plain masks, never Colored
	g := text.Glyph{Advance: adv.Round(), Bounds: dr}
	if !dr.Empty() {
		// The face reuses its mask buffer between calls.
		a := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(a, a.Bounds(), mask, mp, draw.Src)
		g.Mask = a
	}
	return cachedGlyph{g: g, ok: true}
}

func (f *Face) Kern(prev, r rune) int {
	return f.face.Kern(prev, r).Round()
}

func (f *Face) Metrics() text.Metrics {
	return f.metrics
}

// Close releases the underlying face.
func (f *Face) Close() error {
	return f.face.Close()
}
