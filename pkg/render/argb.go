package render

import (
	"image"
	"image/color"
)

// ARGB is a premultiplied 32-bit image in the byte order of the
// little-endian ARGB8888 shm format: B, G, R, A.
type ARGB struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

var _ Compositor = (*ARGB)(nil)

// NewARGB wraps pix, which must hold w*h*4 bytes.
func NewARGB(pix []byte, w, h int) *ARGB {
	return &ARGB{Pix: pix[:w*h*4], Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
}

func (p *ARGB) ColorModel() color.Model { return color.RGBAModel }

func (p *ARGB) Bounds() image.Rectangle { return p.Rect }

func (p *ARGB) offset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *ARGB) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *ARGB) RGBAAt(x, y int) color.RGBA {
	if !image.Pt(x, y).In(p.Rect) {
		return color.RGBA{}
	}
	i := p.offset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return color.RGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
}

func (p *ARGB) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(p.Rect) {
		return
	}
	i := p.offset(x, y)
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c1.B, c1.G, c1.R, c1.A
}

// Over composites src onto p where their bounds overlap.
func (p *ARGB) Over(src *image.RGBA) {
	r := p.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := p.offset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, si, di = x+1, si+4, di+4 {
			sa := uint32(src.Pix[si+3])
			if sa == 0 {
				continue
			}
			s := src.Pix[si : si+4 : si+4]
			d := p.Pix[di : di+4 : di+4]
			if sa == 0xff {
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0xff
				continue
			}
			k := 0xff - sa
			d[0] = s[2] + uint8((uint32(d[0])*k+0x7f)/0xff)
			d[1] = s[1] + uint8((uint32(d[1])*k+0x7f)/0xff)
			d[2] = s[0] + uint8((uint32(d[2])*k+0x7f)/0xff)
			d[3] = uint8(sa) + uint8((uint32(d[3])*k+0x7f)/0xff)
		}
	}
}
