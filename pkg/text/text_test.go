package text

import (
	"image"
	"image/color"
	"testing"
)

// testFace gives every rune an advance of 10, except those in wide, and
// reports no glyph for runes in missing.
type testFace struct {
	wide    map[rune]int
	missing map[rune]bool
	kern    map[[2]rune]int
}

func (f testFace) Glyph(r rune) (Glyph, bool) {
	if f.missing[r] {
		return Glyph{}, false
	}
	adv := 10
	if w, ok := f.wide[r]; ok {
		adv = w
	}
	if r == ' ' {
		return Glyph{Advance: adv}, true
	}
	mask := image.NewAlpha(image.Rect(0, 0, adv, 8))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return Glyph{Advance: adv, Bounds: image.Rect(0, -8, adv, 0), Mask: mask}, true
}

func (f testFace) Kern(prev, r rune) int { return f.kern[[2]rune{prev, r}] }

func (f testFace) Metrics() Metrics { return Metrics{Ascent: 8, Descent: 2, Height: 10} }

var (
	red   = color.NRGBA64{R: 0xffff, A: 0xffff}
	blue  = color.NRGBA64{B: 0xffff, A: 0xffff}
	white = color.NRGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}
	black = color.NRGBA64{A: 0xffff}
)

func TestDecoder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []rune
	}{
		{"ascii", "abc", []rune("abc")},
		{"two byte", "é", []rune("é")},
		{"three byte", "€", []rune("€")},
		{"four byte", "😀", []rune("😀")},
		{"stray continuation", "a\x80b", []rune("ab")},
		{"truncated then ascii", "\xe2\x82a", []rune("a")},
		{"overlong", "\xc0\xafx", []rune("x")},
		{"surrogate", "\xed\xa0\x80y", []rune("y")},
		{"invalid lead", "\xffz", []rune("z")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			var got []rune
			for i := 0; i < len(tt.in); i++ {
				if r, st := d.Feed(tt.in[i]); st == Accept {
					got = append(got, r)
				}
			}
			if string(got) != string(tt.want) {
				t.Errorf("decoded %q, want %q", string(got), string(tt.want))
			}
		})
	}
}

func TestDecoderResumesAcrossChunks(t *testing.T) {
	var d Decoder
	seq := []byte("€")
	if _, st := d.Feed(seq[0]); st != More {
		t.Fatalf("first byte status = %v, want More", st)
	}
	if d.Idle() {
		t.Fatalf("decoder idle mid-sequence")
	}
	d.Feed(seq[1])
	r, st := d.Feed(seq[2])
	if st != Accept || r != '€' {
		t.Fatalf("Feed = %q, %v; want '€', Accept", r, st)
	}
	if !d.Idle() {
		t.Errorf("decoder not idle after complete sequence")
	}
}

func TestLayoutNoOps(t *testing.T) {
	f := testFace{}
	st := Style{Padding: 5}
	if got := Layout(f, "", 7, 100, st, nil); got != 7 {
		t.Errorf("empty text = %d, want 7", got)
	}
	if got := Layout(f, "abc", 7, 0, st, nil); got != 7 {
		t.Errorf("maxX 0 = %d, want 7", got)
	}
	if got := Layout(f, "abc", 0, 10, st, nil); got != 0 {
		t.Errorf("no room for padding = %d, want 0", got)
	}
	if got := Layout(f, "abc", 0, 19, st, nil); got != 0 {
		t.Errorf("room for padding only = %d, want 0", got)
	}
}

func TestLayoutMeasure(t *testing.T) {
	f := testFace{}
	tests := []struct {
		name string
		text string
		x    int
		maxX int
		pad  int
		want int
	}{
		{"fits", "abc", 0, 100, 5, 40},
		{"offset", "abc", 20, 100, 5, 60},
		{"exact fit", "abc", 0, 40, 5, 40},
		{"truncated", "abcdef", 0, 40, 5, 40},
		{"one glyph", "abc", 0, 25, 5, 20},
		{"nothing fits", "abc", 0, 19, 5, 0},
		{"no padding", "ab", 3, 100, 0, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layout(f, tt.text, tt.x, tt.maxX, Style{Padding: tt.pad}, nil)
			if got != tt.want {
				t.Errorf("Layout(%q, %d, %d) = %d, want %d", tt.text, tt.x, tt.maxX, got, tt.want)
			}
			if got > tt.maxX {
				t.Errorf("end %d exceeds maxX %d", got, tt.maxX)
			}
			if again := Layout(f, tt.text, tt.x, tt.maxX, Style{Padding: tt.pad}, nil); again != got {
				t.Errorf("second measure = %d, first = %d", again, got)
			}
		})
	}
}

func TestLayoutNeverExceedsMax(t *testing.T) {
	f := testFace{wide: map[rune]int{'W': 17, 'i': 3}}
	for maxX := 0; maxX < 120; maxX++ {
		got := Layout(f, "WiWiiW ok", 4, maxX, Style{Padding: 3}, nil)
		if got > maxX && got != 4 {
			t.Fatalf("maxX %d: end %d", maxX, got)
		}
	}
}

func TestLayoutKerning(t *testing.T) {
	f := testFace{kern: map[[2]rune]int{{'A', 'V'}: -3}}
	if got := Layout(f, "AV", 0, 100, Style{}, nil); got != 17 {
		t.Errorf("kerned width = %d, want 17", got)
	}
	// Kerning pairs with the previous placed rune, skipping missing ones.
	f.missing = map[rune]bool{'x': true}
	if got := Layout(f, "AxV", 0, 100, Style{}, nil); got != 17 {
		t.Errorf("kerned width across missing glyph = %d, want 17", got)
	}
}

func TestLayoutAllMissing(t *testing.T) {
	f := testFace{missing: map[rune]bool{'a': true}}
	c := NewCanvas(50, 10, 8)
	if got := Layout(f, "aaa", 3, 50, Style{Padding: 2, BG: red}, c); got != 3 {
		t.Fatalf("Layout = %d, want 3", got)
	}
	for i, v := range c.Fills.Pix {
		if v != 0 {
			t.Fatalf("fill layer touched at byte %d", i)
		}
	}
}

func TestLayoutDrawMatchesMeasure(t *testing.T) {
	f := testFace{wide: map[rune]int{'m': 14}}
	st := Style{Padding: 4, FG: white, BG: blue, Inline: true}
	for _, s := range []string{"hello", "m^fg(#ff0000)m", "^bg(#ff0000)alert^bg()", "a^^b", "x^oops"} {
		c := NewCanvas(200, 10, 8)
		drawn := Layout(f, s, 6, 200, st, c)
		measured := Layout(f, s, 6, 200, st, nil)
		if drawn != measured {
			t.Errorf("%q: drawn end %d, measured end %d", s, drawn, measured)
		}
	}
}

func TestLayoutEscapes(t *testing.T) {
	f := testFace{}
	st := Style{Padding: 0, FG: white, BG: black, Inline: true}
	tests := []struct {
		name  string
		text  string
		runes string
	}{
		{"literal caret", "a^^b", "a^b"},
		{"fg command", "^fg(#ff0000)ab", "ab"},
		{"reset", "a^fg()b", "ab"},
		{"invalid color ignored", "a^fg(nope)b", "ab"},
		{"unknown command consumed", "a^zz(1)b", "ab"},
		{"missing open paren", "a^fgb", "a^fgb"},
		{"missing close paren", "a^fg(#fff", "a^fg(#fff"},
		{"trailing caret", "ab^", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(400, 10, 8)
			var got []rune
			c.OnGlyph = func(p Placement) { got = append(got, p.Rune) }
			Layout(f, tt.text, 0, 400, st, c)
			if string(got) != tt.runes {
				t.Errorf("placed %q, want %q", string(got), tt.runes)
			}
		})
	}
}

func TestLayoutEscapesDisabled(t *testing.T) {
	f := testFace{}
	c := NewCanvas(400, 10, 8)
	var got []rune
	c.OnGlyph = func(p Placement) { got = append(got, p.Rune) }
	Layout(f, "^fg(#fff)a^^", 0, 400, Style{}, c)
	if string(got) != "^fg(#fff)a^^" {
		t.Errorf("placed %q", string(got))
	}
}

func TestLayoutBackgroundEscape(t *testing.T) {
	f := testFace{}
	st := Style{Padding: 2, FG: white, BG: blue, Inline: true}
	c := NewCanvas(200, 10, 8)
	var placed []Placement
	c.OnGlyph = func(p Placement) { placed = append(placed, p) }

	end := Layout(f, "^bg(#ff0000)alert^bg()ok", 0, 200, st, c)
	if end != 2+70+2 {
		t.Fatalf("end = %d, want 74", end)
	}
	for _, p := range placed {
		want := blue
		if p.X < 52 {
			want = red
		}
		if p.BG != want {
			t.Errorf("%q at %d: bg %v, want %v", p.Rune, p.X, p.BG, want)
		}
	}

	tests := []struct {
		x    int
		want color.Color
	}{
		{0, blue},  // leading padding
		{2, red},   // "a"
		{51, red},  // "t"
		{52, blue}, // "o"
		{73, blue}, // trailing padding
	}
	for _, tt := range tests {
		got := c.Fills.RGBAAt(tt.x, 5)
		if !sameColor(got, tt.want) {
			t.Errorf("fill at x=%d = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := c.Fills.RGBAAt(end, 5); got.A != 0 {
		t.Errorf("fill past end = %v, want transparent", got)
	}
}

func TestLayoutForeground(t *testing.T) {
	f := testFace{}
	c := NewCanvas(100, 10, 9)
	Layout(f, "a^fg(#ff0000)b", 0, 100, Style{FG: white, BG: black, Inline: true}, c)
	if got := c.Glyphs.RGBAAt(5, 4); !sameColor(got, white) {
		t.Errorf("first glyph = %v, want white", got)
	}
	if got := c.Glyphs.RGBAAt(15, 4); !sameColor(got, red) {
		t.Errorf("second glyph = %v, want red", got)
	}
	if got := c.Glyphs.RGBAAt(15, 9); got.A != 0 {
		t.Errorf("below baseline = %v, want transparent", got)
	}
}

func TestLayoutColoredGlyph(t *testing.T) {
	emoji := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(emoji.Pix); i += 4 {
		emoji.Pix[i+1] = 0xff // green
		emoji.Pix[i+3] = 0xff
	}
	f := colorFace{img: emoji}
	c := NewCanvas(20, 8, 6)
	Layout(f, "x", 0, 20, Style{FG: white}, c)
	if got := c.Glyphs.RGBAAt(1, 3); got.G != 0xff || got.R != 0 || got.B != 0 {
		t.Errorf("colored glyph pixel = %v, want opaque green", got)
	}
}

type colorFace struct{ img *image.RGBA }

func (f colorFace) Glyph(rune) (Glyph, bool) {
	return Glyph{Advance: 5, Bounds: image.Rect(0, -4, 4, 0), Mask: f.img, Colored: true}, true
}
func (colorFace) Kern(rune, rune) int { return 0 }
func (colorFace) Metrics() Metrics    { return Metrics{Ascent: 6, Descent: 2, Height: 8} }

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1>>8 == r2>>8 && g1>>8 == g2>>8 && b1>>8 == b2>>8 && a1>>8 == a2>>8
}
