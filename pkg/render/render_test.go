package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/b/sandbar/pkg/colors"
	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/font"
	"github.com/b/sandbar/pkg/text"
)

// recorder is an RGBA target that keeps glyph placements.
type recorder struct {
	*image.RGBA
	placed []text.Placement
}

func (r *recorder) RecordGlyph(p text.Placement) { r.placed = append(r.placed, p) }

func newRecorder(w, h int) *recorder {
	return &recorder{RGBA: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// testRenderer uses 8x16 solid cells: padding 8, a one-character label
// takes 24 pixels.
func testRenderer(modify func(*config.Options)) *Renderer {
	o := *config.DefaultOptions()
	if modify != nil {
		modify(&o)
	}
	return New(&o, font.NewCell(8, 16, true))
}

func rgba(c color.NRGBA64) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestRegionsDefault(t *testing.T) {
	r := testRenderer(nil)
	regs := r.Regions(View{Width: 400, Height: 18})
	if len(regs) != 10 {
		t.Fatalf("got %d regions, want 9 tags and a title: %+v", len(regs), regs)
	}
	for i := 0; i < 9; i++ {
		want := Region{Kind: Tag, Index: i, Start: 24 * i, End: 24*i + 24}
		if regs[i] != want {
			t.Errorf("region %d = %+v, want %+v", i, regs[i], want)
		}
	}
	if want := (Region{Kind: Title, Start: 216, End: 400}); regs[9] != want {
		t.Errorf("title region = %+v, want %+v", regs[9], want)
	}
}

func TestHitTest(t *testing.T) {
	r := testRenderer(nil)
	v := View{Width: 400, Height: 18, Focused: 1, Occupied: 3, Layout: "[]=", Modes: []string{"normal"}, Status: "hi"}
	tests := []struct {
		x    int
		kind RegionKind
		idx  int
	}{
		{0, Tag, 0},
		{23, Tag, 0},
		{30, Tag, 1},
		{215, Tag, 8},
		{216, Mode, 0},  // "normal" is 6 cells plus padding: 64
		{279, Mode, 0},
		{280, Layout, 0}, // "[]=" is 40 wide
		{320, Title, 0},
		{367, Title, 0},
		{368, Status, 0},
		{399, Status, 0},
		{400, None, 0},
		{-1, None, 0},
	}
	for _, tt := range tests {
		got := r.HitTest(v, tt.x)
		if got.Kind != tt.kind || got.Index != tt.idx {
			t.Errorf("HitTest(%d) = %v/%d, want %v/%d", tt.x, got.Kind, got.Index, tt.kind, tt.idx)
		}
	}
}

func TestHitTestHideVacant(t *testing.T) {
	r := testRenderer(func(o *config.Options) { o.HideVacant = true })
	v := View{Width: 400, Height: 18, Focused: 1 << 2, Urgent: 1 << 6}
	regs := r.Regions(v)
	if regs[0].Index != 2 || regs[1].Index != 6 || regs[2].Kind != Title {
		t.Fatalf("regions = %+v", regs)
	}
	if got := r.HitTest(v, 30); got.Kind != Tag || got.Index != 6 {
		t.Errorf("HitTest(30) = %+v, want tag 6", got)
	}
}

func TestRegionsRespectToggles(t *testing.T) {
	r := testRenderer(func(o *config.Options) { o.NoMode = true; o.NoLayout = true })
	v := View{Width: 400, Height: 18, Focused: 1, Occupied: 1, Layout: "tile", Modes: []string{"normal"}}
	for _, reg := range r.Regions(v) {
		if reg.Kind == Mode || reg.Kind == Layout {
			t.Errorf("unexpected %v region %+v", reg.Kind, reg)
		}
	}
}

func TestLayoutOnlyWithFocusedOccupied(t *testing.T) {
	r := testRenderer(nil)
	v := View{Width: 400, Height: 18, Focused: 1, Occupied: 2, Layout: "tile"}
	for _, reg := range r.Regions(v) {
		if reg.Kind == Layout {
			t.Fatalf("layout shown without a focused occupied tag")
		}
	}
}

func TestComposeMatchesRegions(t *testing.T) {
	r := testRenderer(func(o *config.Options) { o.Tags = []string{"a", "b"} })
	v := View{
		Width: 400, Height: 18, Focused: 1, Occupied: 1, Selected: true,
		Layout: "L", Title: "TT", Status: "S^fg(#ff0000)S", Modes: []string{"m", "n"},
	}
	dst := newRecorder(v.Width, v.Height)
	r.Compose(dst, v)

	want := map[rune]struct {
		kind RegionKind
		idx  int
	}{
		'a': {Tag, 0}, 'b': {Tag, 1}, 'm': {Mode, 0}, 'n': {Mode, 1},
		'L': {Layout, 0}, 'T': {Title, 0}, 'S': {Status, 0},
	}
	if len(dst.placed) != 9 {
		t.Fatalf("placed %d glyphs, want 9", len(dst.placed))
	}
	for _, p := range dst.placed {
		for _, x := range []int{p.X, p.X + p.Advance - 1} {
			got := r.HitTest(v, x)
			w := want[p.Rune]
			if got.Kind != w.kind || got.Index != w.idx {
				t.Errorf("%q at %d hit %v/%d, want %v/%d", p.Rune, x, got.Kind, got.Index, w.kind, w.idx)
			}
		}
	}
}

func TestTitleTruncatedBeforeStatus(t *testing.T) {
	r := testRenderer(func(o *config.Options) { o.Tags = []string{"a", "b"} })
	v := View{Width: 200, Height: 18, Title: strings.Repeat("T", 100), Status: "SS"}
	dst := newRecorder(v.Width, v.Height)
	r.Compose(dst, v)

	statusX := 200 - 32
	titles := 0
	for _, p := range dst.placed {
		switch p.Rune {
		case 'T':
			titles++
			if p.X+p.Advance+r.Padding() > statusX {
				t.Errorf("title glyph at %d runs into status at %d", p.X, statusX)
			}
		case 'S':
			if p.X < statusX {
				t.Errorf("status glyph at %d, want >= %d", p.X, statusX)
			}
		}
	}
	if titles != (statusX-48-16)/8 {
		t.Errorf("placed %d title glyphs", titles)
	}
}

func TestComposeTagIndicators(t *testing.T) {
	pal := colors.DefaultPalette()
	tests := []struct {
		name     string
		selected bool
		x, y     int
		want     color.NRGBA64
	}{
		// Tag 1 is focused and occupied: filled box on a selected bar.
		{"focused selected edge", true, 1, 1, pal.ActiveFG},
		{"focused selected inside", true, 2, 2, pal.ActiveFG},
		{"focused unselected inside", false, 2, 2, pal.ActiveBG},
		// Tag 2 is occupied only: always hollow.
		{"occupied edge", true, 25, 1, pal.InactiveFG},
		{"occupied inside", true, 26, 2, pal.InactiveBG},
		// Tag 3 is vacant: no box.
		{"vacant", true, 49, 1, pal.InactiveBG},
	}
	r := testRenderer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := image.NewRGBA(image.Rect(0, 0, 400, 18))
			r.Compose(dst, View{Width: 400, Height: 18, Focused: 1, Occupied: 3, Selected: tt.selected})
			if got := dst.RGBAAt(tt.x, tt.y); got != rgba(tt.want) {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, rgba(tt.want))
			}
		})
	}
}

func TestComposeNoIndicatorsWhenHidingVacant(t *testing.T) {
	pal := colors.DefaultPalette()
	r := testRenderer(func(o *config.Options) { o.HideVacant = true })
	dst := image.NewRGBA(image.Rect(0, 0, 400, 18))
	r.Compose(dst, View{Width: 400, Height: 18, Occupied: 1})
	if got := dst.RGBAAt(1, 1); got != rgba(pal.InactiveBG) {
		t.Errorf("pixel (1,1) = %v, want inactive background", got)
	}
}

func TestComposeColors(t *testing.T) {
	pal := colors.DefaultPalette()
	red := colors.MustParse("#ff0000")
	r := testRenderer(nil)
	v := View{Width: 400, Height: 18, Urgent: 1 << 1, Status: "^bg(#ff0000)x", Title: "t"}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA64
	}{
		{"urgent tag background", 24, 0, pal.UrgentBG},
		{"urgent tag text", 32, 5, pal.UrgentFG},
		{"unselected title text", 224, 5, pal.InactiveFG},
		{"unselected title padding", 216, 0, pal.InactiveBG},
		{"gap uses title background", 300, 0, pal.TitleBG},
		{"status padding", 380, 0, pal.InactiveBG},
		{"status escape background", 386, 0, red},
		{"status text", 386, 5, pal.InactiveFG},
	}
	dst := image.NewRGBA(image.Rect(0, 0, 400, 18))
	r.Compose(dst, v)
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, tt.y); got != rgba(tt.want) {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, rgba(tt.want))
		}
	}
}

func TestComposeSelectedTitle(t *testing.T) {
	pal := colors.DefaultPalette()
	r := testRenderer(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 400, 18))
	r.Compose(dst, View{Width: 400, Height: 18, Title: "t", Selected: true})
	if got := dst.RGBAAt(224, 5); got != rgba(pal.TitleFG) {
		t.Errorf("title text = %v, want title fg", got)
	}
	if got := dst.RGBAAt(216, 0); got != rgba(pal.TitleBG) {
		t.Errorf("title padding = %v, want title bg", got)
	}
}

func TestComposeNarrowBar(t *testing.T) {
	r := testRenderer(nil)
	v := View{Width: 50, Height: 18, Title: "title", Status: "status"}
	regs := r.Regions(v)
	for _, reg := range regs {
		if reg.End > v.Width {
			t.Errorf("region %+v past bar width", reg)
		}
	}
	dst := newRecorder(v.Width, v.Height)
	r.Compose(dst, v)
	for _, p := range dst.placed {
		if p.X+p.Advance > v.Width {
			t.Errorf("glyph %q at %d past bar width", p.Rune, p.X)
		}
	}
}

func TestBarHeight(t *testing.T) {
	r := testRenderer(func(o *config.Options) { o.VerticalPadding = 3 })
	if got := r.BarHeight(); got != 22 {
		t.Errorf("BarHeight = %d, want 22", got)
	}
	r = testRenderer(func(o *config.Options) { o.Scale = 2; o.VerticalPadding = 0 })
	if got := r.BarHeight(); got != 8 {
		t.Errorf("BarHeight at scale 2 = %d, want 8", got)
	}
	if got := r.Baseline(18); got != 13 {
		t.Errorf("Baseline(18) = %d, want 13", got)
	}
}

func TestARGBByteOrder(t *testing.T) {
	pix := make([]byte, 2*1*4)
	img := NewARGB(pix, 2, 1)
	img.Set(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	if got := pix[4:8]; got[0] != 3 || got[1] != 2 || got[2] != 1 || got[3] != 4 {
		t.Errorf("bytes = %v, want [3 2 1 4]", got)
	}
	if got := img.At(1, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("At = %v", got)
	}
	img.Set(5, 5, color.White)
	if got := img.At(-1, 0); got != (color.RGBA{}) {
		t.Errorf("At outside = %v", got)
	}
}

func TestARGBOver(t *testing.T) {
	img := NewARGB(make([]byte, 4), 1, 1)
	img.Set(0, 0, color.RGBA{B: 0xff, A: 0xff})
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0x80, A: 0x80})
	img.Over(src)
	got := img.RGBAAt(0, 0)
	if got.R != 0x80 || got.A != 0xff || got.B < 0x7e || got.B > 0x80 {
		t.Errorf("Over = %v", got)
	}
}

func TestComposeARGBMatchesRGBA(t *testing.T) {
	r := testRenderer(nil)
	v := View{Width: 300, Height: 18, Focused: 1, Occupied: 5, Urgent: 8, Title: "hello", Status: "^fg(#00ff0080)ok", Selected: true}
	want := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	r.Compose(want, v)
	got := NewARGB(make([]byte, v.Width*v.Height*4), v.Width, v.Height)
	r.Compose(got, v)
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			a, b := want.RGBAAt(x, y), got.RGBAAt(x, y)
			if diff(a.R, b.R) > 1 || diff(a.G, b.G) > 1 || diff(a.B, b.B) > 1 || diff(a.A, b.A) > 1 {
				t.Fatalf("pixel (%d,%d): rgba %v, argb %v", x, y, a, b)
			}
		}
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
