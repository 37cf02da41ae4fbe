package colors

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want color.NRGBA64
	}{
		{"rgb with hash", "#ff0000", color.NRGBA64{R: 0xffff, A: 0xffff}},
		{"rgb without hash", "005577", color.NRGBA64{G: 0x5555, B: 0x7777, A: 0xffff}},
		{"rgba alpha last", "#11223344", color.NRGBA64{R: 0x1111, G: 0x2222, B: 0x3333, A: 0x4444}},
		{"uppercase", "#ABCDEF", color.NRGBA64{R: 0xabab, G: 0xcdcd, B: 0xefef, A: 0xffff}},
		{"transparent", "#00000000", color.NRGBA64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"", "#", "#fff", "#fffff", "#fffffff", "#fffffffff",
		"0x1234", "0x123456", "#-12345", "+123456", "#12345g", "#1234567z", "##123456",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); !errors.Is(err, ErrInvalidColor) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidColor", in, err)
			}
		})
	}
}

func TestParseSixDigitsOpaque(t *testing.T) {
	for _, in := range []string{"#000000", "#7f7f7f", "#ffffff", "#123abc"} {
		c, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if c.A != 0xffff {
			t.Errorf("Parse(%q).A = %#x, want 0xffff", in, c.A)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for v := 0; v < 256; v += 17 {
		c := color.NRGBA64{
			R: uint16(v) * 0x101,
			G: uint16(255-v) * 0x101,
			B: uint16(v/2) * 0x101,
			A: uint16(v) * 0x101,
		}
		got, err := Parse(Hex(c))
		if err != nil {
			t.Fatalf("Parse(Hex(%v)) error: %v", c, err)
		}
		if got != c {
			t.Errorf("Parse(Hex(%v)) = %v (via %q)", c, got, Hex(c))
		}
	}
}

func TestHexOmitsOpaqueAlpha(t *testing.T) {
	if got := Hex(MustParse("#005577")); got != "#005577" {
		t.Errorf("Hex = %q, want #005577", got)
	}
	if got := Hex(MustParse("#00557780")); got != "#00557780" {
		t.Errorf("Hex = %q, want #00557780", got)
	}
}

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name  string
		fg    string
		bg    string
		want  float64
		delta float64
	}{
		{"black on white", "#000000", "#ffffff", 21.0, 0.1},
		{"white on black", "#ffffff", "#000000", 21.0, 0.1},
		{"same color", "#808080", "#808080", 1.0, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastRatio(MustParse(tt.fg), MustParse(tt.bg))
			if math.Abs(got-tt.want) > tt.delta {
				t.Errorf("ContrastRatio(%q, %q) = %v, want %v", tt.fg, tt.bg, got, tt.want)
			}
		})
	}
}
