package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for strings that are not #RRGGBB or #RRGGBBAA.
var ErrInvalidColor = errors.New("invalid color")

// Parse accepts an optional leading '#' followed by exactly 6 or 8 hex
// digits. Six digits are opaque RGB, eight are RGBA with alpha last. Each
// 8-bit channel is widened to 16 bits by multiplying by 0x101.
func Parse(s string) (color.NRGBA64, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA64{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	// ParseUint would accept neither a sign nor "0x", but reject them
	// explicitly so the error names the real problem.
	if !isHexDigit(hex[0]) || !isHexDigit(hex[1]) {
		return color.NRGBA64{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA64{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	parsed := uint32(v)

	c := color.NRGBA64{A: 0xffff}
	if len(hex) == 8 {
		c.A = uint16(parsed&0xff) * 0x101
		parsed >>= 8
	}
	c.R = uint16((parsed>>16)&0xff) * 0x101
	c.G = uint16((parsed>>8)&0xff) * 0x101
	c.B = uint16(parsed&0xff) * 0x101
	return c, nil
}

// MustParse is Parse for compile-time constants.
func MustParse(s string) color.NRGBA64 {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func Hex(c color.NRGBA64) string {
	if c.A == 0xffff {
		return fmt.Sprintf("#%02x%02x%02x", c.R>>8, c.G>>8, c.B>>8)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R>>8, c.G>>8, c.B>>8, c.A>>8)
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
