package colors

import (
	"image/color"
	"math"
)

// Luminance calculates the relative luminance of a color per the WCAG formula.
// Returns a value between 0 (black) and 1 (white). Alpha is ignored.
func Luminance(c color.NRGBA64) float64 {
	rs := gammaSRGB(float64(c.R) / 0xffff)
	gs := gammaSRGB(float64(c.G) / 0xffff)
	bs := gammaSRGB(float64(c.B) / 0xffff)
	return 0.2126*rs + 0.7152*gs + 0.0722*bs
}

// gammaSRGB applies sRGB gamma correction
func gammaSRGB(val float64) float64 {
	if val <= 0.03928 {
		return val / 12.92
	}
	return math.Pow((val+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the WCAG contrast ratio between two colors.
// Returns a value between 1 (no contrast) and 21 (maximum contrast)
func ContrastRatio(fg, bg color.NRGBA64) float64 {
	l1 := Luminance(fg)
	l2 := Luminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
