package colors

import "image/color"

// Palette is the set of colors a bar is drawn with.
type Palette struct {
	ActiveFG   color.NRGBA64
	ActiveBG   color.NRGBA64
	InactiveFG color.NRGBA64
	InactiveBG color.NRGBA64
	UrgentFG   color.NRGBA64
	UrgentBG   color.NRGBA64
	TitleFG    color.NRGBA64
	TitleBG    color.NRGBA64
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		ActiveFG:   color.NRGBA64{R: 0xeeee, G: 0xeeee, B: 0xeeee, A: 0xffff},
		ActiveBG:   color.NRGBA64{R: 0x0000, G: 0x5555, B: 0x7777, A: 0xffff},
		InactiveFG: color.NRGBA64{R: 0xbbbb, G: 0xbbbb, B: 0xbbbb, A: 0xffff},
		InactiveBG: color.NRGBA64{R: 0x2222, G: 0x2222, B: 0x2222, A: 0xffff},
		UrgentFG:   color.NRGBA64{R: 0x2222, G: 0x2222, B: 0x2222, A: 0xffff},
		UrgentBG:   color.NRGBA64{R: 0xeeee, G: 0xeeee, B: 0xeeee, A: 0xffff},
		TitleFG:    color.NRGBA64{R: 0xeeee, G: 0xeeee, B: 0xeeee, A: 0xffff},
		TitleBG:    color.NRGBA64{R: 0x0000, G: 0x5555, B: 0x7777, A: 0xffff},
	}
}

// Pairs returns the foreground/background pairs that are drawn together,
// keyed by a short name. Used for contrast warnings.
func (p Palette) Pairs() map[string][2]color.NRGBA64 {
	return map[string][2]color.NRGBA64{
		"active":   {p.ActiveFG, p.ActiveBG},
		"inactive": {p.InactiveFG, p.InactiveBG},
		"urgent":   {p.UrgentFG, p.UrgentBG},
		"title":    {p.TitleFG, p.TitleBG},
	}
}
