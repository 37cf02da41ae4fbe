package text

import (
	"image/color"
	"strings"

	"github.com/b/sandbar/pkg/colors"
)

// escape is an inline command of the form name(arg).
type escape struct {
	name string
	arg  string
	// end is the index of the closing parenthesis.
	end int
}

// parseEscape parses the command that starts at s[i], the byte after a
// caret. It fails if either parenthesis is missing.
func parseEscape(s string, i int) (escape, bool) {
	open := strings.IndexByte(s[i:], '(')
	if open < 0 {
		return escape{}, false
	}
	open += i
	end := strings.IndexByte(s[open+1:], ')')
	if end < 0 {
		return escape{}, false
	}
	end += open + 1
	return escape{name: s[i:open], arg: s[open+1 : end], end: end}, true
}

// pen is the color state while laying out a string.
type pen struct {
	fg, bg color.NRGBA64
}

// apply updates p for e. An empty argument restores the default from st,
// an unparsable one leaves the color alone, and unknown names do nothing.
func (p *pen) apply(e escape, st Style) {
	var cur *color.NRGBA64
	var def color.NRGBA64
	switch e.name {
	case "fg":
		cur, def = &p.fg, st.FG
	case "bg":
		cur, def = &p.bg, st.BG
	default:
		return
	}
	if e.arg == "" {
		*cur = def
		return
	}
	if c, err := colors.Parse(e.arg); err == nil {
		*cur = c
	}
}
