package text

import "unicode/utf8"

// Status is the result of feeding one byte to a Decoder.
type Status int

const (
	// Accept means a complete code point was decoded.
	Accept Status = iota
	// More means the byte was consumed and more are needed.
	More
	// Reject means the input so far is not valid UTF-8.
	Reject
)

// Decoder is an incremental UTF-8 decoder. The zero value is ready to use.
// It keeps its state between calls, so a sequence may be split across
// chunks.
type Decoder struct {
	cp   rune
	need int
	min  rune
}

// Idle reports whether the decoder is between code points.
func (d *Decoder) Idle() bool {
	return d.need == 0
}

// Reset drops any partial sequence.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// Feed consumes one byte. A byte that cannot continue a partial sequence
// abandons it and is decoded as the start of a new one.
func (d *Decoder) Feed(b byte) (rune, Status) {
	if d.need > 0 {
		if b&0xc0 == 0x80 {
			d.cp = d.cp<<6 | rune(b&0x3f)
			d.need--
			if d.need > 0 {
				return 0, More
			}
			cp := d.cp
			if cp < d.min || cp > utf8.MaxRune || (0xd800 <= cp && cp <= 0xdfff) {
				return 0, Reject
			}
			return cp, Accept
		}
		d.need = 0
	}

	switch {
	case b < 0x80:
		return rune(b), Accept
	case b&0xe0 == 0xc0:
		d.cp, d.need, d.min = rune(b&0x1f), 1, 0x80
	case b&0xf0 == 0xe0:
		d.cp, d.need, d.min = rune(b&0x0f), 2, 0x800
	case b&0xf8 == 0xf0:
		d.cp, d.need, d.min = rune(b&0x07), 3, 0x10000
	default:
		return 0, Reject
	}
	return 0, More
}
