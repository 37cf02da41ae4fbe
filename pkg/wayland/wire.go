package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// headerSize is the object id word plus the size/opcode word.
const headerSize = 8

// ErrMalformed reports a message that does not match its signature.
var ErrMalformed = errors.New("wayland: malformed message")

var order = binary.NativeEndian

// Message is one event as read from the socket, not yet decoded.
type Message struct {
	Object uint32
	Opcode uint16
	Args   []byte
}

func parseHeader(b []byte) (object uint32, opcode uint16, size int) {
	object = order.Uint32(b[0:4])
	word := order.Uint32(b[4:8])
	return object, uint16(word & 0xffff), int(word >> 16)
}

func pad4(n int) int { return (n + 3) &^ 3 }

// encoder builds one layer-shell or river request.
type encoder struct {
	buf []byte
}

func newEncoder(object uint32, opcode uint16) *encoder {
	e := &encoder{buf: make([]byte, headerSize, 64)}
	order.PutUint32(e.buf[0:4], object)
	order.PutUint32(e.buf[4:8], uint32(opcode))
	return e
}

func (e *encoder) putUint(v uint32) {
	e.buf = order.AppendUint32(e.buf, v)
}

func (e *encoder) putInt(v int32) { e.putUint(uint32(v)) }

func (e *encoder) putString(s string) {
	e.putUint(uint32(len(s) + 1))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	e.pad()
}

func (e *encoder) pad() {
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
}

// bytes stamps the message size into the header.
func (e *encoder) bytes() []byte {
	word := order.Uint32(e.buf[4:8]) & 0xffff
	order.PutUint32(e.buf[4:8], uint32(len(e.buf))<<16|word)
	return e.buf
}

// decoder reads arguments from one event. The first failure sticks, so
// callers check err once after reading every argument.
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) fail(what string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: short %s at offset %d", ErrMalformed, what, d.off)
	}
}

func (d *decoder) u32() uint32 {
	if d.err != nil {
		return 0
	}
	if len(d.data)-d.off < 4 {
		d.fail("uint")
		return 0
	}
	v := order.Uint32(d.data[d.off:])
	d.off += 4
	return v
}

func (d *decoder) i32() int32 { return int32(d.u32()) }

func (d *decoder) object() uint32 { return d.u32() }

func (d *decoder) str() string {
	n := int(d.u32())
	if d.err != nil || n == 0 {
		return ""
	}
	if len(d.data)-d.off < pad4(n) {
		d.fail("string")
		return ""
	}
	s := d.data[d.off : d.off+n]
	d.off += pad4(n)
	if s[n-1] != 0 {
		d.err = fmt.Errorf("%w: string not terminated", ErrMalformed)
		return ""
	}
	return string(s[:n-1])
}

func (d *decoder) arr() []byte {
	n := int(d.u32())
	if d.err != nil {
		return nil
	}
	if len(d.data)-d.off < pad4(n) {
		d.fail("array")
		return nil
	}
	b := make([]byte, n)
	copy(b, d.data[d.off:])
	d.off += pad4(n)
	return b
}

// uint32s splits an array argument into native-endian words.
func uint32s(b []byte) []uint32 {
	out := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		out = append(out, order.Uint32(b[i:]))
	}
	return out
}
