package control

import (
	"bytes"
	"io"
	"log"

	"github.com/b/sandbar/pkg/bar"
)

// MaxLine bounds a buffered partial line.
const MaxLine = 1 << 20

// Store is the part of bar.Store the interpreter drives.
type Store interface {
	Bars() []*bar.Bar
	BarByName(name string) *bar.Bar
	Show(b *bar.Bar)
	Hide(b *bar.Bar)
	ToggleVisibility(b *bar.Bar)
	SetTop(b *bar.Bar)
	SetBottom(b *bar.Bar)
	ToggleLocation(b *bar.Bar)
	SetStatus(b *bar.Bar, status string)
}

// Interpreter runs control lines against a Store.
type Interpreter struct {
	store  Store
	logger *log.Logger

	partial  []byte
	dropping bool
}

// New returns an interpreter. A nil logger discards.
func New(store Store, logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interpreter{store: store, logger: logger}
}

// Feed runs every complete line in chunk and keeps the unterminated tail
// for the next call.
func (in *Interpreter) Feed(chunk []byte) {
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			if in.dropping {
				return
			}
			if len(in.partial)+len(chunk) > MaxLine {
				in.logger.Printf("control line longer than %d bytes dropped", MaxLine)
				in.partial = in.partial[:0]
				in.dropping = true
				return
			}
			in.partial = append(in.partial, chunk...)
			return
		}

		line := chunk[:i]
		chunk = chunk[i+1:]
		if in.dropping {
			in.dropping = false
			continue
		}
		if len(in.partial) > 0 {
			line = append(in.partial, line...)
			in.partial = in.partial[:0]
		}
		in.Exec(string(line))
	}
}

// Exec runs one line. Malformed lines and unknown commands are ignored.
func (in *Interpreter) Exec(line string) {
	cmd, ok := ParseLine(line)
	if !ok {
		return
	}

	var fn func(*bar.Bar)
	switch cmd.Name {
	case "status":
		if cmd.Arg == "" {
			return
		}
		fn = func(b *bar.Bar) { in.store.SetStatus(b, cmd.Arg) }
	case "show":
		fn = in.store.Show
	case "hide":
		fn = in.store.Hide
	case "toggle-visibility":
		fn = in.store.ToggleVisibility
	case "set-top":
		fn = in.store.SetTop
	case "set-bottom":
		fn = in.store.SetBottom
	case "toggle-location":
		fn = in.store.ToggleLocation
	default:
		in.logger.Printf("unknown control command %q", cmd.Name)
		return
	}

	switch cmd.Target {
	case "all":
		for _, b := range in.store.Bars() {
			fn(b)
		}
	case "selected":
		for _, b := range in.store.Bars() {
			if b.Selected {
				fn(b)
			}
		}
	default:
		if b := in.store.BarByName(cmd.Target); b != nil {
			fn(b)
		}
	}
}
