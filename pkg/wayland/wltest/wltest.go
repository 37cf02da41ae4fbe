// Package wltest is a scripted compositor end for Wayland client tests.
package wltest

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

const (
	headerSize = 8
	timeout    = 2 * time.Second
)

var order = binary.NativeEndian

// Server owns the listening socket of a fake compositor.
type Server struct {
	t       testing.TB
	ln      *net.UnixListener
	conn    *net.UnixConn
	pending []byte
	fds     []int
}

// Listen creates a compositor socket in a fresh runtime dir and points
// WAYLAND_DISPLAY at it, so that a client connecting to "" lands here.
func Listen(t testing.TB) *Server {
	t.Helper()
	dir, err := os.MkdirTemp("", "wl")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "wayland-test")
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("WAYLAND_DISPLAY", "wayland-test")
	s := &Server{t: t, ln: ln}
	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(dir)
	})
	return s
}

// Accept waits for the client on first use.
func (s *Server) Accept() *net.UnixConn {
	s.t.Helper()
	if s.conn != nil {
		return s.conn
	}
	s.ln.SetDeadline(time.Now().Add(timeout))
	conn, err := s.ln.AcceptUnix()
	if err != nil {
		s.t.Fatalf("accept: %v", err)
	}
	s.conn = conn
	return conn
}

// Close hangs up on the client.
func (s *Server) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
	s.ln.Close()
	for _, fd := range s.fds {
		unix.Close(fd)
	}
	s.fds = nil
}

// Request is one message received from the client.
type Request struct {
	Object uint32
	Opcode uint16
	Args   []byte
}

// Words splits the arguments into native-endian words.
func (r Request) Words() []uint32 {
	out := make([]uint32, 0, len(r.Args)/4)
	for i := 0; i+4 <= len(r.Args); i += 4 {
		out = append(out, order.Uint32(r.Args[i:]))
	}
	return out
}

// Read returns the next n requests.
func (s *Server) Read(n int) []Request {
	s.t.Helper()
	conn := s.Accept()
	conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(28*4))
	var out []Request
	for {
		for len(out) < n && len(s.pending) >= headerSize {
			word := order.Uint32(s.pending[4:8])
			size := int(word >> 16)
			if size < headerSize || len(s.pending) < size {
				break
			}
			out = append(out, Request{
				Object: order.Uint32(s.pending[0:4]),
				Opcode: uint16(word & 0xffff),
				Args:   append([]byte(nil), s.pending[headerSize:size]...),
			})
			s.pending = s.pending[size:]
		}
		if len(out) == n {
			return out
		}
		nr, oobn, _, _, err := conn.ReadMsgUnix(buf, oob)
		if err != nil {
			s.t.Fatalf("read after %d of %d requests: %v", len(out), n, err)
		}
		s.pending = append(s.pending, buf[:nr]...)
		if oobn > 0 {
			s.takeFDs(oob[:oobn])
		}
	}
}

func (s *Server) takeFDs(oob []byte) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		s.t.Fatal(err)
	}
	for i := range msgs {
		fds, err := unix.ParseUnixRights(&msgs[i])
		if err != nil {
			s.t.Fatal(err)
		}
		s.fds = append(s.fds, fds...)
	}
}

// FDs returns how many descriptors the client has passed so far.
func (s *Server) FDs() int { return len(s.fds) }

// Send writes events to the client.
func (s *Server) Send(events ...[]byte) {
	s.t.Helper()
	var b []byte
	for _, e := range events {
		b = append(b, e...)
	}
	if _, err := s.Accept().Write(b); err != nil {
		s.t.Fatalf("write: %v", err)
	}
}

// Event encodes one message. Arguments may be uint32, int32, string or
// []byte (an array).
func Event(object uint32, opcode uint16, args ...any) []byte {
	b := make([]byte, headerSize, 64)
	for _, a := range args {
		switch v := a.(type) {
		case uint32:
			b = order.AppendUint32(b, v)
		case int32:
			b = order.AppendUint32(b, uint32(v))
		case string:
			b = order.AppendUint32(b, uint32(len(v)+1))
			b = append(b, v...)
			b = append(b, 0)
		case []byte:
			b = order.AppendUint32(b, uint32(len(v)))
			b = append(b, v...)
		default:
			panic("wltest: unsupported argument type")
		}
		for len(b)%4 != 0 {
			b = append(b, 0)
		}
	}
	order.PutUint32(b[0:4], object)
	order.PutUint32(b[4:8], uint32(len(b))<<16|uint32(opcode))
	return b
}
