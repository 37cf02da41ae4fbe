// Package wayland adapts the go-wayland client to sandbar's event loop and
// adds the layer-shell and river protocols it does not ship.
//
// Messages are read on a background goroutine and delivered through
// Events. Dispatch and every request must happen on one goroutine, the
// one running the loop.
package wayland

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// ErrConnectionLost reports that the compositor went away.
var ErrConnectionLost = errors.New("wayland: connection lost")

// ProtocolError is a fatal error reported by the compositor.
type ProtocolError struct {
	Code    uint32
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wayland: protocol error (code %d): %s", e.Code, e.Message)
}

// Core interface names.
const (
	CompositorInterface = "wl_compositor"
	ShmInterface        = "wl_shm"
	SeatInterface       = "wl_seat"
	OutputInterface     = "wl_output"
)

const eventQueue = 256

// wl_pointer events whose second word is a surface.
const (
	pointerEventEnter = 0
	pointerEventLeave = 1
)

type dispatcher interface {
	Dispatch(opcode uint16, fd int, data []byte)
}

// Conn is a client connection to a compositor.
type Conn struct {
	display *client.Display
	ctx     *client.Context
	logger  *log.Logger

	// LostFocus is called for a wl_pointer.leave naming a surface that is
	// already destroyed. The pointer's own leave handler is skipped.
	LostFocus func(p *client.Pointer)

	events  chan Message
	readErr error
	done    chan struct{}
	once    sync.Once

	writeErr error
	protoErr *ProtocolError
}

// Connect dials the named display. An empty name uses $WAYLAND_DISPLAY
// under $XDG_RUNTIME_DIR.
func Connect(name string, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	display, err := client.Connect(name)
	if err != nil {
		return nil, fmt.Errorf("connect to wayland display: %w", err)
	}
	c := &Conn{
		display: display,
		ctx:     display.Context(),
		logger:  logger,
		events:  make(chan Message, eventQueue),
		done:    make(chan struct{}),
	}
	display.SetErrorHandler(func(e client.DisplayErrorEvent) {
		if c.protoErr == nil {
			c.protoErr = &ProtocolError{Code: e.Code, Message: e.Message}
		}
	})
	go c.readLoop()
	return c, nil
}

// Display returns the wl_display singleton.
func (c *Conn) Display() *client.Display { return c.display }

// Context is the object registry new proxies are created in.
func (c *Conn) Context() *client.Context { return c.ctx }

// Events delivers incoming messages. It is closed when the connection ends.
func (c *Conn) Events() <-chan Message { return c.events }

// Err reports why Events was closed.
func (c *Conn) Err() error {
	if c.readErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrConnectionLost, c.readErr)
}

// Record keeps the first failed request. Requests are written as they are
// made, so this is how a dead socket reaches Flush.
func (c *Conn) Record(err error) {
	if err != nil && c.writeErr == nil {
		c.writeErr = fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
}

// Flush reports the first request that failed to send.
func (c *Conn) Flush() error { return c.writeErr }

// Close tears down the socket.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.ctx.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.events)
	for {
		object, opcode, _, data, err := c.ctx.ReadMsg()
		if err != nil {
			c.readErr = err
			return
		}
		m := Message{Object: object, Opcode: uint16(opcode), Args: append([]byte(nil), data...)}
		select {
		case c.events <- m:
		case <-c.done:
			c.readErr = net.ErrClosed
			return
		}
	}
}

// Dispatch delivers m to its object. Events for destroyed objects are
// dropped. A wl_display.error is returned as a *ProtocolError.
func (c *Conn) Dispatch(m Message) error {
	p := c.ctx.GetProxy(m.Object)
	if p == nil {
		c.logger.Printf("wayland: event %d for unknown object %d", m.Opcode, m.Object)
		return nil
	}
	if ptr, ok := p.(*client.Pointer); ok && c.staleFocus(m) {
		if m.Opcode == pointerEventLeave && c.LostFocus != nil {
			c.LostFocus(ptr)
		}
		return nil
	}
	if d, ok := p.(dispatcher); ok {
		d.Dispatch(m.Opcode, -1, m.Args)
	}
	if c.protoErr != nil {
		return c.protoErr
	}
	return nil
}

// staleFocus reports a pointer enter or leave whose surface is gone.
func (c *Conn) staleFocus(m Message) bool {
	if m.Opcode != pointerEventEnter && m.Opcode != pointerEventLeave {
		return false
	}
	if len(m.Args) < 8 {
		return true
	}
	return c.ctx.GetProxy(order.Uint32(m.Args[4:8])) == nil
}

// Roundtrip blocks until the compositor has processed every request sent
// so far, dispatching events meanwhile.
func (c *Conn) Roundtrip(ctx context.Context) error {
	cb, err := c.display.Sync()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	defer c.ctx.Unregister(cb)

	done := false
	cb.SetDoneHandler(func(client.CallbackDoneEvent) { done = true })
	for !done {
		select {
		case m, ok := <-c.events:
			if !ok {
				return c.Err()
			}
			if err := c.Dispatch(m); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// MinVersion caps a wanted version at what the compositor advertises.
func MinVersion(want, advertised uint32) uint32 {
	if advertised < want {
		return advertised
	}
	return want
}

// send writes e on p's connection.
func send(p *client.BaseProxy, e *encoder) error {
	return p.Context().WriteMsg(e.bytes(), nil)
}
