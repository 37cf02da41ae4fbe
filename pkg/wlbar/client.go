// Package wlbar connects the bar store to a river compositor: it binds the
// globals, maps layer surfaces, forwards river status and pointer events,
// and runs river commands.
package wlbar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/wayland"
)

// ErrMissingGlobals reports a compositor without an interface the bar
// needs.
var ErrMissingGlobals = errors.New("compositor does not support all required interfaces")

// Namespace is the layer surface namespace.
const Namespace = "sandbar"

// Versions bound, capped at what the compositor advertises.
const (
	compositorVersion = 4
	shmVersion        = 1
	layerShellVersion = 1
	riverStatusVer    = 4
	riverControlVer   = 1
	outputVersion     = 4
	seatVersion       = 7
)

// Core protocol enum values.
const (
	seatCapabilityPointer = 1
	pointerButtonPressed  = 1
	shmFormatARGB8888     = 0
)

type global struct {
	name    uint32
	iface   string
	version uint32
}

type output struct {
	wl     *client.Output
	status *wayland.RiverOutputStatus
}

type seat struct {
	wl      *client.Seat
	version uint32
	status  *wayland.RiverSeatStatus
	pointer *client.Pointer
}

// Client is a connection to river. It implements bar.Display.
type Client struct {
	conn   *wayland.Conn
	logger *log.Logger

	registry   *client.Registry
	compositor *client.Compositor
	shm        *client.Shm
	layerShell *wayland.LayerShell
	status     *wayland.RiverStatusManager
	control    *wayland.RiverControl
	cursor     *pointerCursor

	store    *bar.Store
	pending  []global
	outputs  map[uint32]*output
	seats    map[uint32]*seat
	surfaces map[uint32]uint32
}

var _ bar.Display = (*Client)(nil)

// Connect dials display (empty for $WAYLAND_DISPLAY), binds the required
// globals and returns a client ready for Attach.
func Connect(ctx context.Context, display string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, err := wayland.Connect(display, logger)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:     conn,
		logger:   logger,
		outputs:  make(map[uint32]*output),
		seats:    make(map[uint32]*seat),
		surfaces: make(map[uint32]uint32),
	}
	conn.LostFocus = c.lostFocus
	c.registry, err = conn.Display().GetRegistry()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("get registry: %w", err)
	}
	c.registry.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		c.global(e.Name, e.Interface, e.Version)
	})
	c.registry.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		c.globalRemove(e.Name)
	})
	if err := conn.Roundtrip(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("roundtrip: %w", err)
	}
	if err := c.checkGlobals(); err != nil {
		conn.Close()
		return nil, err
	}
	c.cursor = newPointerCursor(conn, c.compositor, c.shm, logger)
	return c, nil
}

func (c *Client) checkGlobals() error {
	var missing []string
	if c.compositor == nil {
		missing = append(missing, wayland.CompositorInterface)
	}
	if c.shm == nil {
		missing = append(missing, wayland.ShmInterface)
	}
	if c.layerShell == nil {
		missing = append(missing, wayland.LayerShellInterface)
	}
	if c.status == nil {
		missing = append(missing, wayland.RiverStatusManagerInterface)
	}
	if c.control == nil {
		missing = append(missing, wayland.RiverControlInterface)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingGlobals, strings.Join(missing, ", "))
	}
	return nil
}

// bind binds global name to p, which must already be registered.
func (c *Client) bind(name uint32, iface string, want, advertised uint32, p client.Proxy) {
	c.conn.Record(c.registry.Bind(name, iface, wayland.MinVersion(want, advertised), p))
}

func (c *Client) global(name uint32, iface string, version uint32) {
	ctx := c.conn.Context()
	switch iface {
	case wayland.CompositorInterface:
		c.compositor = client.NewCompositor(ctx)
		c.bind(name, iface, compositorVersion, version, c.compositor)
	case wayland.ShmInterface:
		c.shm = client.NewShm(ctx)
		c.bind(name, iface, shmVersion, version, c.shm)
	case wayland.LayerShellInterface:
		c.layerShell = wayland.NewLayerShell(ctx)
		c.bind(name, iface, layerShellVersion, version, c.layerShell)
	case wayland.RiverStatusManagerInterface:
		c.status = wayland.NewRiverStatusManager(ctx)
		c.bind(name, iface, riverStatusVer, version, c.status)
	case wayland.RiverControlInterface:
		c.control = wayland.NewRiverControl(ctx)
		c.bind(name, iface, riverControlVer, version, c.control)
	case wayland.OutputInterface, wayland.SeatInterface:
		g := global{name: name, iface: iface, version: version}
		if c.store == nil {
			// Bars need the store, so these wait for Attach.
			c.pending = append(c.pending, g)
			return
		}
		c.add(g)
	}
}

func (c *Client) add(g global) {
	switch g.iface {
	case wayland.OutputInterface:
		c.addOutput(g.name, g.version)
	case wayland.SeatInterface:
		c.addSeat(g.name, g.version)
	}
}

func (c *Client) globalRemove(name uint32) {
	for i, g := range c.pending {
		if g.name == name {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
	if o, ok := c.outputs[name]; ok {
		c.store.RemoveOutput(o.wl.ID())
		c.releaseOutput(o)
		delete(c.outputs, name)
		return
	}
	if s, ok := c.seats[name]; ok {
		c.store.RemoveSeat(s.wl.ID())
		c.releaseSeat(s)
		delete(c.seats, name)
	}
}

func (c *Client) releaseOutput(o *output) {
	c.conn.Record(o.status.Destroy())
	c.conn.Record(o.wl.Release())
}

func (c *Client) releaseSeat(s *seat) {
	if s.pointer != nil {
		c.conn.Record(s.pointer.Release())
	}
	c.conn.Record(s.status.Destroy())
	c.conn.Record(s.wl.Release())
}

// Attach feeds events to store and creates bars for the outputs and seats
// seen so far.
func (c *Client) Attach(store *bar.Store) {
	c.store = store
	pending := c.pending
	c.pending = nil
	for _, g := range pending {
		c.add(g)
	}
}

func (c *Client) addOutput(name, version uint32) {
	wl := client.NewOutput(c.conn.Context())
	c.bind(name, wayland.OutputInterface, outputVersion, version, wl)
	id := wl.ID()
	wl.SetNameHandler(func(e client.OutputNameEvent) { c.store.SetOutputName(id, e.Name) })

	status, err := c.status.GetOutputStatus(wl)
	c.conn.Record(err)
	status.OnFocusedTags = func(tags uint32) { c.store.SetFocusedTags(id, tags) }
	status.OnViewTags = func(tags []uint32) { c.store.SetViewTags(id, tags) }
	status.OnUrgentTags = func(tags uint32) { c.store.SetUrgentTags(id, tags) }
	status.OnLayoutName = func(n string) { c.store.SetLayout(id, n) }
	status.OnLayoutNameClear = func() { c.store.ClearLayout(id) }

	c.outputs[name] = &output{wl: wl, status: status}
	c.store.AddOutput(id)
}

func (c *Client) addSeat(name, version uint32) {
	wl := client.NewSeat(c.conn.Context())
	c.bind(name, wayland.SeatInterface, seatVersion, version, wl)
	s := &seat{wl: wl, version: wayland.MinVersion(seatVersion, version)}
	id := wl.ID()
	wl.SetCapabilitiesHandler(func(e client.SeatCapabilitiesEvent) { c.capabilities(s, e.Capabilities) })

	status, err := c.status.GetSeatStatus(wl)
	c.conn.Record(err)
	status.OnFocusedOutput = func(out uint32) { c.store.FocusOutput(id, out) }
	status.OnUnfocusedOutput = func(uint32) { c.store.UnfocusOutput(id) }
	status.OnFocusedView = func(title string) { c.store.SetFocusedView(id, title) }
	status.OnMode = func(mode string) { c.store.SetMode(id, mode) }
	s.status = status

	c.seats[name] = s
	c.store.AddSeat(id)
}

func (c *Client) capabilities(s *seat, caps uint32) {
	id := s.wl.ID()
	has := caps&seatCapabilityPointer != 0
	switch {
	case has && s.pointer == nil:
		p, err := s.wl.GetPointer()
		if err != nil {
			c.conn.Record(err)
			return
		}
		p.SetEnterHandler(func(e client.PointerEnterEvent) {
			if e.Surface == nil {
				return
			}
			out, ok := c.surfaces[e.Surface.ID()]
			if !ok {
				return
			}
			c.cursor.set(p, e.Serial, c.store.Renderer().Options().Scale)
			c.store.PointerEnter(id, out, e.SurfaceX, e.SurfaceY)
		})
		p.SetLeaveHandler(func(client.PointerLeaveEvent) { c.store.PointerLeave(id) })
		p.SetMotionHandler(func(e client.PointerMotionEvent) { c.store.PointerMotion(id, e.SurfaceX, e.SurfaceY) })
		p.SetButtonHandler(func(e client.PointerButtonEvent) {
			c.store.PointerButton(id, e.Button, e.State == pointerButtonPressed)
		})
		p.SetFrameHandler(func(client.PointerFrameEvent) { c.store.PointerFrame(id) })
		s.pointer = p
		if st := c.store.Seat(id); st != nil {
			// Seats before v5 send no frame events, so clicks fire on release.
			st.FrameEvents = s.version >= 5
		}
	case !has && s.pointer != nil:
		c.conn.Record(s.pointer.Release())
		s.pointer = nil
		c.store.PointerLeave(id)
	}
}

// lostFocus handles a leave for a bar surface that was already destroyed.
func (c *Client) lostFocus(p *client.Pointer) {
	for _, s := range c.seats {
		if s.pointer == p {
			c.store.PointerLeave(s.wl.ID())
			return
		}
	}
}

func (c *Client) outputByID(id uint32) *output {
	for _, o := range c.outputs {
		if o.wl.ID() == id {
			return o
		}
	}
	return nil
}

func (c *Client) seatByID(id uint32) *seat {
	for _, s := range c.seats {
		if s.wl.ID() == id {
			return s
		}
	}
	return nil
}

// RunCommand asks river to run args on behalf of seat.
func (c *Client) RunCommand(seatID uint32, args ...string) {
	s := c.seatByID(seatID)
	if s == nil || len(args) == 0 {
		return
	}
	for _, arg := range args {
		c.conn.Record(c.control.AddArgument(arg))
	}
	cb, err := c.control.RunCommand(s.wl)
	if err != nil {
		c.conn.Record(err)
		return
	}
	cb.OnFailure = func(msg string) {
		c.logger.Printf("river command %q failed: %s", strings.Join(args, " "), msg)
	}
}

// Events delivers compositor events for Dispatch.
func (c *Client) Events() <-chan wayland.Message { return c.conn.Events() }

// Dispatch handles one compositor event.
func (c *Client) Dispatch(m wayland.Message) error { return c.conn.Dispatch(m) }

// Flush reports a request that failed to send.
func (c *Client) Flush() error { return c.conn.Flush() }

// Err reports why Events closed.
func (c *Client) Err() error { return c.conn.Err() }

// Close releases the river objects and closes the connection. Surfaces are
// destroyed by the store.
func (c *Client) Close() error {
	for _, o := range c.outputs {
		c.releaseOutput(o)
	}
	for _, s := range c.seats {
		c.releaseSeat(s)
	}
	c.status.Destroy()
	c.control.Destroy()
	c.cursor.destroy()
	return c.conn.Close()
}
