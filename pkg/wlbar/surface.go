package wlbar

import (
	"errors"
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/wayland"
)

var errNoOutput = errors.New("no such output")

func anchor(bottom bool) uint32 {
	edge := uint32(wayland.AnchorTop)
	if bottom {
		edge = wayland.AnchorBottom
	}
	return edge | wayland.AnchorLeft | wayland.AnchorRight
}

type surface struct {
	client  *Client
	output  uint32
	wl      *client.Surface
	layer   *wayland.LayerSurface
	buffers map[*buffer]struct{}
}

// CreateSurface maps a bottom-layer surface on output, height logical
// pixels tall and stretched across it.
func (c *Client) CreateSurface(outputID uint32, height int, bottom bool) (bar.Surface, error) {
	o := c.outputByID(outputID)
	if o == nil {
		return nil, fmt.Errorf("create surface on %d: %w", outputID, errNoOutput)
	}
	wl, err := c.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	layer, err := c.layerShell.GetLayerSurface(wl, o.wl, wayland.LayerBottom, Namespace)
	if err != nil {
		wl.Destroy()
		return nil, fmt.Errorf("get layer surface: %w", err)
	}
	s := &surface{client: c, output: outputID, wl: wl, layer: layer, buffers: make(map[*buffer]struct{})}

	layer.OnConfigure = func(serial, w, h uint32) {
		c.conn.Record(layer.AckConfigure(serial))
		c.store.Configure(outputID, int(w), int(h))
	}
	layer.OnClosed = func() { c.store.SurfaceClosed(outputID) }

	// The first commit carries no buffer; river answers with a configure.
	c.conn.Record(errors.Join(
		layer.SetSize(0, uint32(height)),
		layer.SetAnchor(anchor(bottom)),
		layer.SetExclusiveZone(int32(height)),
		wl.Commit(),
	))

	c.surfaces[wl.ID()] = outputID
	return s, nil
}

func (s *surface) SetAnchor(bottom bool) {
	s.client.conn.Record(errors.Join(s.layer.SetAnchor(anchor(bottom)), s.wl.Commit()))
}

func (s *surface) NewFrame(width, height int) (bar.Frame, error) {
	b, err := s.client.newBuffer(width, height)
	if err != nil {
		return nil, err
	}
	b.surface = s
	s.buffers[b] = struct{}{}
	return b, nil
}

func (s *surface) present(b *buffer) {
	scale := s.client.store.Renderer().Options().Scale
	s.client.conn.Record(errors.Join(
		s.wl.SetBufferScale(int32(scale)),
		s.wl.Attach(b.wl, 0, 0),
		s.wl.DamageBuffer(0, 0, int32(b.width), int32(b.height)),
		s.wl.Commit(),
	))
}

// Destroy unmaps the bar and frees buffers the compositor still holds.
func (s *surface) Destroy() {
	delete(s.client.surfaces, s.wl.ID())
	s.client.conn.Record(errors.Join(s.layer.Destroy(), s.wl.Destroy()))
	for b := range s.buffers {
		b.release()
	}
}
