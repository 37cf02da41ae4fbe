package wayland

import "github.com/rajveermalviya/go-wayland/wayland/client"

// LayerShellInterface is the wlr layer shell global.
const LayerShellInterface = "zwlr_layer_shell_v1"

// Layers.
const (
	LayerBackground = 0
	LayerBottom     = 1
	LayerTop        = 2
	LayerOverlay    = 3
)

// Anchor edges.
const (
	AnchorTop    = 1
	AnchorBottom = 2
	AnchorLeft   = 4
	AnchorRight  = 8
)

const (
	layerShellGetLayerSurface = 0

	layerSurfaceSetSize      = 0
	layerSurfaceSetAnchor    = 1
	layerSurfaceSetExclusive = 2
	layerSurfaceAckConfigure = 6
	layerSurfaceDestroy      = 7

	layerSurfaceEventConfigure = 0
	layerSurfaceEventClosed    = 1
)

// LayerShell is zwlr_layer_shell_v1.
type LayerShell struct {
	client.BaseProxy
}

// NewLayerShell registers an unbound layer shell for Registry.Bind.
func NewLayerShell(ctx *client.Context) *LayerShell {
	l := &LayerShell{}
	ctx.Register(l)
	return l
}

// Dispatch implements the go-wayland dispatcher. The shell has no events.
func (l *LayerShell) Dispatch(uint16, int, []byte) {}

// GetLayerSurface gives surface a layer role on output. A nil output lets
// the compositor choose.
func (l *LayerShell) GetLayerSurface(surface *client.Surface, output *client.Output, layer uint32, namespace string) (*LayerSurface, error) {
	ls := &LayerSurface{}
	l.Context().Register(ls)
	var outputID uint32
	if output != nil {
		outputID = output.ID()
	}
	e := newEncoder(l.ID(), layerShellGetLayerSurface)
	e.putUint(ls.ID())
	e.putUint(surface.ID())
	e.putUint(outputID)
	e.putUint(layer)
	e.putString(namespace)
	return ls, send(&l.BaseProxy, e)
}

// LayerSurface is zwlr_layer_surface_v1.
type LayerSurface struct {
	client.BaseProxy
	OnConfigure func(serial, width, height uint32)
	OnClosed    func()
}

// Dispatch decodes configure and closed. Malformed events are dropped.
func (ls *LayerSurface) Dispatch(opcode uint16, _ int, data []byte) {
	d := &decoder{data: data}
	switch opcode {
	case layerSurfaceEventConfigure:
		serial := d.u32()
		w, h := d.u32(), d.u32()
		if d.err == nil && ls.OnConfigure != nil {
			ls.OnConfigure(serial, w, h)
		}
	case layerSurfaceEventClosed:
		if ls.OnClosed != nil {
			ls.OnClosed()
		}
	}
}

// SetSize sets the wanted size. Zero on an axis anchored to both edges
// stretches.
func (ls *LayerSurface) SetSize(width, height uint32) error {
	e := newEncoder(ls.ID(), layerSurfaceSetSize)
	e.putUint(width)
	e.putUint(height)
	return send(&ls.BaseProxy, e)
}

// SetAnchor sets the anchored edges.
func (ls *LayerSurface) SetAnchor(anchor uint32) error {
	e := newEncoder(ls.ID(), layerSurfaceSetAnchor)
	e.putUint(anchor)
	return send(&ls.BaseProxy, e)
}

// SetExclusiveZone reserves zone pixels along the anchored edge.
func (ls *LayerSurface) SetExclusiveZone(zone int32) error {
	e := newEncoder(ls.ID(), layerSurfaceSetExclusive)
	e.putInt(zone)
	return send(&ls.BaseProxy, e)
}

// AckConfigure acknowledges a configure event.
func (ls *LayerSurface) AckConfigure(serial uint32) error {
	e := newEncoder(ls.ID(), layerSurfaceAckConfigure)
	e.putUint(serial)
	return send(&ls.BaseProxy, e)
}

// Destroy destroys the layer surface. The wl_surface must be destroyed
// separately.
func (ls *LayerSurface) Destroy() error {
	defer ls.Context().Unregister(ls)
	return send(&ls.BaseProxy, newEncoder(ls.ID(), layerSurfaceDestroy))
}
