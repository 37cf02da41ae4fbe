package wayland

import "github.com/rajveermalviya/go-wayland/wayland/client"

// River interface names.
const (
	RiverStatusManagerInterface = "zriver_status_manager_v1"
	RiverControlInterface       = "zriver_control_v1"
)

const (
	riverStatusDestroy         = 0
	riverStatusGetOutputStatus = 1
	riverStatusGetSeatStatus   = 2

	riverOutputStatusDestroy = 0

	riverOutputEventFocusedTags     = 0
	riverOutputEventViewTags        = 1
	riverOutputEventUrgentTags      = 2
	riverOutputEventLayoutName      = 3
	riverOutputEventLayoutNameClear = 4

	riverSeatStatusDestroy = 0

	riverSeatEventFocusedOutput   = 0
	riverSeatEventUnfocusedOutput = 1
	riverSeatEventFocusedView     = 2
	riverSeatEventMode            = 3

	riverControlDestroy     = 0
	riverControlAddArgument = 1
	riverControlRunCommand  = 2

	riverCommandEventSuccess = 0
	riverCommandEventFailure = 1
)

// RiverStatusManager is zriver_status_manager_v1.
type RiverStatusManager struct {
	client.BaseProxy
}

// NewRiverStatusManager registers an unbound manager for Registry.Bind.
func NewRiverStatusManager(ctx *client.Context) *RiverStatusManager {
	m := &RiverStatusManager{}
	ctx.Register(m)
	return m
}

func (m *RiverStatusManager) Dispatch(uint16, int, []byte) {}

// GetOutputStatus subscribes to tag and layout state of output.
func (m *RiverStatusManager) GetOutputStatus(output *client.Output) (*RiverOutputStatus, error) {
	s := &RiverOutputStatus{}
	m.Context().Register(s)
	e := newEncoder(m.ID(), riverStatusGetOutputStatus)
	e.putUint(s.ID())
	e.putUint(output.ID())
	return s, send(&m.BaseProxy, e)
}

// GetSeatStatus subscribes to focus and mode state of seat.
func (m *RiverStatusManager) GetSeatStatus(seat *client.Seat) (*RiverSeatStatus, error) {
	s := &RiverSeatStatus{}
	m.Context().Register(s)
	e := newEncoder(m.ID(), riverStatusGetSeatStatus)
	e.putUint(s.ID())
	e.putUint(seat.ID())
	return s, send(&m.BaseProxy, e)
}

// Destroy destroys the manager.
func (m *RiverStatusManager) Destroy() error {
	defer m.Context().Unregister(m)
	return send(&m.BaseProxy, newEncoder(m.ID(), riverStatusDestroy))
}

// RiverOutputStatus is zriver_output_status_v1.
type RiverOutputStatus struct {
	client.BaseProxy
	OnFocusedTags     func(tags uint32)
	OnViewTags        func(tags []uint32)
	OnUrgentTags      func(tags uint32)
	OnLayoutName      func(name string)
	OnLayoutNameClear func()
}

func (s *RiverOutputStatus) Dispatch(opcode uint16, _ int, data []byte) {
	d := &decoder{data: data}
	switch opcode {
	case riverOutputEventFocusedTags:
		tags := d.u32()
		if d.err == nil && s.OnFocusedTags != nil {
			s.OnFocusedTags(tags)
		}
	case riverOutputEventViewTags:
		raw := d.arr()
		if d.err == nil && s.OnViewTags != nil {
			s.OnViewTags(uint32s(raw))
		}
	case riverOutputEventUrgentTags:
		tags := d.u32()
		if d.err == nil && s.OnUrgentTags != nil {
			s.OnUrgentTags(tags)
		}
	case riverOutputEventLayoutName:
		name := d.str()
		if d.err == nil && s.OnLayoutName != nil {
			s.OnLayoutName(name)
		}
	case riverOutputEventLayoutNameClear:
		if s.OnLayoutNameClear != nil {
			s.OnLayoutNameClear()
		}
	}
}

// Destroy destroys the status object.
func (s *RiverOutputStatus) Destroy() error {
	defer s.Context().Unregister(s)
	return send(&s.BaseProxy, newEncoder(s.ID(), riverOutputStatusDestroy))
}

// RiverSeatStatus is zriver_seat_status_v1. Output arguments are wl_output
// object ids.
type RiverSeatStatus struct {
	client.BaseProxy
	OnFocusedOutput   func(output uint32)
	OnUnfocusedOutput func(output uint32)
	OnFocusedView     func(title string)
	OnMode            func(name string)
}

func (s *RiverSeatStatus) Dispatch(opcode uint16, _ int, data []byte) {
	d := &decoder{data: data}
	switch opcode {
	case riverSeatEventFocusedOutput:
		output := d.object()
		if d.err == nil && s.OnFocusedOutput != nil {
			s.OnFocusedOutput(output)
		}
	case riverSeatEventUnfocusedOutput:
		output := d.object()
		if d.err == nil && s.OnUnfocusedOutput != nil {
			s.OnUnfocusedOutput(output)
		}
	case riverSeatEventFocusedView:
		title := d.str()
		if d.err == nil && s.OnFocusedView != nil {
			s.OnFocusedView(title)
		}
	case riverSeatEventMode:
		name := d.str()
		if d.err == nil && s.OnMode != nil {
			s.OnMode(name)
		}
	}
}

// Destroy destroys the status object.
func (s *RiverSeatStatus) Destroy() error {
	defer s.Context().Unregister(s)
	return send(&s.BaseProxy, newEncoder(s.ID(), riverSeatStatusDestroy))
}

// RiverControl is zriver_control_v1.
type RiverControl struct {
	client.BaseProxy
}

// NewRiverControl registers an unbound control object for Registry.Bind.
func NewRiverControl(ctx *client.Context) *RiverControl {
	c := &RiverControl{}
	ctx.Register(c)
	return c
}

func (c *RiverControl) Dispatch(uint16, int, []byte) {}

// AddArgument appends to the pending command.
func (c *RiverControl) AddArgument(arg string) error {
	e := newEncoder(c.ID(), riverControlAddArgument)
	e.putString(arg)
	return send(&c.BaseProxy, e)
}

// RunCommand runs the pending command on seat.
func (c *RiverControl) RunCommand(seat *client.Seat) (*RiverCommandCallback, error) {
	cb := &RiverCommandCallback{}
	c.Context().Register(cb)
	e := newEncoder(c.ID(), riverControlRunCommand)
	e.putUint(seat.ID())
	e.putUint(cb.ID())
	return cb, send(&c.BaseProxy, e)
}

// Destroy destroys the control object.
func (c *RiverControl) Destroy() error {
	defer c.Context().Unregister(c)
	return send(&c.BaseProxy, newEncoder(c.ID(), riverControlDestroy))
}

// RiverCommandCallback is zriver_command_callback_v1. The compositor
// destroys it after either event.
type RiverCommandCallback struct {
	client.BaseProxy
	OnSuccess func(output string)
	OnFailure func(msg string)
}

func (cb *RiverCommandCallback) Dispatch(opcode uint16, _ int, data []byte) {
	d := &decoder{data: data}
	switch opcode {
	case riverCommandEventSuccess:
		out := d.str()
		cb.Context().Unregister(cb)
		if d.err == nil && cb.OnSuccess != nil {
			cb.OnSuccess(out)
		}
	case riverCommandEventFailure:
		msg := d.str()
		cb.Context().Unregister(cb)
		if d.err == nil && cb.OnFailure != nil {
			cb.OnFailure(msg)
		}
	}
}
