package wlbar

import (
	"errors"
	"fmt"
	"log"

	"github.com/rajveermalviya/go-wayland/wayland/client"
	"github.com/rajveermalviya/go-wayland/wayland/cursor"

	"github.com/b/sandbar/pkg/wayland"
)

const (
	cursorName = "left_ptr"
	cursorSize = 24
)

type cursorImage struct {
	buffer             *client.Buffer
	width, height      int32
	hotspotX, hotspotY int32
	close              func()
}

type cursorLoader func(shm *client.Shm, size int) (*cursorImage, error)

// loadCursor loads left_ptr from the default xcursor theme
func loadCursor(shm *client.Shm, size int) (*cursorImage, error) {
	theme, err := cursor.LoadTheme("", size, shm)
	if err != nil {
		return nil, fmt.Errorf("load cursor theme: %w", err)
	}
	cur := theme.GetCursor(cursorName)
	if cur == nil || len(cur.Images) == 0 {
		theme.Destroy()
		return nil, fmt.Errorf("cursor theme has no %s", cursorName)
	}
	img := cur.Images[0]
	buf, err := img.GetBuffer()
	if err != nil {
		theme.Destroy()
		return nil, fmt.Errorf("cursor buffer: %w", err)
	}
	return &cursorImage{
		buffer:   buf,
		width:    int32(img.Width),
		height:   int32(img.Height),
		hotspotX: int32(img.HotspotX),
		hotspotY: int32(img.HotspotY),
		close:    func() { theme.Destroy() },
	}, nil
}

// pointerCursor is the surface shown under the pointer while it is over a
// bar. It is built on first enter and rebuilt when the scale changes.
type pointerCursor struct {
	conn       *wayland.Conn
	compositor *client.Compositor
	shm        *client.Shm
	logger     *log.Logger
	load       cursorLoader

	surface *client.Surface
	image   *cursorImage
	scale   int
	failed  bool
}

func newPointerCursor(conn *wayland.Conn, compositor *client.Compositor, shm *client.Shm, logger *log.Logger) *pointerCursor {
	return &pointerCursor{conn: conn, compositor: compositor, shm: shm, logger: logger, load: loadCursor}
}

// set shows the cursor for the enter event with serial.
func (pc *pointerCursor) set(p *client.Pointer, serial uint32, scale int) {
	if scale < 1 {
		scale = 1
	}
	if !pc.ready(scale) {
		return
	}
	s := int32(scale)
	pc.conn.Record(p.SetCursor(serial, pc.surface, pc.image.hotspotX/s, pc.image.hotspotY/s))
}

func (pc *pointerCursor) ready(scale int) bool {
	if pc.failed {
		return false
	}
	if pc.image != nil && pc.scale == scale {
		return true
	}
	img, err := pc.load(pc.shm, cursorSize*scale)
	if err != nil {
		// the compositor keeps its own cursor
		pc.logger.Printf("cursor disabled: %v", err)
		pc.failed = true
		return false
	}
	if pc.surface == nil {
		pc.surface, err = pc.compositor.CreateSurface()
		if err != nil {
			pc.conn.Record(err)
			pc.failed = true
			return false
		}
	}
	if pc.image != nil && pc.image.close != nil {
		pc.image.close()
	}
	pc.image, pc.scale = img, scale

	pc.conn.Record(errors.Join(
		pc.surface.SetBufferScale(int32(scale)),
		pc.surface.Attach(img.buffer, 0, 0),
		pc.surface.DamageBuffer(0, 0, img.width, img.height),
		pc.surface.Commit(),
	))
	return true
}

func (pc *pointerCursor) destroy() {
	if pc.surface != nil {
		pc.conn.Record(pc.surface.Destroy())
		pc.surface = nil
	}
	if pc.image != nil && pc.image.close != nil {
		pc.image.close()
	}
	pc.image = nil
}
