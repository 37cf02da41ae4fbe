package wlbar

import (
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"
	"golang.org/x/image/draw"
	"golang.org/x/sys/unix"

	"github.com/b/sandbar/pkg/render"
	"github.com/b/sandbar/pkg/wayland"
)

type bufferState int

const (
	bufferInUse bufferState = iota
	bufferReleased
)

// buffer is one shm frame. It is drawn, presented, and freed when the
// compositor releases it.
type buffer struct {
	wl      *client.Buffer
	data    []byte
	img     *render.ARGB
	width   int
	height  int
	state   bufferState
	surface *surface
	conn    *wayland.Conn
}

// shmFile creates an anonymous file of size bytes and maps it read-write.
func shmFile(size int) (int, []byte, error) {
	fd, err := unix.MemfdCreate("sandbar-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return -1, nil, fmt.Errorf("memfd_create: %w", err)
	}
	for {
		err = unix.Ftruncate(fd, int64(size))
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("mmap: %w", err)
	}
	return fd, data, nil
}

func (c *Client) newBuffer(width, height int) (*buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer size %dx%d", width, height)
	}
	stride := width * 4
	size := stride * height
	fd, data, err := shmFile(size)
	if err != nil {
		return nil, err
	}
	// The fd is sent with create_pool; the mapping outlives it.
	pool, err := c.shm.CreatePool(fd, int32(size))
	unix.Close(fd)
	if err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("create pool: %w", err)
	}
	wl, err := pool.CreateBuffer(0, int32(width), int32(height), int32(stride), shmFormatARGB8888)
	c.conn.Record(pool.Destroy())
	if err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("create buffer: %w", err)
	}

	b := &buffer{
		wl:     wl,
		data:   data,
		img:    render.NewARGB(data, width, height),
		width:  width,
		height: height,
		conn:   c.conn,
	}
	wl.SetReleaseHandler(func(client.BufferReleaseEvent) { b.release() })
	return b, nil
}

func (b *buffer) Image() draw.Image { return b.img }

func (b *buffer) Present() { b.surface.present(b) }

func (b *buffer) release() {
	if b.state == bufferReleased {
		return
	}
	b.state = bufferReleased
	b.conn.Record(b.wl.Destroy())
	unix.Munmap(b.data)
	b.data = nil
	if b.surface != nil {
		delete(b.surface.buffers, b)
	}
}
