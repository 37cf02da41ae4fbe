// Package loop runs the bar: it waits on the compositor, the control
// stream, the control socket and config reloads, applies what arrived in a
// fixed order, and redraws once per wakeup.
package loop

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/control"
	"github.com/b/sandbar/pkg/render"
	"github.com/b/sandbar/pkg/wayland"
)

// Source is the compositor connection.
type Source interface {
	Events() <-chan wayland.Message
	Dispatch(m wayland.Message) error
	Flush() error
	Err() error
}

// Store is the state the loop redraws and reconfigures.
type Store interface {
	Renderer() *render.Renderer
	SetOptions(opts *config.Options)
	Redraw()
}

// Control consumes control stream bytes and socket lines.
type Control interface {
	Feed(chunk []byte)
	Exec(line string)
}

// Loop wires the inputs together. Nil channels are never ready.
type Loop struct {
	Source  Source
	Store   Store
	Control Control
	Stdin   <-chan control.Chunk
	Lines   <-chan string
	Reload  <-chan *config.Options
	Logger  *log.Logger
}

// errStop ends Run without an error.
var errStop = errors.New("stop")

type wakeup struct {
	chunks []control.Chunk
	lines  []string
	reload *config.Options
}

// Run blocks until ctx is done, the control stream ends, or the compositor
// goes away, all of which return nil. Protocol errors are returned.
func (l *Loop) Run(ctx context.Context) error {
	if l.Logger == nil {
		l.Logger = log.New(io.Discard, "", 0)
	}
	events := l.Source.Events()

	l.Store.Redraw()
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := l.Source.Flush(); err != nil {
			return l.finish(err)
		}

		var w wakeup
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-events:
			if !ok {
				return l.finish(l.Source.Err())
			}
			if err := l.Source.Dispatch(m); err != nil {
				return l.finish(err)
			}
		case c, ok := <-l.Stdin:
			if !ok {
				return l.finish(errStop)
			}
			w.chunks = append(w.chunks, c)
		case line, ok := <-l.Lines:
			if !ok {
				l.Lines = nil
			} else {
				w.lines = append(w.lines, line)
			}
		case opts, ok := <-l.Reload:
			if !ok {
				l.Reload = nil
			} else {
				w.reload = opts
			}
		}

		if err := l.cycle(events, &w); err != nil {
			return l.finish(err)
		}
		l.Store.Redraw()
	}
}

// cycle applies everything pending: compositor events, then the control
// stream, then socket lines, then a reload.
func (l *Loop) cycle(events <-chan wayland.Message, w *wakeup) error {
	for n := len(events); n > 0; n-- {
		m, ok := <-events
		if !ok {
			return l.Source.Err()
		}
		if err := l.Source.Dispatch(m); err != nil {
			return err
		}
	}

	w.chunks = drain(l.Stdin, w.chunks)
	for _, c := range w.chunks {
		if len(c.Data) > 0 {
			l.Control.Feed(c.Data)
		}
		if c.Err != nil {
			if !errors.Is(c.Err, io.EOF) {
				l.Logger.Printf("control stream: %v", c.Err)
			}
			return errStop
		}
	}

	w.lines = drain(l.Lines, w.lines)
	for _, line := range w.lines {
		l.Control.Exec(line)
	}

	if pending := drain(l.Reload, nil); len(pending) > 0 {
		w.reload = pending[len(pending)-1]
	}
	if w.reload != nil {
		l.reload(w.reload)
	}
	return nil
}

func (l *Loop) reload(next *config.Options) {
	if err := l.Store.Renderer().Options().CheckReload(next); err != nil {
		l.Logger.Printf("config reload ignored: %v", err)
		return
	}
	l.Store.SetOptions(next)
	l.Logger.Printf("config reloaded")
}

// drain appends whatever ch has ready without blocking.
func drain[T any](ch <-chan T, into []T) []T {
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return into
			}
			into = append(into, v)
		default:
			return into
		}
	}
}

func (l *Loop) finish(err error) error {
	switch {
	case err == nil, errors.Is(err, errStop):
		return nil
	case errors.Is(err, wayland.ErrConnectionLost):
		l.Logger.Printf("%v", err)
		return nil
	}
	return err
}
