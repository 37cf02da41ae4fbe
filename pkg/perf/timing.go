// Package perf writes redraw timings to perf.log in the state directory
// when SANDBAR_PERF=1.
package perf

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/b/sandbar/pkg/paths"
)

var sink struct {
	sync.Mutex
	w      io.Writer
	opened bool
}

// out returns the perf log writer, opening perf.log on first use.
// Callers hold sink.
func out() io.Writer {
	if sink.opened {
		return sink.w
	}
	sink.opened = true
	if os.Getenv("SANDBAR_PERF") != "1" {
		return nil
	}
	if _, err := paths.EnsureStateDir(); err != nil {
		return nil
	}
	f, err := os.OpenFile(paths.StatePath("perf.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	sink.w = f
	return f
}

// SetOutput replaces the perf log destination. nil disables logging.
func SetOutput(w io.Writer) {
	sink.Lock()
	defer sink.Unlock()
	sink.w = w
	sink.opened = true
}

// Timer measures one named operation.
type Timer struct {
	name  string
	start time.Time
}

func Start(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop logs and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Log("%s: %v", t.name, elapsed)
	return elapsed
}

// Log appends a timestamped line to the perf log.
func Log(format string, args ...any) {
	sink.Lock()
	defer sink.Unlock()
	w := out()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%s: "+format+"\n", append([]any{time.Now().Format("15:04:05.000")}, args...)...)
}
