package control

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/font"
	"github.com/b/sandbar/pkg/headless"
	"github.com/b/sandbar/pkg/render"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Command
		ok   bool
	}{
		{"all status hello world", Command{"all", "status", "hello world"}, true},
		{"  DP-1   show", Command{"DP-1", "show", ""}, true},
		{"all status  two spaces", Command{"all", "status", " two spaces"}, true},
		{"all status ", Command{"all", "status", ""}, true},
		{"selected hide extra", Command{"selected", "hide", "extra"}, true},
		{"all", Command{}, false},
		{"", Command{}, false},
		{"   ", Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

type fixture struct {
	store   *bar.Store
	display *headless.Display
	interp  *Interpreter
	logs    *bytes.Buffer
}

// newFixture has outputs 1 "DP-1" and 2 "HDMI-A-1"; seat 10 focuses DP-1.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := headless.New()
	s := bar.NewStore(d, render.New(config.DefaultOptions(), font.NewCell(8, 16, false)), nil)
	s.AddOutput(1)
	s.AddOutput(2)
	s.SetOutputName(1, "DP-1")
	s.SetOutputName(2, "HDMI-A-1")
	s.AddSeat(10)
	s.FocusOutput(10, 1)
	var logs bytes.Buffer
	return &fixture{store: s, display: d, interp: New(s, log.New(&logs, "", 0)), logs: &logs}
}

func (f *fixture) bar(id uint32) *bar.Bar { return f.store.Bar(id) }

func TestExecTargets(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		statuses [2]string
	}{
		{"all", "all status hi", [2]string{"hi", "hi"}},
		{"selected", "selected status hi", [2]string{"hi", ""}},
		{"by name", "HDMI-A-1 status hi", [2]string{"", "hi"}},
		{"unknown name", "eDP-1 status hi", [2]string{"", ""}},
		{"empty status ignored", "all status", [2]string{"", ""}},
		{"unknown command", "all frobnicate x", [2]string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.interp.Exec(tt.line)
			got := [2]string{f.bar(1).Status, f.bar(2).Status}
			if got != tt.statuses {
				t.Errorf("statuses = %q, want %q", got, tt.statuses)
			}
		})
	}
}

func TestExecVisibility(t *testing.T) {
	f := newFixture(t)
	f.interp.Exec("selected toggle-visibility")
	if !f.bar(1).Hidden || f.bar(2).Hidden {
		t.Fatalf("hidden = %v %v, want only the selected bar hidden", f.bar(1).Hidden, f.bar(2).Hidden)
	}
	f.interp.Exec("all show")
	if f.bar(1).Hidden || f.bar(2).Hidden {
		t.Errorf("all show left a bar hidden")
	}
	f.interp.Exec("DP-1 hide")
	if !f.bar(1).Hidden {
		t.Errorf("DP-1 hide did nothing")
	}
}

func TestExecLocation(t *testing.T) {
	f := newFixture(t)
	f.interp.Exec("all set-bottom")
	if !f.bar(1).Bottom || !f.bar(2).Bottom {
		t.Fatalf("set-bottom not applied")
	}
	f.interp.Exec("HDMI-A-1 toggle-location")
	if f.bar(2).Bottom || !f.bar(1).Bottom {
		t.Errorf("toggle-location hit the wrong bar")
	}
	f.interp.Exec("all set-top")
	if f.bar(1).Bottom {
		t.Errorf("set-top not applied")
	}
}

func TestFeedSplitsLines(t *testing.T) {
	f := newFixture(t)
	f.interp.Feed([]byte("DP-1 status first\nHDMI-A-1 sta"))
	if f.bar(1).Status != "first" || f.bar(2).Status != "" {
		t.Fatalf("statuses after first chunk = %q %q", f.bar(1).Status, f.bar(2).Status)
	}
	f.interp.Feed([]byte("tus sec"))
	f.interp.Feed([]byte("ond\n\nall status €"))
	if f.bar(2).Status != "second" {
		t.Errorf("split line = %q, want %q", f.bar(2).Status, "second")
	}
	if f.bar(1).Status != "first" {
		t.Errorf("unterminated line ran early")
	}
	f.interp.Feed([]byte("\n"))
	if f.bar(1).Status != "€" {
		t.Errorf("status = %q", f.bar(1).Status)
	}
}

func TestFeedDropsOverlongLine(t *testing.T) {
	f := newFixture(t)
	f.interp.Feed([]byte("all status "))
	big := bytes.Repeat([]byte("x"), ChunkSize)
	for i := 0; i < MaxLine/ChunkSize+1; i++ {
		f.interp.Feed(big)
	}
	f.interp.Feed([]byte("tail\nall status ok\n"))
	if f.bar(1).Status != "ok" {
		t.Errorf("status = %.20q, want %q", f.bar(1).Status, "ok")
	}
	if !strings.Contains(f.logs.String(), "dropped") {
		t.Errorf("log = %q", f.logs.String())
	}
}

func TestReadChunks(t *testing.T) {
	data := strings.Repeat("a", ChunkSize+10)
	var got []byte
	var final error
	for c := range ReadChunks(strings.NewReader(data)) {
		got = append(got, c.Data...)
		if c.Err != nil {
			final = c.Err
		}
	}
	if string(got) != data {
		t.Errorf("read %d bytes, want %d", len(got), len(data))
	}
	if !errors.Is(final, io.EOF) {
		t.Errorf("final error = %v, want EOF", final)
	}
}

func TestReadChunksError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("all show\n"), iotest.ErrReader(boom))
	var chunks []Chunk
	for c := range ReadChunks(r) {
		chunks = append(chunks, c)
	}
	if len(chunks) != 2 || string(chunks[0].Data) != "all show\n" || !errors.Is(chunks[1].Err, boom) {
		t.Errorf("chunks = %+v", chunks)
	}
}
