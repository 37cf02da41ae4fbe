package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/control"
	"github.com/b/sandbar/pkg/headless"
	"github.com/b/sandbar/pkg/render"
	"github.com/b/sandbar/pkg/text"
)

const simSeat = 100

var errUsage = errors.New("usage")

const simHelp = `:output NAME | :remove NAME | :focus NAME | :unfocus
:tags NAME MASK | :views NAME MASK... | :urgent NAME MASK
:layout NAME TEXT | :nolayout NAME | :title TEXT | :mode TEXT
anything else is a control line, e.g. "all status hello"`

// sim plays river for a Store drawing into a headless display.
type sim struct {
	display *headless.Display
	store   *bar.Store
	interp  *control.Interpreter
	cellW   int
	cols    int
	nextID  uint32
	log     []string
}

func newSim(opts *config.Options, face text.Face, cellW int, logger *log.Logger) *sim {
	d := headless.New()
	store := bar.NewStore(d, render.New(opts, face), logger)
	s := &sim{
		display: d,
		store:   store,
		interp:  control.New(store, logger),
		cellW:   cellW,
		cols:    80,
		nextID:  1,
	}
	store.AddSeat(simSeat)
	return s
}

func (s *sim) addOutput(name string) {
	id := s.nextID
	s.nextID++
	s.store.AddOutput(id)
	s.store.SetOutputName(id, name)
	if len(s.store.Bars()) == 1 {
		s.store.FocusOutput(simSeat, id)
	}
	s.configure(s.store.Bar(id))
	s.store.Redraw()
}

func (s *sim) configure(b *bar.Bar) {
	if b == nil || b.Hidden {
		return
	}
	scale := s.store.Renderer().Options().Scale
	s.store.Configure(b.ID, s.cols*s.cellW/scale, s.store.Renderer().BarHeight())
}

// resize fits every bar to cols terminal cells.
func (s *sim) resize(cols int) {
	if cols < 1 {
		cols = 1
	}
	s.cols = cols
	for _, b := range s.store.Bars() {
		s.configure(b)
	}
	s.store.Redraw()
}

func (s *sim) output(name string) (*bar.Bar, error) {
	b := s.store.BarByName(name)
	if b == nil {
		return nil, fmt.Errorf("no output %q", name)
	}
	return b, nil
}

func parseMask(arg string) (uint32, error) {
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad tag mask %q", arg)
	}
	return uint32(v), nil
}

// apply runs one input line and redraws.
func (s *sim) apply(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	defer func() {
		s.reshow()
		s.store.Redraw()
	}()
	if !strings.HasPrefix(line, ":") {
		s.interp.Exec(line)
		return nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return errUsage
	}
	cmd, args := fields[0], fields[1:]
	rest := func(from int) string {
		return strings.Join(args[from:], " ")
	}

	switch cmd {
	case "help":
		return errUsage
	case "output":
		if len(args) != 1 {
			return errUsage
		}
		if s.store.BarByName(args[0]) != nil {
			return fmt.Errorf("output %q exists", args[0])
		}
		s.addOutput(args[0])
		return nil
	case "title":
		s.store.SetFocusedView(simSeat, rest(0))
		return nil
	case "mode":
		s.store.SetMode(simSeat, rest(0))
		return nil
	case "unfocus":
		s.store.UnfocusOutput(simSeat)
		return nil
	}

	if len(args) < 1 {
		return errUsage
	}
	b, err := s.output(args[0])
	if err != nil {
		return err
	}
	switch cmd {
	case "remove":
		s.store.RemoveOutput(b.ID)
	case "focus":
		s.store.FocusOutput(simSeat, b.ID)
	case "tags", "urgent":
		if len(args) != 2 {
			return errUsage
		}
		mask, err := parseMask(args[1])
		if err != nil {
			return err
		}
		if cmd == "tags" {
			s.store.SetFocusedTags(b.ID, mask)
		} else {
			s.store.SetUrgentTags(b.ID, mask)
		}
	case "views":
		views := make([]uint32, 0, len(args)-1)
		for _, a := range args[1:] {
			mask, err := parseMask(a)
			if err != nil {
				return err
			}
			views = append(views, mask)
		}
		s.store.SetViewTags(b.ID, views)
	case "layout":
		s.store.SetLayout(b.ID, rest(1))
	case "nolayout":
		s.store.ClearLayout(b.ID)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// reshow configures bars that a control line just mapped.
func (s *sim) reshow() {
	for _, b := range s.store.Bars() {
		if !b.Hidden && !b.Configured {
			s.configure(b)
		}
	}
}

// click sends a full press and release at column col of the row-th bar and
// plays the resulting river commands.
func (s *sim) click(row, col int, button uint32) {
	bars := s.store.Bars()
	if row < 0 || row >= len(bars) {
		return
	}
	b := bars[row]
	s.store.FocusOutput(simSeat, b.ID)
	s.store.PointerEnter(simSeat, b.ID, float64(col*s.cellW+s.cellW/2), 1)
	s.store.PointerButton(simSeat, button, true)
	s.store.PointerButton(simSeat, button, false)
	s.store.PointerLeave(simSeat)
	for _, c := range s.display.TakeCommands() {
		s.log = append(s.log, c.String())
		s.river(c)
	}
	s.store.Redraw()
}

// river applies a command the way the compositor would.
func (s *sim) river(c headless.Command) {
	st := s.store.Seat(c.Seat)
	if st == nil || len(c.Args) != 2 {
		return
	}
	b := s.store.Bar(st.Bar)
	if c.Args[0] == "enter-mode" {
		s.store.SetMode(c.Seat, c.Args[1])
		return
	}
	if b == nil {
		return
	}
	mask, err := parseMask(c.Args[1])
	if err != nil {
		return
	}
	switch c.Args[0] {
	case "set-focused-tags":
		s.store.SetFocusedTags(b.ID, mask)
	case "toggle-focused-tags":
		if next := b.Focused ^ mask; next != 0 {
			s.store.SetFocusedTags(b.ID, next)
		}
	case "set-view-tags":
		s.store.SetViewTags(b.ID, []uint32{mask})
	}
}

// lines renders one terminal line per bar.
func (s *sim) lines() []string {
	bars := s.store.Bars()
	out := make([]string, len(bars))
	hidden := lipgloss.NewStyle().Faint(true)
	for i, b := range bars {
		surf := s.display.Surfaces[b.ID]
		if b.Hidden || surf == nil || surf.Last == nil {
			out[i] = hidden.Render(fmt.Sprintf("(%s hidden)", b.Name))
			continue
		}
		out[i] = renderCells(surf.Last, s.cellW)
	}
	return out
}

type cell struct {
	r      rune
	fg, bg color.Color
}

// renderCells turns a frame drawn with a cell face into styled text.
func renderCells(f *headless.Frame, w int) string {
	runes := f.Cells(w)
	cells := make([]cell, len(runes))
	for i := range cells {
		bg := f.RGBAAt(i*w+w/2, 0)
		cells[i] = cell{r: runes[i], fg: bg, bg: bg}
	}
	for _, g := range f.Glyphs {
		for i := g.X / w; i < (g.X+g.Advance)/w && i < len(cells); i++ {
			if i >= 0 {
				cells[i].fg, cells[i].bg = g.FG, g.BG
			}
		}
	}

	var sb strings.Builder
	var run strings.Builder
	flush := func(c cell) {
		if run.Len() == 0 {
			return
		}
		st := lipgloss.NewStyle().Foreground(termColor(c.fg)).Background(termColor(c.bg))
		sb.WriteString(st.Render(run.String()))
		run.Reset()
	}
	for i, c := range cells {
		if c.r == 0 {
			continue
		}
		if i > 0 && run.Len() > 0 && !sameColors(cells[i-1], c) {
			flush(cells[i-1])
		}
		run.WriteRune(c.r)
	}
	if len(cells) > 0 {
		flush(cells[len(cells)-1])
	}
	return sb.String()
}

func sameColors(a, b cell) bool {
	return termColor(a.fg) == termColor(b.fg) && termColor(a.bg) == termColor(b.bg)
}

func termColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
