// Command sandbar-preview runs the bar against an in-memory display and
// draws it in the terminal, for trying configs and control lines without
// a compositor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/font"
	"github.com/b/sandbar/pkg/text"
)

const (
	cellW = 8
	cellH = 16
)

var (
	configPath = flag.String("config", "", "config file `path`")
	outputs    = flag.String("outputs", "eDP-1", "comma-separated output `names`")
	once       = flag.Bool("once", false, "apply lines from stdin, print the bars and exit")
	pngPath    = flag.String("png", "", "apply lines from stdin and write the first bar to `file` with the real font")
	pngWidth   = flag.Int("width", 1280, "logical bar `width` for -png")
)

var logger = log.New(os.Stderr, "sandbar-preview: ", 0)

func main() {
	flag.Parse()

	path := *configPath
	required := path != ""
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(path, required)
	if err != nil {
		logger.Fatalf("config %s: %v", path, err)
	}
	opts, err := cfg.Options()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	for _, w := range opts.Lint() {
		logger.Printf("warning: %s", w)
	}

	if *pngPath != "" {
		if err := writePNG(opts, *pngPath); err != nil {
			logger.Fatalf("%v", err)
		}
		return
	}

	cellOpts := *opts
	cellOpts.Scale = 1
	s := newPreview(&cellOpts, font.NewCell(cellW, cellH, true), cellW)
	lipgloss.SetColorProfile(termenv.ColorProfile())

	if *once {
		s.resize(termWidth())
		if err := applyStdin(s); err != nil {
			logger.Fatalf("%v", err)
		}
		for _, line := range s.lines() {
			fmt.Println(line)
		}
		return
	}

	p := tea.NewProgram(newModel(s), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newPreview(opts *config.Options, face text.Face, w int) *sim {
	s := newSim(opts, face, w, logger)
	for _, name := range strings.Split(*outputs, ",") {
		if name = strings.TrimSpace(name); name != "" {
			s.addOutput(name)
		}
	}
	return s
}

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func applyStdin(s *sim) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	for scanner.Scan() {
		if err := s.apply(scanner.Text()); err != nil {
			logger.Printf("%q: %v", scanner.Text(), err)
		}
	}
	return scanner.Err()
}

func writePNG(opts *config.Options, path string) error {
	face, err := font.Load(opts.Font, opts.Scale, logger)
	if err != nil {
		return err
	}
	defer face.Close()

	// One column per logical pixel, so the bar is pngWidth wide.
	s := newPreview(opts, face, 1)
	s.resize(*pngWidth * opts.Scale)
	if err := applyStdin(s); err != nil {
		return err
	}
	bars := s.store.Bars()
	if len(bars) == 0 {
		return fmt.Errorf("no outputs")
	}
	surf := s.display.Surfaces[bars[0].ID]
	if surf == nil || surf.Last == nil {
		return fmt.Errorf("%s is hidden", bars[0].Name)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, surf.Last.RGBA); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
