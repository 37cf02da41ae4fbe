package config

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/b/sandbar/pkg/colors"
)

const (
	MaxTags            = 32
	MaxVerticalPadding = 100
)

var (
	ErrTagCount      = errors.New("tag count must be between 1 and 32")
	ErrScale         = errors.New("scale must be at least 1")
	ErrNotReloadable = errors.New("change requires a restart")
)

// Options is the validated, immutable form of a Config. It is built once
// and shared by pointer; a reload builds a new one.
type Options struct {
	Hidden           bool
	Bottom           bool
	HideVacant       bool
	NoTitle          bool
	NoStatusCommands bool
	NoLayout         bool
	NoMode           bool
	Font             string
	Tags             []string
	VerticalPadding  int
	Scale            int
	Palette          colors.Palette
	ControlSocket    bool
}

// Options validates cfg.
func (cfg *Config) Options() (*Options, error) {
	if n := len(cfg.Tags); n < 1 || n > MaxTags {
		return nil, fmt.Errorf("%w (got %d)", ErrTagCount, n)
	}
	if cfg.Scale < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrScale, cfg.Scale)
	}
	pad := 1
	if cfg.VerticalPadding != nil {
		pad = min(max(*cfg.VerticalPadding, 0), MaxVerticalPadding)
	}

	var pal colors.Palette
	for _, c := range []struct {
		name string
		in   string
		out  *color.NRGBA64
	}{
		{"active_fg", cfg.Colors.ActiveFg, &pal.ActiveFG},
		{"active_bg", cfg.Colors.ActiveBg, &pal.ActiveBG},
		{"inactive_fg", cfg.Colors.InactiveFg, &pal.InactiveFG},
		{"inactive_bg", cfg.Colors.InactiveBg, &pal.InactiveBG},
		{"urgent_fg", cfg.Colors.UrgentFg, &pal.UrgentFG},
		{"urgent_bg", cfg.Colors.UrgentBg, &pal.UrgentBG},
		{"title_fg", cfg.Colors.TitleFg, &pal.TitleFG},
		{"title_bg", cfg.Colors.TitleBg, &pal.TitleBG},
	} {
		v, err := colors.Parse(c.in)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", c.name, err)
		}
		*c.out = v
	}

	return &Options{
		Hidden:           cfg.InitiallyHidden,
		Bottom:           cfg.InitiallyBottom,
		HideVacant:       cfg.HideVacantTags,
		NoTitle:          cfg.DisableTitle,
		NoStatusCommands: cfg.DisableInlineStatusCommands,
		NoLayout:         cfg.DisableLayoutDisplay,
		NoMode:           cfg.DisableModeDisplay,
		Font:             cfg.Font,
		Tags:             append([]string(nil), cfg.Tags...),
		VerticalPadding:  pad,
		Scale:            cfg.Scale,
		Palette:          pal,
		ControlSocket:    cfg.ControlSocket,
	}, nil
}

// DefaultOptions returns the options for the built-in configuration.
func DefaultOptions() *Options {
	o, err := Default().Options()
	if err != nil {
		panic(err)
	}
	return o
}

// MinContrast is the ratio below which Lint warns about a color pair.
const MinContrast = 3.0

// Lint returns warnings for color pairs that are hard to read.
func (o *Options) Lint() []string {
	var warnings []string
	for name, pair := range o.Palette.Pairs() {
		if r := colors.ContrastRatio(pair[0], pair[1]); r < MinContrast {
			warnings = append(warnings, fmt.Sprintf("%s colors have low contrast (%.1f:1)", name, r))
		}
	}
	sort.Strings(warnings)
	return warnings
}

// CheckReload reports whether next can replace o in a running bar. Tag
// count, font, scale and padding are fixed at startup.
func (o *Options) CheckReload(next *Options) error {
	switch {
	case len(next.Tags) != len(o.Tags):
		return fmt.Errorf("%w: tag count %d -> %d", ErrNotReloadable, len(o.Tags), len(next.Tags))
	case next.Font != o.Font:
		return fmt.Errorf("%w: font %q -> %q", ErrNotReloadable, o.Font, next.Font)
	case next.Scale != o.Scale:
		return fmt.Errorf("%w: scale %d -> %d", ErrNotReloadable, o.Scale, next.Scale)
	case next.VerticalPadding != o.VerticalPadding:
		return fmt.Errorf("%w: vertical padding %d -> %d", ErrNotReloadable, o.VerticalPadding, next.VerticalPadding)
	}
	return nil
}
