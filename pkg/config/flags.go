package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/b/sandbar/pkg/colors"
)

// ErrTagsArgs is returned for a malformed -tags list.
var ErrTagsArgs = errors.New("-tags: invalid arguments")

// Flags holds the parsed command line. Options that also exist in the
// config file are applied with Apply, so only flags given on the command
// line override the file.
type Flags struct {
	ConfigPath  string
	Socket      bool
	Debug       bool
	WriteConfig bool
	Version     bool

	set []func(*Config)
}

type tagList []string

func (t *tagList) String() string { return strings.Join(*t, " ") }

func (t *tagList) Set(s string) error {
	*t = append(*t, s)
	return nil
}

// ParseFlags parses args, not including the program name. Help output goes
// to out. It returns flag.ErrHelp for -h.
func ParseFlags(args []string, out io.Writer) (*Flags, error) {
	args, err := expandTags(args)
	if err != nil {
		return nil, err
	}

	f := &Flags{}
	var v Config
	var pad int
	var tags tagList

	fs := flag.NewFlagSet("sandbar", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: sandbar [OPTIONS]")
		fs.PrintDefaults()
	}

	fs.BoolVar(&v.InitiallyHidden, "hidden", false, "bars will initially be hidden")
	fs.BoolVar(&v.InitiallyBottom, "bottom", false, "bars will initially be drawn at the bottom")
	fs.BoolVar(&v.HideVacantTags, "hide-vacant-tags", false, "do not display empty and inactive tags")
	fs.BoolVar(&v.DisableTitle, "no-title", false, "do not display current view title")
	fs.BoolVar(&v.DisableInlineStatusCommands, "no-status-commands", false, "disable in-line commands in status text")
	fs.BoolVar(&v.DisableLayoutDisplay, "no-layout", false, "do not display the current layout")
	fs.BoolVar(&v.DisableModeDisplay, "no-mode", false, "do not display the current mode")
	fs.StringVar(&v.Font, "font", "", "specify a `font`")
	fs.Var(&tags, "tag", "add a tag `name` (repeatable; -tags N a b ... also works)")
	fs.IntVar(&pad, "vertical-padding", 1, "vertical `pixels` of padding above and below text")
	fs.IntVar(&v.Scale, "scale", 1, "buffer `scale` for integer scaling")
	for _, name := range colorFlagNames {
		fs.StringVar(colorField(&v, name), name, "", "`RGBA` color, "+strings.ReplaceAll(name, "-", " "))
	}

	fs.StringVar(&f.ConfigPath, "config", "", "config file `path`")
	fs.BoolVar(&f.Socket, "socket", false, "accept commands on the control socket")
	fs.BoolVar(&f.Debug, "debug", false, "write a debug log to the state directory")
	fs.BoolVar(&f.WriteConfig, "write-config", false, "write the effective config file and exit")
	fs.BoolVar(&f.Version, "v", false, "print version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("option %q not recognized", fs.Arg(0))
	}

	var bad error
	fs.Visit(func(fl *flag.Flag) {
		if p := colorField(&v, fl.Name); p != nil {
			if _, err := colors.Parse(*p); err != nil && bad == nil {
				bad = fmt.Errorf("-%s: %w", fl.Name, err)
			}
			val, name := *p, fl.Name
			f.set = append(f.set, func(c *Config) { *colorField(c, name) = val })
			return
		}
		switch fl.Name {
		case "hidden":
			f.set = append(f.set, func(c *Config) { c.InitiallyHidden = v.InitiallyHidden })
		case "bottom":
			f.set = append(f.set, func(c *Config) { c.InitiallyBottom = v.InitiallyBottom })
		case "hide-vacant-tags":
			f.set = append(f.set, func(c *Config) { c.HideVacantTags = v.HideVacantTags })
		case "no-title":
			f.set = append(f.set, func(c *Config) { c.DisableTitle = v.DisableTitle })
		case "no-status-commands":
			f.set = append(f.set, func(c *Config) { c.DisableInlineStatusCommands = v.DisableInlineStatusCommands })
		case "no-layout":
			f.set = append(f.set, func(c *Config) { c.DisableLayoutDisplay = v.DisableLayoutDisplay })
		case "no-mode":
			f.set = append(f.set, func(c *Config) { c.DisableModeDisplay = v.DisableModeDisplay })
		case "font":
			f.set = append(f.set, func(c *Config) { c.Font = v.Font })
		case "tag":
			f.set = append(f.set, func(c *Config) { c.Tags = append([]string(nil), tags...) })
		case "vertical-padding":
			f.set = append(f.set, func(c *Config) { p := pad; c.VerticalPadding = &p })
		case "scale":
			f.set = append(f.set, func(c *Config) { c.Scale = v.Scale })
		case "socket":
			f.set = append(f.set, func(c *Config) { c.ControlSocket = f.Socket })
		}
	})
	if bad != nil {
		return nil, bad
	}
	return f, nil
}

var colorFlagNames = []string{
	"active-fg-color", "active-bg-color",
	"inactive-fg-color", "inactive-bg-color",
	"urgent-fg-color", "urgent-bg-color",
	"title-fg-color", "title-bg-color",
}

// colorField maps a color flag name to its field in c, or nil.
func colorField(c *Config, name string) *string {
	switch name {
	case "active-fg-color":
		return &c.Colors.ActiveFg
	case "active-bg-color":
		return &c.Colors.ActiveBg
	case "inactive-fg-color":
		return &c.Colors.InactiveFg
	case "inactive-bg-color":
		return &c.Colors.InactiveBg
	case "urgent-fg-color":
		return &c.Colors.UrgentFg
	case "urgent-bg-color":
		return &c.Colors.UrgentBg
	case "title-fg-color":
		return &c.Colors.TitleFg
	case "title-bg-color":
		return &c.Colors.TitleBg
	}
	return nil
}

// Apply overrides cfg with the options given on the command line.
func (f *Flags) Apply(cfg *Config) {
	for _, set := range f.set {
		set(cfg)
	}
}

// expandTags rewrites "-tags N a b ..." into repeated -tag flags.
func expandTags(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if a != "-tags" && a != "--tags" {
			out = append(out, a)
			continue
		}
		if i+2 >= len(args) {
			return nil, fmt.Errorf("option -tags requires at least two arguments")
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n <= 0 || i+1+n >= len(args) {
			return nil, ErrTagsArgs
		}
		for _, name := range args[i+2 : i+2+n] {
			out = append(out, "-tag", name)
		}
		i += 1 + n
	}
	return out, nil
}
