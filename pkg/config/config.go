package config

import (
	"github.com/b/sandbar/pkg/paths"
)

// Config mirrors config.yaml. Unset fields are filled by applyDefaults.
type Config struct {
	InitiallyHidden             bool     `yaml:"initially_hidden"`
	InitiallyBottom             bool     `yaml:"initially_bottom"`
	HideVacantTags              bool     `yaml:"hide_vacant_tags"`
	DisableTitle                bool     `yaml:"disable_title"`
	DisableInlineStatusCommands bool     `yaml:"disable_inline_status_commands"`
	DisableLayoutDisplay        bool     `yaml:"disable_layout_display"`
	DisableModeDisplay          bool     `yaml:"disable_mode_display"`
	Font                        string   `yaml:"font"`             // fontconfig pattern (default: monospace:size=16)
	Tags                        []string `yaml:"tags"`             // Tag labels, 1 to 32 (default: 1..9)
	VerticalPadding             *int     `yaml:"vertical_padding"` // Logical pixels above and below text, 0 to 100 (default: 1)
	Scale                       int      `yaml:"scale"`            // Integer buffer scale (default: 1)
	Colors                      Colors   `yaml:"colors"`
	ControlSocket               bool     `yaml:"control_socket"` // Also accept commands on a unix socket
}

// Colors are #rrggbb or #rrggbbaa strings.
type Colors struct {
	ActiveFg   string `yaml:"active_fg"`   // Focused tag text (default: #eeeeee)
	ActiveBg   string `yaml:"active_bg"`   // Focused tag background (default: #005577)
	InactiveFg string `yaml:"inactive_fg"` // Other tags, mode, layout, status text (default: #bbbbbb)
	InactiveBg string `yaml:"inactive_bg"` // Other tags, mode, layout, status background (default: #222222)
	UrgentFg   string `yaml:"urgent_fg"`   // Urgent tag text (default: #222222)
	UrgentBg   string `yaml:"urgent_bg"`   // Urgent tag background (default: #eeeeee)
	TitleFg    string `yaml:"title_fg"`    // Title text on the selected bar (default: #eeeeee)
	TitleBg    string `yaml:"title_bg"`    // Title background on the selected bar (default: #005577)
}

func DefaultConfigPath() string {
	return paths.ConfigPath()
}
