// Package paths resolves where sandbar keeps its files.
//
// Layout (XDG-style):
//
//	Config:  $XDG_CONFIG_HOME/sandbar/config.yaml  (override: SANDBAR_CONFIG_DIR)
//	State:   $XDG_STATE_HOME/sandbar/              (override: SANDBAR_STATE_DIR)
//	Runtime: $XDG_RUNTIME_DIR/sandbar-$WAYLAND_DISPLAY.{sock,pid}
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// lazyDir resolves a directory once: override env, then an absolute XDG
// base, then a path under $HOME.
type lazyDir struct {
	override string
	xdg      string
	home     []string

	once sync.Once
	path string
}

var (
	config = &lazyDir{override: "SANDBAR_CONFIG_DIR", xdg: "XDG_CONFIG_HOME", home: []string{".config"}}
	state  = &lazyDir{override: "SANDBAR_STATE_DIR", xdg: "XDG_STATE_HOME", home: []string{".local", "state"}}
)

func (d *lazyDir) get() string {
	d.once.Do(func() { d.path = d.resolve() })
	return d.path
}

func (d *lazyDir) resolve() string {
	if dir := os.Getenv(d.override); dir != "" {
		return dir
	}
	if base := os.Getenv(d.xdg); base != "" && filepath.IsAbs(base) {
		return filepath.Join(base, "sandbar")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	parts := append([]string{home}, d.home...)
	return filepath.Join(append(parts, "sandbar")...)
}

func (d *lazyDir) reset() {
	d.once = sync.Once{}
	d.path = ""
}

// ConfigDir is the directory holding config.yaml.
func ConfigDir() string { return config.get() }

// StateDir holds debug.log and perf.log.
func StateDir() string { return state.get() }

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StatePath joins name onto StateDir.
func StatePath(name string) string {
	return filepath.Join(StateDir(), name)
}

// EnsureStateDir creates StateDir if needed.
func EnsureStateDir() (string, error) {
	dir := StateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return dir, nil
}

// RuntimeDir is $XDG_RUNTIME_DIR, or the temp dir when unset.
func RuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// runtimeName is the per-display base name for runtime files.
func runtimeName() string {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	return "sandbar-" + filepath.Base(display)
}

// SocketPath returns the control socket path for the current display.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), runtimeName()+".sock")
}

// PidPath returns the pidfile path for the current display.
func PidPath() string {
	return filepath.Join(RuntimeDir(), runtimeName()+".pid")
}

// ResetForTest forgets resolved directories.
func ResetForTest() {
	config.reset()
	state.reset()
}
