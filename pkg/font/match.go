package font

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultDescriptor is used when no font is configured.
const DefaultDescriptor = "monospace:size=16"

// ErrNoMatch is returned when fontconfig cannot resolve a descriptor.
var ErrNoMatch = errors.New("no matching font")

// Descriptor is a parsed fontconfig-style font name.
type Descriptor struct {
	// Pattern is the text passed to fc-match, or a file path.
	Pattern string
	// Size in points. Zero when PixelSize is set.
	Size float64
	// PixelSize in logical pixels.
	PixelSize float64
}

// IsPath reports whether the pattern names a font file directly.
func (d Descriptor) IsPath() bool {
	return strings.HasPrefix(d.Pattern, "/") || strings.HasPrefix(d.Pattern, "./") ||
		strings.HasPrefix(d.Pattern, "~/")
}

// Points returns the size in points at 96 DPI.
func (d Descriptor) Points() float64 {
	if d.PixelSize > 0 {
		return d.PixelSize * 72 / 96
	}
	if d.Size > 0 {
		return d.Size
	}
	return 16
}

// ParseDescriptor splits "family:size=N:pixelsize=N". Other properties are
// kept in the pattern passed to fc-match.
func ParseDescriptor(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultDescriptor
	}
	parts := strings.Split(s, ":")
	d := Descriptor{}
	keep := parts[:1]
	for _, p := range parts[1:] {
		key, val, ok := strings.Cut(p, "=")
		switch {
		case ok && key == "size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return Descriptor{}, fmt.Errorf("font %q: bad size %q", s, val)
			}
			d.Size = f
		case ok && key == "pixelsize":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return Descriptor{}, fmt.Errorf("font %q: bad pixelsize %q", s, val)
			}
			d.PixelSize = f
		default:
			keep = append(keep, p)
		}
	}
	d.Pattern = strings.Join(keep, ":")
	if d.Pattern == "" {
		d.Pattern = "monospace"
	}
	return d, nil
}

// matchCommand is swapped out in tests.
var matchCommand = "fc-match"

// Match resolves a fontconfig pattern to a font file.
func Match(ctx context.Context, pattern string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, matchCommand, "--format=%{file}", pattern).Output()
	if err != nil {
		return "", fmt.Errorf("%w for %q: %v", ErrNoMatch, pattern, err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("%w for %q", ErrNoMatch, pattern)
	}
	return path, nil
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/" + rest
		}
	}
	return path
}
