package desktop

import (
	"fmt"
	"strings"
)

// Mode is how an image is laid out on a screen of a different size.
type Mode string

const (
	ModeFill   Mode = "fill"   // scale to cover, cropping overflow
	ModeFit    Mode = "fit"    // scale to fit, letterboxing
	ModeCenter Mode = "center" // no scaling
	ModeTile   Mode = "tile"   // repeat from the top left

	// DefaultMode is used when no valid mode is stored.
	DefaultMode = ModeFill
)

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeFill, ModeFit, ModeCenter, ModeTile}
}

// ParseMode maps a case-insensitive name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown desktop mode %q (use fill, fit, center or tile)", s)
}

// fehFlag is the feh --bg-* option for m.
func (m Mode) fehFlag() string {
	switch m {
	case ModeFit:
		return "--bg-max"
	case ModeCenter:
		return "--bg-center"
	case ModeTile:
		return "--bg-tile"
	default:
		return "--bg-fill"
	}
}

// gnomeOption is the org.gnome.desktop.background picture-options value for m.
func (m Mode) gnomeOption() string {
	switch m {
	case ModeFit:
		return "scaled"
	case ModeCenter:
		return "centered"
	case ModeTile:
		return "wallpaper"
	default:
		return "zoom"
	}
}

// windowsStyle returns the WallpaperStyle and TileWallpaper registry values
// under HKCU\Control Panel\Desktop for m.
func (m Mode) windowsStyle() (style, tile string) {
	switch m {
	case ModeFit:
		return "6", "0"
	case ModeCenter:
		return "0", "0"
	case ModeTile:
		return "0", "1"
	default:
		return "10", "0"
	}
}

// ModeFunc reports the mode to paint with. It is consulted on every paint so
// a changed setting applies to the next wallpaper.
type ModeFunc func() Mode

func (f ModeFunc) mode() Mode {
	if f == nil {
		return DefaultMode
	}
	return f()
}
