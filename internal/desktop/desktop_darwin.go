//go:build darwin

package desktop

import "strconv"

// System returns the macOS painter. System Events exposes no scaling
// option, so mode is ignored and the system setting applies.
func System(mode ModeFunc) Painter {
	return darwinPainter{}
}

type darwinPainter struct{}

// SetWallpaper asks System Events to set the picture on every desktop.
func (darwinPainter) SetWallpaper(path string) error {
	return run("osascript", "-e",
		`tell application "System Events" to tell every desktop to set picture to `+strconv.Quote(path))
}
