//go:build windows

package desktop

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	spiSetDeskWallpaper  = 0x0014
	spifUpdateIniFile    = 0x01
	spifSendWinIniChange = 0x02

	desktopKey = `Control Panel\Desktop`
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// System returns the Windows painter.
func System(mode ModeFunc) Painter {
	return windowsPainter{mode: mode}
}

type windowsPainter struct {
	mode ModeFunc
}

// SetWallpaper writes the layout for the configured mode, then calls
// SystemParametersInfoW, which reads it and persists the change to the user
// profile.
func (w windowsPainter) SetWallpaper(path string) error {
	if err := setStyle(w.mode.mode()); err != nil {
		return err
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("desktop: %w", err)
	}
	r, _, callErr := procSystemParametersInfo.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(p)),
		spifUpdateIniFile|spifSendWinIniChange,
	)
	if r == 0 {
		return fmt.Errorf("desktop: SystemParametersInfoW: %w", callErr)
	}
	return nil
}

func setStyle(m Mode) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("desktop: open %s: %w", desktopKey, err)
	}
	defer k.Close()

	style, tile := m.windowsStyle()
	if err := k.SetStringValue("WallpaperStyle", style); err != nil {
		return fmt.Errorf("desktop: set WallpaperStyle: %w", err)
	}
	if err := k.SetStringValue("TileWallpaper", tile); err != nil {
		return fmt.Errorf("desktop: set TileWallpaper: %w", err)
	}
	return nil
}
