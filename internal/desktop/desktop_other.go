//go:build !linux && !darwin && !windows

package desktop

// System returns a painter that always fails with ErrUnsupported.
func System(mode ModeFunc) Painter {
	return unsupported{}
}

type unsupported struct{}

func (unsupported) SetWallpaper(string) error {
	return ErrUnsupported
}
