// Package desktop sets the desktop background.
package desktop

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Painter applies an image file as the desktop wallpaper.
type Painter interface {
	SetWallpaper(path string) error
}

// ErrUnsupported is returned on platforms without a built-in painter.
var ErrUnsupported = errors.New("desktop: no wallpaper backend for this platform")

// Placeholders substituted in a command template.
const (
	PathPlaceholder = "{path}"
	ModePlaceholder = "{mode}"
)

// CommandPainter runs a user-supplied command such as "feh --bg-fill {path}".
// When the template has no path placeholder the path is appended as the
// last argument. {mode} becomes the configured Mode name.
type CommandPainter struct {
	Template string
	Mode     ModeFunc
}

// SetWallpaper runs the configured command for path.
func (c CommandPainter) SetWallpaper(path string) error {
	name, args, err := c.command(path)
	if err != nil {
		return err
	}
	return run(name, args...)
}

func (c CommandPainter) command(path string) (string, []string, error) {
	parts := strings.Fields(c.Template)
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("desktop: empty paint command")
	}

	substituted := false
	for i, p := range parts {
		if strings.Contains(p, ModePlaceholder) {
			p = strings.ReplaceAll(p, ModePlaceholder, string(c.Mode.mode()))
		}
		if strings.Contains(p, PathPlaceholder) {
			p = strings.ReplaceAll(p, PathPlaceholder, path)
			substituted = true
		}
		parts[i] = p
	}
	if !substituted {
		parts = append(parts, path)
	}
	return parts[0], parts[1:], nil
}

// gsettingsCommands returns the gsettings invocations that show uri with m.
func gsettingsCommands(uri string, m Mode) [][]string {
	const schema = "org.gnome.desktop.background"
	return [][]string{
		{"set", schema, "picture-options", m.gnomeOption()},
		{"set", schema, "picture-uri", uri},
	}
}

// fehArgs returns the feh arguments that show path with m.
func fehArgs(path string, m Mode) []string {
	return []string{m.fehFlag(), path}
}

// run executes a command and folds its output into the error on failure.
func run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("desktop: %s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("desktop: %s: %w", name, err)
	}
	return nil
}

// Recorder is a Painter that remembers every path it was asked to paint.
// Err, when set, is returned from every call after recording.
type Recorder struct {
	mu    sync.Mutex
	paths []string
	Err   error
}

func (r *Recorder) SetWallpaper(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.Err
}

// Paths returns the painted paths in call order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Last returns the most recently painted path, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}
