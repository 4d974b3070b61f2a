// Package settings exposes the typed rotation configuration stored in the
// preference store.
package settings

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jacksmith/wallsafe/internal/desktop"
	"github.com/jacksmith/wallsafe/internal/prefs"
)

// Preference keys.
const (
	KeyResolution            = "resolution"
	KeyDirectory             = "download.directory"
	KeyChangeIntervalValue   = "change.interval.value"
	KeyChangeIntervalUnit    = "change.interval.timeunit"
	KeyDownloadIntervalValue = "download.interval.value"
	KeyDownloadIntervalUnit  = "download.interval.timeunit"
	KeyDesktopMode           = "desktop.mode"
)

const (
	// DefaultResolution is used when no valid resolution is stored.
	DefaultResolution = "1920x1080"

	// SearchBaseURL is the remote search endpoint wallpapers come from.
	SearchBaseURL = "https://wallhaven.cc/search"

	defaultIntervalValue = 60
	defaultIntervalUnit  = Seconds
)

var resolutionPattern = regexp.MustCompile(`^([1-9][0-9]*)x([1-9][0-9]*)$`)

// RotationConfig is a point-in-time copy of the rotation settings.
type RotationConfig struct {
	Resolution       string
	DirectoryPath    string
	ChangeInterval   Interval
	DownloadInterval Interval
	DesktopMode      desktop.Mode
}

// Settings reads and writes rotation settings. Reads go to the store on
// every call so edits made by another process are visible.
type Settings struct {
	store prefs.Store
}

// New creates Settings over store.
func New(store prefs.Store) *Settings {
	return &Settings{store: store}
}

// Store returns the underlying preference store.
func (s *Settings) Store() prefs.Store {
	return s.store
}

// Resolution returns the configured wallpaper resolution.
func (s *Settings) Resolution() string {
	res := s.store.Get(KeyResolution, DefaultResolution)
	if !resolutionPattern.MatchString(res) {
		return DefaultResolution
	}
	return res
}

// SetResolution validates and stores a "<W>x<H>" resolution.
func (s *Settings) SetResolution(res string) error {
	res = strings.ToLower(strings.TrimSpace(res))
	if !resolutionPattern.MatchString(res) {
		return fmt.Errorf("%q is not <width>x<height>", res)
	}
	return s.store.Put(KeyResolution, res)
}

// DefaultDirectory is the wallpaper root used when none is configured.
func DefaultDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "Wallpapers")
	}
	return filepath.Join(home, "Desktop", "Wallpapers")
}

// DirectoryPath returns the root that holds one subdirectory per keyword.
func (s *Settings) DirectoryPath() string {
	dir := s.store.Get(KeyDirectory, "")
	if dir == "" {
		return DefaultDirectory()
	}
	return dir
}

// SetDirectoryPath stores dir as an absolute path.
func (s *Settings) SetDirectoryPath(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("directory must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return s.store.Put(KeyDirectory, abs)
}

// DesktopMode returns how wallpapers are scaled to the screen.
func (s *Settings) DesktopMode() desktop.Mode {
	m, err := desktop.ParseMode(s.store.Get(KeyDesktopMode, string(desktop.DefaultMode)))
	if err != nil {
		return desktop.DefaultMode
	}
	return m
}

// SetDesktopMode validates and stores a desktop mode name.
func (s *Settings) SetDesktopMode(mode string) error {
	m, err := desktop.ParseMode(mode)
	if err != nil {
		return err
	}
	return s.store.Put(KeyDesktopMode, string(m))
}

// ChangeInterval returns how often the wallpaper rotates.
func (s *Settings) ChangeInterval() Interval {
	return s.interval(KeyChangeIntervalValue, KeyChangeIntervalUnit)
}

// SetChangeInterval validates and stores the rotation interval.
func (s *Settings) SetChangeInterval(iv Interval) error {
	return s.setInterval(KeyChangeIntervalValue, KeyChangeIntervalUnit, iv)
}

// DownloadInterval returns how often the download collaborator refills the catalogs.
func (s *Settings) DownloadInterval() Interval {
	return s.interval(KeyDownloadIntervalValue, KeyDownloadIntervalUnit)
}

// SetDownloadInterval validates and stores the download interval.
func (s *Settings) SetDownloadInterval(iv Interval) error {
	return s.setInterval(KeyDownloadIntervalValue, KeyDownloadIntervalUnit, iv)
}

func (s *Settings) interval(valueKey, unitKey string) Interval {
	unit := ParseTimeUnit(s.store.Get(unitKey, string(defaultIntervalUnit)))
	value, err := strconv.Atoi(s.store.Get(valueKey, strconv.Itoa(defaultIntervalValue)))
	if err != nil || (Interval{Value: value, Unit: unit}).Validate() != nil {
		value = defaultIntervalValue
	}
	return Interval{Value: value, Unit: unit}
}

func (s *Settings) setInterval(valueKey, unitKey string, iv Interval) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	if err := s.store.Put(valueKey, strconv.Itoa(iv.Value)); err != nil {
		return err
	}
	return s.store.Put(unitKey, string(ParseTimeUnit(string(iv.Unit))))
}

// FilterEnabled reports whether f is switched on.
func (s *Settings) FilterEnabled(f Filter) bool {
	on, err := strconv.ParseBool(s.store.Get(f.Key(), strconv.FormatBool(f.Default())))
	if err != nil {
		return f.Default()
	}
	return on
}

// SetFilter switches f on or off.
func (s *Settings) SetFilter(f Filter, on bool) error {
	return s.store.Put(f.Key(), strconv.FormatBool(on))
}

// mask renders the enabled filters of one kind as a bit string such as "110".
func (s *Settings) mask(kind FilterKind) string {
	var b strings.Builder
	for _, f := range Filters() {
		if f.Kind() != kind {
			continue
		}
		if s.FilterEnabled(f) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// SearchURL builds the remote search URL the download collaborator fetches
// for keyword. An empty keyword searches without a query.
func (s *Settings) SearchURL(keyword string) string {
	q := url.Values{}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		q.Set("q", keyword)
	}
	q.Set("categories", s.mask(KindCategory))
	q.Set("purity", s.mask(KindPurity))
	q.Set("resolutions", s.Resolution())
	q.Set("sorting", "random")
	q.Set("order", "desc")
	return SearchBaseURL + "?" + q.Encode()
}

// Snapshot copies the current settings.
func (s *Settings) Snapshot() RotationConfig {
	return RotationConfig{
		Resolution:       s.Resolution(),
		DirectoryPath:    s.DirectoryPath(),
		ChangeInterval:   s.ChangeInterval(),
		DownloadInterval: s.DownloadInterval(),
		DesktopMode:      s.DesktopMode(),
	}
}
