// Package catalog lists the wallpapers available for a keyword.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Pattern matches the file names the downloader writes. Anything else in a
// keyword directory is ignored.
const Pattern = "wallhaven-*"

// Entry is one eligible wallpaper file.
type Entry struct {
	Name    string
	Path    string
	ModTime time.Time
}

// Catalog reads keyword directories under a root. Nothing is cached:
// the downloader changes directories out of band.
type Catalog struct {
	root func() string
}

// New returns a Catalog rooted at dir.
func New(dir string) *Catalog {
	return &Catalog{root: func() string { return dir }}
}

// NewFunc returns a Catalog whose root is looked up on every List, so a
// changed download directory applies to the next navigation.
func NewFunc(root func() string) *Catalog {
	return &Catalog{root: root}
}

// Dir returns the directory that holds keyword's wallpapers.
func (c *Catalog) Dir(keyword string) string {
	return filepath.Join(c.root(), keyword)
}

// List returns keyword's wallpapers, most recently modified first.
// A missing directory yields an empty list. Files with equal modification
// times keep directory order, which is platform dependent.
func (c *Catalog) List(keyword string) ([]Entry, error) {
	dir := c.Dir(keyword)

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if ok, _ := filepath.Match(Pattern, de.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, de.Name())
		// Stat follows symlinks; a dangling link or a file removed since
		// ReadDir fails here and is skipped.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    path,
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	return entries, nil
}
