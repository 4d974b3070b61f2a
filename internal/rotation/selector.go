// Package rotation moves through per-keyword wallpaper playlists.
package rotation

import (
	"fmt"
	"strings"
)

// Direction is the way a playlist is walked.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// ParseDirection accepts "next"/"n" and "previous"/"prev"/"p".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "n":
		return Next, nil
	case "previous", "prev", "p":
		return Previous, nil
	}
	return Next, fmt.Errorf("unknown direction %q", s)
}

// Resolve returns the playlist position after moving one step from cursor
// in a playlist of size entries, wrapping at both ends. A cursor of -1
// sits just before index 0: Next yields 0 and Previous yields size-1.
// Stale cursors left by a shrunk playlist are wrapped back into range.
//
// size must be positive; callers check for an empty playlist first.
func Resolve(size, cursor int, dir Direction) int {
	if size <= 0 {
		panic(fmt.Sprintf("rotation: Resolve on empty playlist (size %d)", size))
	}

	i := cursor + 1
	if dir == Previous {
		i = cursor - 1
	}

	if i >= size {
		i = 0
	}
	if i < 0 {
		i = size - 1
	}
	return i
}
