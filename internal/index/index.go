// Package index persists the per-keyword rotation cursor.
//
// The whole keyword map is stored as one JSON object under the "keywords"
// preference, with entries named "keywords.<keyword>". Every mutation
// rewrites the full object, so a write costs O(number of keywords). The
// object is re-read from the preference store inside each write so that
// processes sharing the store do not drop each other's keywords.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jacksmith/wallsafe/internal/prefs"
)

const (
	// PrefKey is the preference key holding the serialized map.
	PrefKey = "keywords"

	// Unset is the cursor of a keyword nothing has been shown for yet.
	Unset = -1

	entryPrefix = PrefKey + "."
)

// DefaultKeywords seed the map when no keyword preference exists.
var DefaultKeywords = []string{"space", "nature", "abstract"}

// ErrInvalidKeyword is returned for keywords that cannot name a directory.
var ErrInvalidKeyword = errors.New("invalid keyword")

// Store holds keyword cursors. It is safe for concurrent use.
type Store struct {
	prefs prefs.Store
	log   *slog.Logger

	mu      sync.RWMutex
	cursors map[string]int // keyed by bare keyword
}

// Open loads the keyword map from p.
func Open(p prefs.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{prefs: p, log: logger}
	s.cursors = s.load()
	return s
}

// Reload re-reads the map from the preference store.
func (s *Store) Reload() {
	cursors := s.load()
	s.mu.Lock()
	s.cursors = cursors
	s.mu.Unlock()
}

func (s *Store) load() map[string]int {
	return s.parse(s.prefs.Get(PrefKey, ""))
}

// parse decodes a stored map. An absent preference seeds DefaultKeywords;
// a corrupt one is logged and treated as empty.
func (s *Store) parse(raw string) map[string]int {
	if raw == "" {
		seeded := make(map[string]int, len(DefaultKeywords))
		for _, kw := range DefaultKeywords {
			seeded[kw] = Unset
		}
		return seeded
	}

	cursors, err := decode(raw)
	if err != nil {
		s.log.Warn("index: stored keyword map is corrupt, starting empty", "error", err)
		return map[string]int{}
	}
	return cursors
}

// decode parses a stored keyword map, skipping entries without the
// "keywords." prefix.
func decode(raw string) (map[string]int, error) {
	var stored map[string]int
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	cursors := make(map[string]int, len(stored))
	for key, cursor := range stored {
		kw := strings.TrimPrefix(key, entryPrefix)
		if kw == "" || kw == key {
			continue
		}
		cursors[kw] = cursor
	}
	return cursors, nil
}

// Validate checks that raw is a keyword map this package can load without
// losing entries.
func Validate(raw string) error {
	var stored map[string]int
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("keyword map is not a JSON object of integers: %w", err)
	}
	for key := range stored {
		kw, ok := strings.CutPrefix(key, entryPrefix)
		if !ok {
			return fmt.Errorf("entry %q must start with %q", key, entryPrefix)
		}
		if _, err := NormalizeKeyword(kw); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeKeyword trims kw and rejects values that cannot be a subdirectory name.
func NormalizeKeyword(kw string) (string, error) {
	kw = strings.TrimSpace(kw)
	if kw == "" || kw == "." || kw == ".." || strings.ContainsAny(kw, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKeyword, kw)
	}
	return kw, nil
}

// Get returns the cursor for kw, or Unset if kw is unknown.
func (s *Store) Get(kw string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cursor, ok := s.cursors[kw]; ok {
		return cursor
	}
	return Unset
}

// Has reports whether kw is a configured keyword.
func (s *Store) Has(kw string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cursors[kw]
	return ok
}

// Keywords returns the configured keywords in sorted order.
func (s *Store) Keywords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.cursors))
	for kw := range s.cursors {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of every keyword cursor.
func (s *Store) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCursors(s.cursors)
}

// Set stores cursor for kw and persists the map.
func (s *Store) Set(kw string, cursor int) error {
	kw, err := NormalizeKeyword(kw)
	if err != nil {
		return err
	}
	return s.update(func(m map[string]int) { m[kw] = cursor })
}

// AddKeyword registers kw with an Unset cursor. Re-adding keeps the existing cursor.
func (s *Store) AddKeyword(kw string) error {
	kw, err := NormalizeKeyword(kw)
	if err != nil {
		return err
	}
	return s.update(func(m map[string]int) {
		if _, ok := m[kw]; !ok {
			m[kw] = Unset
		}
	})
}

// RemoveKeyword drops kw. Removing an unknown keyword is not an error.
func (s *Store) RemoveKeyword(kw string) error {
	kw = strings.TrimSpace(kw)
	return s.update(func(m map[string]int) { delete(m, kw) })
}

// ResetAll sets every cursor back to Unset.
func (s *Store) ResetAll() error {
	return s.update(func(m map[string]int) {
		for kw := range m {
			m[kw] = Unset
		}
	})
}

// update applies fn to the map as currently persisted, not to the cached
// copy, so keywords and cursors written by other processes survive. The
// cache is swapped only after the write succeeds.
func (s *Store) update(fn func(map[string]int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next map[string]int
	err := s.prefs.Update(PrefKey, func(raw string) (string, error) {
		next = s.parse(raw)
		fn(next)

		stored := make(map[string]int, len(next))
		for kw, cursor := range next {
			stored[entryPrefix+kw] = cursor
		}
		data, err := json.Marshal(stored)
		if err != nil {
			return "", fmt.Errorf("failed to serialize keyword map: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist keyword map: %w", err)
	}

	s.cursors = next
	return nil
}

func copyCursors(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
