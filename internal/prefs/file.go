package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the name of the preferences file inside the state directory.
const DefaultFileName = "prefs.yaml"

// FileStore keeps preferences in a single YAML document.
// The whole document is rewritten on every Put. Writes re-read the file
// under an exclusive lock on a sidecar ".lock" file, so several processes
// sharing the document only overwrite the keys they set.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// OpenFile loads the preferences file at path, creating its parent directory.
// A missing file is an empty store.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	s := &FileStore{path: path}
	values, err := s.read()
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Path returns the location of the preferences file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value for key or def.
func (s *FileStore) Get(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Put stores value under key and rewrites the file.
func (s *FileStore) Put(key, value string) error {
	return s.Update(key, func(string) (string, error) { return value, nil })
}

// Update rewrites key from its value on disk while holding the file lock.
// Every other key is taken from disk as well, so the in-memory copy is
// refreshed as a side effect.
func (s *FileStore) Update(key string, fn func(current string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.lockPath())
	if err != nil {
		return err
	}
	defer unlock()

	next, err := s.read()
	if err != nil {
		return err
	}
	value, err := fn(next[key])
	if err != nil {
		return err
	}
	next[key] = value
	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Dump returns a copy of every stored preference.
func (s *FileStore) Dump() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.values), nil
}

// Replace swaps the full preference set and rewrites the file.
func (s *FileStore) Replace(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.lockPath())
	if err != nil {
		return err
	}
	defer unlock()

	next := copyMap(values)
	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Reload re-reads the file from disk, picking up writes made by other
// processes. A missing file leaves the current values untouched.
func (s *FileStore) Reload() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	values, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *FileStore) lockPath() string {
	return s.path + ".lock"
}

// read parses the document on disk. A missing or empty file is an empty map.
// Writers replace the file by rename, so readers never see a partial document.
func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(s.path), err)
	}

	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(s.path), err)
	}
	return copyMap(values), nil
}

// write serializes values to a temp file and renames it into place so a
// crash never leaves a half-written document.
func (s *FileStore) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(s.path), err)
	}
	return nil
}
