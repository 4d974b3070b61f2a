package prefs

import "sync"

// MemoryStore is a non-durable Store used by tests and dry runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	puts   int
}

// NewMemory returns a MemoryStore seeded with values.
func NewMemory(values map[string]string) *MemoryStore {
	return &MemoryStore{values: copyMap(values)}
}

func (s *MemoryStore) Get(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *MemoryStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.puts++
	return nil
}

func (s *MemoryStore) Update(key string, fn func(current string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := fn(s.values[key])
	if err != nil {
		return err
	}
	s.values[key] = value
	s.puts++
	return nil
}

// Puts reports how many writes the store has accepted.
func (s *MemoryStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

func (s *MemoryStore) Dump() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.values), nil
}

func (s *MemoryStore) Replace(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = copyMap(values)
	s.puts++
	return nil
}
