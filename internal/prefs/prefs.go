// Package prefs provides durable key/value preference storage.
//
// Every rotation setting and the keyword cursor map are stored as string
// values under flat keys. Backends differ only in where the values live.
package prefs

// Store is the preference contract consumed by settings and index.
type Store interface {
	// Get returns the value stored under key, or def if the key is absent
	// or the backend cannot be read. It never fails.
	Get(key, def string) string

	// Put stores value under key. The write is durable when Put returns nil.
	// Other keys are left as the backend holds them, including values
	// written by other processes since this store was opened.
	Put(key, value string) error

	// Update replaces the value under key with fn applied to the value
	// currently persisted ("" when absent). No other writer to the same
	// backend can interleave between the read and the write. If fn returns
	// an error nothing is written.
	Update(key string, fn func(current string) (string, error)) error
}

// Dumper is implemented by backends that can expose and replace their full
// contents, used by `wallsafe prefs show` and `wallsafe prefs edit`.
type Dumper interface {
	Dump() (map[string]string, error)
	Replace(values map[string]string) error
}

// copyMap returns a shallow copy of m that is never nil.
func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
