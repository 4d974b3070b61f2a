//go:build !unix && !windows

package prefs

// lockFile is a no-op where the platform has no file locks; writers in one
// process are still serialized by the store mutex.
func lockFile(path string) (func() error, error) {
	return func() error { return nil }, nil
}
