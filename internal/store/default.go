package store

import "sync"

// The process-wide store is reached through an explicit accessor rather
// than an implicit global, so tests can substitute a fresh instance.

var (
	defaultMu    sync.RWMutex
	defaultStore *Store
)

// SetDefault installs the process-wide store instance.
func SetDefault(s *Store) {
	defaultMu.Lock()
	defaultStore = s
	defaultMu.Unlock()
}

// Default returns the process-wide store, or nil if SetDefault has not
// been called. Components that need the store should prefer receiving it
// explicitly; Default exists for the UI wiring at process start.
func Default() *Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}
