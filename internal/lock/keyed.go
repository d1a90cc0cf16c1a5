// Package lock provides a registry of mutexes keyed by string, used to
// serialize all mutation of a single punch card without a global lock that
// would stall unrelated merchants' scans.
package lock

import "sync"

// Registry hands out one mutex per key. Entries are reference-counted and
// removed once the last holder releases, so the map does not grow with the
// total number of cards ever touched.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Lock blocks until the exclusive section for key is acquired and returns the
// release function. The caller must invoke it exactly once, typically via defer.
func (r *Registry) Lock(key string) (unlock func()) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		r.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(r.entries, key)
		}
		r.mu.Unlock()
	}
}

// Len reports the number of live entries, for monitoring.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
