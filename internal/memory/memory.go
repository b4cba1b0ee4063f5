// Package memory tracks the bytes held by the library's long-lived in-memory
// structures (caches, dirty sets, lists). Go's runtime owns actual
// allocation; this accounting exists so embedders can observe the library's
// working-set growth.
package memory

import "sync/atomic"

var used atomic.Int64

// Track records n bytes as in use.
func Track(n int) {
	used.Add(int64(n))
}

// Release records n bytes as returned.
func Release(n int) {
	used.Add(-int64(n))
}

// InUse returns the bytes currently accounted as in use.
func InUse() int64 {
	return used.Load()
}

// Reset zeroes the counter. Intended for tests.
func Reset() {
	used.Store(0)
}
