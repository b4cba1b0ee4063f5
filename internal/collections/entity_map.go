package collections

import (
	"github.com/fabricdb/fabricdb/internal/hash"
	"github.com/fabricdb/fabricdb/internal/memory"
)

type mapEntry[T any] struct {
	key    uint32
	entity T
}

// EntityMap maps 32-bit ids to owned record handles. Each store keeps one,
// parametrized over its own record type, as its cache of in-memory records.
//
// The key space mirrors IDSet: 0 marks an empty cell, Tombstone a removed
// one, so neither can be used as a real key. Rehashing copies live entries
// only; tombstones are dropped.
type EntityMap[T any] struct {
	count   int
	entries []mapEntry[T]
}

// NewEntityMap creates a map with the given initial capacity; values below
// 1 select the default.
func NewEntityMap[T any](capacity int) *EntityMap[T] {
	if capacity < 1 {
		capacity = SetDefaultCapacity
	}
	memory.Track(capacity * 16)

	return &EntityMap[T]{entries: make([]mapEntry[T], capacity)}
}

// Count returns the number of entries in the map.
func (m *EntityMap[T]) Count() int {
	return m.count
}

// Capacity returns the current table size.
func (m *EntityMap[T]) Capacity() int {
	return len(m.entries)
}

// posOf returns the cell index of key, or -1 when it is absent.
func (m *EntityMap[T]) posOf(key uint32) int {
	pos := int(hash.ID32(key) % uint64(len(m.entries)))
	for m.entries[pos].key != 0 {
		if m.entries[pos].key == key {
			return pos
		}
		pos = (pos + 1) % len(m.entries)
	}

	return -1
}

// Has reports whether the map holds an entry for key.
func (m *EntityMap[T]) Has(key uint32) bool {
	return m.posOf(key) != -1
}

// Get returns the entity stored under key, or the zero value when absent.
func (m *EntityMap[T]) Get(key uint32) T {
	pos := m.posOf(key)
	if pos == -1 {
		var zero T
		return zero
	}

	return m.entries[pos].entity
}

func (m *EntityMap[T]) addNoChecks(e mapEntry[T]) {
	pos := int(hash.ID32(e.key) % uint64(len(m.entries)))
	for m.entries[pos].key != 0 && m.entries[pos].key != Tombstone {
		pos = (pos + 1) % len(m.entries)
	}
	m.entries[pos] = e
	m.count++
}

func (m *EntityMap[T]) resize(newCap int) {
	old := m.entries
	memory.Track(newCap * 16)
	m.entries = make([]mapEntry[T], newCap)
	m.count = 0
	for _, e := range old {
		if e.key != 0 && e.key != Tombstone {
			m.addNoChecks(e)
		}
	}
	memory.Release(len(old) * 16)
}

// Set inserts or overwrites the entry for key.
func (m *EntityMap[T]) Set(key uint32, entity T) {
	if pos := m.posOf(key); pos != -1 {
		m.entries[pos].entity = entity
		return
	}
	if float64(m.count+1)/float64(len(m.entries)) > SetMaxLoad {
		m.resize(2 * len(m.entries))
	}
	m.addNoChecks(mapEntry[T]{key: key, entity: entity})
}

// Unset removes the entry for key, leaving a tombstone cell. Removing an
// absent key is a no-op.
func (m *EntityMap[T]) Unset(key uint32) {
	pos := m.posOf(key)
	if pos == -1 {
		return
	}
	var zero T
	m.entries[pos].key = Tombstone
	m.entries[pos].entity = zero
	m.count--
}
