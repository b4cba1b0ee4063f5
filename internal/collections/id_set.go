package collections

import (
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/internal/hash"
	"github.com/fabricdb/fabricdb/internal/memory"
)

const (
	// SetDefaultCapacity is the initial table size when none is given.
	SetDefaultCapacity = 32
	// SetMaxLoad is the load factor past which the table doubles.
	SetMaxLoad = 0.6
	// Tombstone marks a removed cell. It can never be stored as a real id;
	// slot stores allocate ids sequentially from 1 and would need roughly
	// 286 million live records in one store before colliding with it.
	Tombstone uint32 = 0x11111111
)

// IDSet is a hash set of 32-bit ids built on open addressing with linear
// probing. The zero id is the empty-cell marker and therefore cannot be a
// member, which matches the stores' use of 0 as "none".
type IDSet struct {
	count int
	ids   []uint32
}

// NewIDSet creates a set with the given initial capacity; values below 1
// select the default.
func NewIDSet(capacity int) *IDSet {
	if capacity < 1 {
		capacity = SetDefaultCapacity
	}
	memory.Track(capacity * 4)

	return &IDSet{ids: make([]uint32, capacity)}
}

// Count returns the number of ids in the set.
func (s *IDSet) Count() int {
	return s.count
}

// Empty reports whether the set holds no ids.
func (s *IDSet) Empty() bool {
	return s.count <= 0
}

// Capacity returns the current table size.
func (s *IDSet) Capacity() int {
	return len(s.ids)
}

// Has reports whether id is a member. Probing stops at the first empty
// cell; tombstones are skipped over.
func (s *IDSet) Has(id uint32) bool {
	pos := int(hash.ID32(id) % uint64(len(s.ids)))
	for s.ids[pos] != 0 {
		if s.ids[pos] == id {
			return true
		}
		pos = (pos + 1) % len(s.ids)
	}

	return false
}

func (s *IDSet) addNoChecks(id uint32) {
	pos := int(hash.ID32(id) % uint64(len(s.ids)))
	for s.ids[pos] != 0 && s.ids[pos] != Tombstone {
		pos = (pos + 1) % len(s.ids)
	}
	s.ids[pos] = id
	s.count++
}

func (s *IDSet) resize(newCap int) {
	old := s.ids
	memory.Track(newCap * 4)
	s.ids = make([]uint32, newCap)
	s.count = 0
	for _, id := range old {
		if id != 0 && id != Tombstone {
			s.addNoChecks(id)
		}
	}
	memory.Release(len(old) * 4)
}

// Add inserts id into the set. Adding an existing member is a no-op.
// The zero id and the tombstone sentinel are rejected.
func (s *IDSet) Add(id uint32) error {
	if id == 0 || id == Tombstone {
		return errs.ErrReservedID
	}
	if s.Has(id) {
		return nil
	}
	if float64(s.count+1)/float64(len(s.ids)) > SetMaxLoad {
		s.resize(2 * len(s.ids))
	}
	s.addNoChecks(id)

	return nil
}

// Remove deletes id from the set, leaving a tombstone so later probe
// chains stay intact. Removing a non-member is a no-op.
func (s *IDSet) Remove(id uint32) {
	pos := int(hash.ID32(id) % uint64(len(s.ids)))
	for s.ids[pos] != 0 {
		if s.ids[pos] == id {
			s.ids[pos] = Tombstone
			s.count--
			return
		}
		pos = (pos + 1) % len(s.ids)
	}
}

// ToArray snapshots the members into a fresh slice of exactly Count ids.
// Order is unspecified.
func (s *IDSet) ToArray() []uint32 {
	out := make([]uint32, 0, s.count)
	for _, id := range s.ids {
		if id != 0 && id != Tombstone {
			out = append(out, id)
		}
	}

	return out
}
