package graph

import (
	"github.com/fabricdb/fabricdb/internal/collections"
	"github.com/fabricdb/fabricdb/internal/pool"
)

// slotRecord is what the shared store machinery needs from a record: the
// in-use sentinel that distinguishes live slots from free ones.
type slotRecord interface {
	InUse() bool
}

// storeErrors binds a slot store to its owner's sentinels.
type storeErrors struct {
	invalidID   error
	notFound    error
	needsResize error
}

// slotStore is the skeleton shared by the class, label, vertex, edge, and
// property stores: a contiguous file region holding a counters header
// followed by fixed-size 1-based slots, with a free-list of dead slots
// threaded through one record field, a write-back cache, and a dirty set.
//
// Freed ids form a LIFO chain headed by nextFree; lastFree is the bump
// pointer, always naming a slot that has never been written, so allocation
// from it needs no read.
type slotStore[R slotRecord] struct {
	g          *Graph
	offset     uint32
	size       uint32
	headerSize uint32
	recordSize uint32

	count    uint32
	nextFree uint32
	lastFree uint32

	cache *collections.EntityMap[R]
	dirty *collections.IDSet

	// counterWidth is the on-disk width of the three header counters:
	// 2 bytes for the class store, 4 for the others.
	counterWidth int
	// linkOffset / linkWidth locate the record field that aliases the
	// free-list link inside a dead slot.
	linkOffset uint32
	linkWidth  int

	errors storeErrors

	decode      func(id uint32, data []byte) (R, error)
	encode      func(R) []byte
	freeLinkGet func(R) uint32
	freeLinkSet func(R, uint32)
}

// init reads the counters header from the region. A region that has never
// been flushed reads back zeros; the free ids are normalized so that both
// pointers name slot 1, the first never-written slot.
func (s *slotStore[R]) init(bool) error {
	var err error
	if s.counterWidth == 2 {
		var c, n, l uint16
		if c, err = s.g.readUint16(int64(s.offset)); err != nil {
			return err
		}
		if n, err = s.g.readUint16(int64(s.offset) + 2); err != nil {
			return err
		}
		if l, err = s.g.readUint16(int64(s.offset) + 4); err != nil {
			return err
		}
		s.count, s.nextFree, s.lastFree = uint32(c), uint32(n), uint32(l)
	} else {
		if s.count, err = s.g.readUint32(int64(s.offset)); err != nil {
			return err
		}
		if s.nextFree, err = s.g.readUint32(int64(s.offset) + 4); err != nil {
			return err
		}
		if s.lastFree, err = s.g.readUint32(int64(s.offset) + 8); err != nil {
			return err
		}
	}
	if s.nextFree == 0 {
		s.nextFree = 1
	}
	if s.lastFree == 0 {
		s.lastFree = 1
	}

	s.cache = collections.NewEntityMap[R](0)
	s.dirty = collections.NewIDSet(0)

	return nil
}

// maxID is the highest slot id the region can hold.
func (s *slotStore[R]) maxID() uint32 {
	return (s.size - s.headerSize) / s.recordSize
}

// slotOffset is the absolute file offset of a slot.
func (s *slotStore[R]) slotOffset(id uint32) int64 {
	return int64(s.offset) + int64(s.headerSize) + int64(id-1)*int64(s.recordSize)
}

// allocateID takes the next id off the free-list. When the chain is
// exhausted both pointers advance past the bump slot; otherwise the next
// link is read from the cached tombstone record, or from disk at the
// slot's link field when the record was evicted.
func (s *slotStore[R]) allocateID() (uint32, error) {
	id := s.nextFree
	if s.nextFree == s.lastFree {
		s.nextFree++
		s.lastFree++

		return id, nil
	}

	if s.cache.Has(id) {
		s.nextFree = s.freeLinkGet(s.cache.Get(id))
		return id, nil
	}

	linkOff := s.slotOffset(id) + int64(s.linkOffset)
	if s.linkWidth == 2 {
		next, err := s.g.readUint16(linkOff)
		if err != nil {
			return 0, err
		}
		s.nextFree = uint32(next)
	} else {
		next, err := s.g.readUint32(linkOff)
		if err != nil {
			return 0, err
		}
		s.nextFree = next
	}

	return id, nil
}

// free pushes id onto the free-list. The record must already be marked
// not-in-use; it stays cached and dirty so flush persists the zeroed
// sentinel and the threaded link.
func (s *slotStore[R]) free(id uint32, rec R) {
	s.freeLinkSet(rec, s.nextFree)
	s.nextFree = id
	s.cache.Set(id, rec)
	_ = s.dirty.Add(id)
}

// markDirty records that rec's in-memory state is ahead of disk.
func (s *slotStore[R]) markDirty(id uint32, rec R) {
	s.cache.Set(id, rec)
	_ = s.dirty.Add(id)
}

// get returns the record with the given id, reading and caching its slot
// when it is not already in memory. A slot whose in-use sentinel is zero
// reports not-found.
func (s *slotStore[R]) get(id uint32) (R, error) {
	var zero R

	if !s.cache.Has(id) {
		if id < 1 || id > s.maxID() {
			return zero, s.errors.invalidID
		}
		bb := pool.GetRecordBuffer()
		buf := bb.Extend(int(s.recordSize))
		if err := s.g.readBytes(buf, s.slotOffset(id)); err != nil {
			pool.PutRecordBuffer(bb)
			return zero, err
		}
		rec, err := s.decode(id, buf)
		pool.PutRecordBuffer(bb)
		if err != nil {
			return zero, err
		}
		s.cache.Set(id, rec)
	}

	rec := s.cache.Get(id)
	if !rec.InUse() {
		return zero, s.errors.notFound
	}

	return rec, nil
}

// flush writes every dirty slot back to its region, then overwrites the
// counters header. Slots go first: a crash mid-flush may leave on-disk
// slots ahead of the header, which is safe because the header is the
// source of truth for liveness and free-list state.
//
// All dirty ids are bounds-checked before anything is written, so a
// needs-resize result leaves the dirty set untouched and the flush can be
// retried after the region grows.
func (s *slotStore[R]) flush() error {
	if s.dirty.Empty() {
		return nil
	}

	ids := s.dirty.ToArray()
	maxID := s.maxID()
	for _, id := range ids {
		if id > maxID {
			return s.errors.needsResize
		}
	}

	for _, id := range ids {
		rec := s.cache.Get(id)
		if err := s.g.writeBytes(s.encode(rec), s.slotOffset(id)); err != nil {
			return err
		}
		s.dirty.Remove(id)
	}

	if err := s.writeCounters(); err != nil {
		return err
	}

	return s.g.noteFlush()
}

// writeCounters overwrites the store's counters header in one go.
func (s *slotStore[R]) writeCounters() error {
	if s.counterWidth == 2 {
		if err := s.g.writeUint16(uint16(s.count), int64(s.offset)); err != nil {
			return err
		}
		if err := s.g.writeUint16(uint16(s.nextFree), int64(s.offset)+2); err != nil {
			return err
		}

		return s.g.writeUint16(uint16(s.lastFree), int64(s.offset)+4)
	}

	if err := s.g.writeUint32(s.count, int64(s.offset)); err != nil {
		return err
	}
	if err := s.g.writeUint32(s.nextFree, int64(s.offset)+4); err != nil {
		return err
	}

	return s.g.writeUint32(s.lastFree, int64(s.offset)+8)
}
