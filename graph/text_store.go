package graph

import (
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/internal/collections"
	"github.com/fabricdb/fabricdb/record"
)

// blockRun is a contiguous range of free text blocks.
type blockRun struct {
	start  uint32
	blocks uint32
}

// TextStore stores variable-length text in fixed blocks. A text occupies a
// contiguous run of blocks — a 4-byte size header followed by the payload —
// and its id is the 1-based index of the run's first block, so the region
// has no counters header of its own.
//
// Values load lazily: Get reads only the size header, which is all the
// block accounting needs; Materialize fetches the payload.
//
// Free space is tracked in memory and rebuilt on open by walking the
// region: a zero size header marks a free block, a nonzero one starts a
// live run. Deleting a text therefore zeroes the header word of every
// block in its run.
type TextStore struct {
	g         *Graph
	offset    uint32
	size      uint32
	blockSize uint32

	nextBlock uint32 // bump pointer, 1-based, never-written from here on
	freeRuns  []blockRun

	cache    *collections.EntityMap[*record.Text]
	dirty    *collections.IDSet
	deadRuns []blockRun
}

func newTextStore(g *Graph, offset, size, blockSize uint32) *TextStore {
	return &TextStore{g: g, offset: offset, size: size, blockSize: blockSize}
}

func (s *TextStore) maxBlocks() uint32 {
	return s.size / s.blockSize
}

func (s *TextStore) blockOffset(id uint32) int64 {
	return int64(s.offset) + int64(id-1)*int64(s.blockSize)
}

// init rebuilds the free-space map by walking the region's size headers.
// A fresh file skips the walk and the bump pointer starts at the first
// block.
func (s *TextStore) init(fresh bool) error {
	s.cache = collections.NewEntityMap[*record.Text](0)
	s.dirty = collections.NewIDSet(0)
	s.nextBlock = 1
	s.freeRuns = nil

	if fresh {
		return nil
	}

	maxBlocks := s.maxBlocks()
	var run *blockRun
	pos := uint32(1)
	for pos <= maxBlocks {
		size, err := s.g.readUint32(s.blockOffset(pos))
		if err != nil {
			return err
		}
		if size == 0 {
			if run == nil {
				s.freeRuns = append(s.freeRuns, blockRun{start: pos, blocks: 0})
				run = &s.freeRuns[len(s.freeRuns)-1]
			}
			run.blocks++
			pos++
			continue
		}
		run = nil
		pos += record.BlocksFor(size, s.blockSize)
	}

	// The trailing free run is the never-written tail; it becomes the bump
	// pointer rather than a reusable run.
	if n := len(s.freeRuns); n > 0 && s.freeRuns[n-1].start+s.freeRuns[n-1].blocks > maxBlocks {
		s.nextBlock = s.freeRuns[n-1].start
		s.freeRuns = s.freeRuns[:n-1]
	} else {
		s.nextBlock = pos
	}

	return nil
}

// Create stores value and returns its text id. The run is taken first-fit
// from the free list, else from the bump pointer; the blocks are written
// at the next flush.
func (s *TextStore) Create(value string) (uint32, error) {
	size := uint32(len(value))
	blocks := record.BlocksFor(size, s.blockSize)

	id := uint32(0)
	for i, run := range s.freeRuns {
		if run.blocks >= blocks {
			id = run.start
			s.freeRuns[i].start += blocks
			s.freeRuns[i].blocks -= blocks
			if s.freeRuns[i].blocks == 0 {
				s.freeRuns = append(s.freeRuns[:i], s.freeRuns[i+1:]...)
			}
			break
		}
	}
	if id == 0 {
		id = s.nextBlock
		s.nextBlock += blocks
	}

	text := &record.Text{ID: id, Size: size, Value: []byte(value)}
	s.cache.Set(id, text)
	if err := s.dirty.Add(id); err != nil {
		return 0, err
	}

	return id, nil
}

// Get returns the text with the given id. A text read from disk has only
// its size decoded; its value loads on Materialize.
func (s *TextStore) Get(id uint32) (*record.Text, error) {
	if s.cache.Has(id) {
		return s.cache.Get(id), nil
	}
	if id < 1 || id > s.maxBlocks() {
		return nil, errs.ErrTextInvalidID
	}
	// A run deleted since the last flush keeps its old size header on disk
	// until Flush zeroes it.
	for _, run := range s.deadRuns {
		if run.start == id {
			return nil, errs.ErrTextNotFound
		}
	}

	var head [record.TextHeaderSize]byte
	if err := s.g.readBytes(head[:], s.blockOffset(id)); err != nil {
		return nil, err
	}
	text := record.NewText(id)
	if err := text.Parse(head[:]); err != nil {
		return nil, err
	}
	if text.Size == 0 {
		return nil, errs.ErrTextNotFound
	}
	s.cache.Set(id, text)

	return text, nil
}

// Materialize loads and returns the text's value. No terminator is stored
// on disk; the returned string is exactly Size bytes.
func (s *TextStore) Materialize(text *record.Text) (string, error) {
	if text.Value != nil || text.Size == 0 {
		return text.String(), nil
	}

	buf := make([]byte, text.Size)
	if err := s.g.readBytes(buf, s.blockOffset(text.ID)+record.TextHeaderSize); err != nil {
		return "", err
	}
	text.Value = buf

	return text.String(), nil
}

// Delete releases the text's run of blocks. The zeroed size headers are
// written at the next flush so a later open sees the run as free.
func (s *TextStore) Delete(id uint32) error {
	text, err := s.Get(id)
	if err != nil {
		return err
	}

	run := blockRun{start: id, blocks: record.BlocksFor(text.Size, s.blockSize)}
	s.deadRuns = append(s.deadRuns, run)
	s.freeRuns = append(s.freeRuns, run)

	s.cache.Unset(id)
	s.dirty.Remove(id)

	return nil
}

// Flush writes pending texts into their runs and zeroes the header words
// of deleted runs. Dirty ids are bounds-checked up front so a resize
// signal leaves all pending state intact for a retry.
func (s *TextStore) Flush() error {
	if s.dirty.Empty() && len(s.deadRuns) == 0 {
		return nil
	}

	ids := s.dirty.ToArray()
	maxBlocks := s.maxBlocks()
	for _, id := range ids {
		text := s.cache.Get(id)
		if id+record.BlocksFor(text.Size, s.blockSize)-1 > maxBlocks {
			return errs.ErrTextStoreResize
		}
	}

	// Dead runs are zeroed before dirty texts are written so a run that
	// was freed and immediately reused keeps its new contents.
	for _, run := range s.deadRuns {
		for b := uint32(0); b < run.blocks; b++ {
			if err := s.g.writeUint32(0, s.blockOffset(run.start+b)); err != nil {
				return err
			}
		}
	}
	s.deadRuns = nil

	for _, id := range ids {
		text := s.cache.Get(id)
		if err := s.g.writeBytes(text.Bytes(), s.blockOffset(id)); err != nil {
			return err
		}
		s.dirty.Remove(id)
	}

	return s.g.noteFlush()
}
