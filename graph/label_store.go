package graph

import (
	"errors"
	"fmt"

	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/record"
)

const labelStoreHeaderSize = 12

// LabelStore interns textual labels with reference counts. Class names,
// edge types, and property keys all go through it, so repeated text is
// stored once and carries a fixed-size 32-bit handle. When a label's last
// reference is released, its slot is freed and its backing text record is
// deleted.
type LabelStore struct {
	g     *Graph
	store slotStore[*record.Label]
}

func newLabelStore(g *Graph, offset, size uint32) *LabelStore {
	s := &LabelStore{g: g}
	s.store = slotStore[*record.Label]{
		g:            g,
		offset:       offset,
		size:         size,
		headerSize:   labelStoreHeaderSize,
		recordSize:   record.LabelSize,
		counterWidth: 4,
		// The refs field aliases the free-list link in a dead slot.
		linkOffset: 4,
		linkWidth:  4,
		errors: storeErrors{
			invalidID:   errs.ErrLabelInvalidID,
			notFound:    errs.ErrLabelNotFound,
			needsResize: errs.ErrLabelStoreResize,
		},
		decode: func(id uint32, data []byte) (*record.Label, error) {
			l := record.NewLabel(id)
			if err := l.Parse(data); err != nil {
				return nil, err
			}
			return l, nil
		},
		encode:      func(l *record.Label) []byte { return l.Bytes() },
		freeLinkGet: func(l *record.Label) uint32 { return l.Refs },
		freeLinkSet: func(l *record.Label, next uint32) { l.Refs = next },
	}

	return s
}

func (s *LabelStore) init(fresh bool) error {
	return s.store.init(fresh)
}

// Flush writes all dirty labels and the store counters back to the file.
func (s *LabelStore) Flush() error {
	return s.store.flush()
}

// Count returns the number of live labels.
func (s *LabelStore) Count() uint32 {
	return s.store.count
}

// Get returns the label with the given id.
func (s *LabelStore) Get(id uint32) (*record.Label, error) {
	return s.store.get(id)
}

// GetByName resolves a label through the label-name index.
func (s *LabelStore) GetByName(name string) (*record.Label, error) {
	id := s.g.indexes.LabelIndex().Lookup(name)
	if id == 0 {
		return nil, fmt.Errorf("%w: %q", errs.ErrLabelNotFound, name)
	}

	return s.Get(id)
}

// Add interns name and returns its label id. An existing label gains a
// reference; otherwise a slot is allocated, the text record created, and
// the label indexed, with each step undone in LIFO order on failure.
func (s *LabelStore) Add(name string) (uint32, error) {
	label, err := s.GetByName(name)
	switch {
	case err == nil:
		label.AddRef()
		s.store.markDirty(label.ID, label)

		return label.ID, nil
	case !errors.Is(err, errs.ErrLabelNotFound):
		return 0, err
	}

	id, err := s.store.allocateID()
	if err != nil {
		return 0, err
	}
	label = record.NewLabel(id)

	textID, err := s.g.texts.Create(name)
	if err != nil {
		s.store.free(id, label)
		return 0, err
	}

	label.TextID = textID
	label.Refs = 1

	if err := s.g.indexes.AddLabelToIndex(id, name); err != nil {
		label.TextID = 0
		s.store.free(id, label)
		_ = s.g.texts.Delete(textID)

		return 0, err
	}

	s.store.markDirty(id, label)
	s.store.count++

	return id, nil
}

// Remove releases one reference to the label. At zero references the slot
// is marked not-in-use, the backing text record is deleted, the index
// entry removed, and the id pushed onto the free-list.
func (s *LabelStore) Remove(id uint32) error {
	label, err := s.Get(id)
	if err != nil {
		return err
	}

	label.RemoveRef()
	if label.HasRefs() {
		s.store.markDirty(id, label)
		return nil
	}

	textID := label.TextID
	label.TextID = 0
	if err := s.g.indexes.RemoveLabelFromIndex(id); err != nil {
		label.TextID = textID
		label.AddRef()
		return err
	}
	_ = s.g.texts.Delete(textID)

	s.store.free(id, label)
	s.store.count--

	return nil
}

// Text materializes the label's text value.
func (s *LabelStore) Text(id uint32) (string, error) {
	label, err := s.Get(id)
	if err != nil {
		return "", err
	}
	text, err := s.g.texts.Get(label.TextID)
	if err != nil {
		return "", err
	}

	return s.g.texts.Materialize(text)
}
