package graph

import (
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/record"
)

const edgeStoreHeaderSize = 12

// EdgeStore manages the edge region. An edge names its type through an
// interned label and threads itself onto two intrusive lists: the
// from-vertex's outgoing list and the to-vertex's incoming list.
type EdgeStore struct {
	g     *Graph
	store slotStore[*record.Edge]
}

func newEdgeStore(g *Graph, offset, size uint32) *EdgeStore {
	s := &EdgeStore{g: g}
	s.store = slotStore[*record.Edge]{
		g:            g,
		offset:       offset,
		size:         size,
		headerSize:   edgeStoreHeaderSize,
		recordSize:   record.EdgeSize,
		counterWidth: 4,
		// The from-vertex field aliases the free-list link in a dead slot.
		linkOffset: 4,
		linkWidth:  4,
		errors: storeErrors{
			invalidID:   errs.ErrEdgeInvalidID,
			notFound:    errs.ErrEdgeNotFound,
			needsResize: errs.ErrEdgeStoreResize,
		},
		decode: func(id uint32, data []byte) (*record.Edge, error) {
			e := record.NewEdge(id)
			if err := e.Parse(data); err != nil {
				return nil, err
			}
			return e, nil
		},
		encode:      func(e *record.Edge) []byte { return e.Bytes() },
		freeLinkGet: func(e *record.Edge) uint32 { return e.FromID },
		freeLinkSet: func(e *record.Edge, next uint32) { e.FromID = next },
	}

	return s
}

func (s *EdgeStore) init(fresh bool) error {
	return s.store.init(fresh)
}

// Flush writes all dirty edges and the store counters back to the file.
func (s *EdgeStore) Flush() error {
	return s.store.flush()
}

// Count returns the number of live edges.
func (s *EdgeStore) Count() uint32 {
	return s.store.count
}

// Get returns the edge with the given id.
func (s *EdgeStore) Get(id uint32) (*record.Edge, error) {
	return s.store.get(id)
}

// Create adds a directed edge between two live vertices, interning the
// type label and linking the edge at the head of both endpoint lists.
func (s *EdgeStore) Create(label string, fromID, toID uint32) (*record.Edge, error) {
	from, err := s.g.vertices.Get(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.g.vertices.Get(toID)
	if err != nil {
		return nil, err
	}

	id, err := s.store.allocateID()
	if err != nil {
		return nil, err
	}
	e := record.NewEdge(id)

	labelID, err := s.g.labels.Add(label)
	if err != nil {
		s.store.free(id, e)
		return nil, err
	}

	e.LabelID = labelID
	e.FromID = fromID
	e.ToID = toID
	e.NextOutID = from.FirstOutID
	e.NextInID = to.FirstInID
	from.FirstOutID = id
	to.FirstInID = id

	s.g.vertices.store.markDirty(fromID, from)
	s.g.vertices.store.markDirty(toID, to)
	s.store.markDirty(id, e)
	s.store.count++

	return e, nil
}

// Delete removes an edge: both endpoint lists are spliced around it, the
// label reference released, and the slot freed.
func (s *EdgeStore) Delete(id uint32) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}

	from, err := s.g.vertices.Get(e.FromID)
	if err != nil {
		return err
	}
	to, err := s.g.vertices.Get(e.ToID)
	if err != nil {
		return err
	}

	if err := s.spliceOut(from, e); err != nil {
		return err
	}
	if err := s.spliceIn(to, e); err != nil {
		return err
	}
	s.g.vertices.store.markDirty(from.ID, from)
	s.g.vertices.store.markDirty(to.ID, to)

	if err := s.g.labels.Remove(e.LabelID); err != nil {
		return err
	}

	e.LabelID = 0
	s.store.free(id, e)
	s.store.count--

	return nil
}

// spliceOut removes e from the from-vertex's outgoing list.
func (s *EdgeStore) spliceOut(from *record.Vertex, e *record.Edge) error {
	if from.FirstOutID == e.ID {
		from.FirstOutID = e.NextOutID
		return nil
	}
	pred, err := s.Get(from.FirstOutID)
	if err != nil {
		return err
	}
	for pred.NextOutID != e.ID {
		pred, err = s.Get(pred.NextOutID)
		if err != nil {
			return err
		}
	}
	pred.NextOutID = e.NextOutID
	s.store.markDirty(pred.ID, pred)

	return nil
}

// spliceIn removes e from the to-vertex's incoming list.
func (s *EdgeStore) spliceIn(to *record.Vertex, e *record.Edge) error {
	if to.FirstInID == e.ID {
		to.FirstInID = e.NextInID
		return nil
	}
	pred, err := s.Get(to.FirstInID)
	if err != nil {
		return err
	}
	for pred.NextInID != e.ID {
		pred, err = s.Get(pred.NextInID)
		if err != nil {
			return err
		}
	}
	pred.NextInID = e.NextInID
	s.store.markDirty(pred.ID, pred)

	return nil
}

// Label returns the edge's type label.
func (s *EdgeStore) Label(e *record.Edge) (*record.Label, error) {
	return s.g.labels.Get(e.LabelID)
}

// From returns the edge's source vertex.
func (s *EdgeStore) From(e *record.Edge) (*record.Vertex, error) {
	return s.g.vertices.Get(e.FromID)
}

// To returns the edge's target vertex.
func (s *EdgeStore) To(e *record.Edge) (*record.Vertex, error) {
	return s.g.vertices.Get(e.ToID)
}
