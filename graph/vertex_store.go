package graph

import (
	"fmt"

	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/record"
)

const vertexStoreHeaderSize = 12

// VertexStore manages the vertex region. Every vertex belongs to a live,
// non-abstract class; the class's member count and per-class id index are
// kept in step with creation and deletion.
type VertexStore struct {
	g     *Graph
	store slotStore[*record.Vertex]
}

func newVertexStore(g *Graph, offset, size uint32) *VertexStore {
	s := &VertexStore{g: g}
	s.store = slotStore[*record.Vertex]{
		g:            g,
		offset:       offset,
		size:         size,
		headerSize:   vertexStoreHeaderSize,
		recordSize:   record.VertexSize,
		counterWidth: 4,
		// The first-out field aliases the free-list link in a dead slot.
		linkOffset: 2,
		linkWidth:  4,
		errors: storeErrors{
			invalidID:   errs.ErrVertexInvalidID,
			notFound:    errs.ErrVertexNotFound,
			needsResize: errs.ErrVertexStoreResize,
		},
		decode: func(id uint32, data []byte) (*record.Vertex, error) {
			v := record.NewVertex(id)
			if err := v.Parse(data); err != nil {
				return nil, err
			}
			return v, nil
		},
		encode:      func(v *record.Vertex) []byte { return v.Bytes() },
		freeLinkGet: func(v *record.Vertex) uint32 { return v.FirstOutID },
		freeLinkSet: func(v *record.Vertex, next uint32) { v.FirstOutID = next },
	}

	return s
}

func (s *VertexStore) init(fresh bool) error {
	return s.store.init(fresh)
}

// Flush writes all dirty vertices and the store counters back to the file.
func (s *VertexStore) Flush() error {
	return s.store.flush()
}

// Count returns the number of live vertices.
func (s *VertexStore) Count() uint32 {
	return s.store.count
}

// Get returns the vertex with the given id.
func (s *VertexStore) Get(id uint32) (*record.Vertex, error) {
	return s.store.get(id)
}

// Create adds a vertex of the given class. The class must be live and
// non-abstract; its member count and id index are updated.
func (s *VertexStore) Create(classID uint16) (*record.Vertex, error) {
	c, err := s.g.classes.Get(classID)
	if err != nil {
		return nil, err
	}
	if c.Abstract {
		return nil, fmt.Errorf("%w: %d", errs.ErrClassAbstract, classID)
	}

	id, err := s.store.allocateID()
	if err != nil {
		return nil, err
	}
	v := record.NewVertex(id)

	if err := s.g.indexes.IDIndexAdd(c.FirstIndexID, id); err != nil {
		s.store.free(id, v)
		return nil, err
	}

	v.ClassID = classID
	c.Count++
	s.g.classes.store.markDirty(uint32(classID), c)
	s.store.markDirty(id, v)
	s.store.count++

	return v, nil
}

// Delete removes a vertex. Vertices that still have edges or properties
// are rejected; a full delete unlinks those first.
func (s *VertexStore) Delete(id uint32) error {
	v, err := s.Get(id)
	if err != nil {
		return err
	}
	if v.HasOutEdges() || v.HasInEdges() {
		return fmt.Errorf("%w: vertex %d has edges", errs.ErrStore, id)
	}
	if v.HasProperties() {
		return fmt.Errorf("%w: vertex %d has properties", errs.ErrStore, id)
	}

	c, err := s.g.classes.Get(v.ClassID)
	if err != nil {
		return err
	}
	if err := s.g.indexes.IDIndexRemove(c.FirstIndexID, id); err != nil {
		return err
	}

	c.Count--
	s.g.classes.store.markDirty(uint32(c.ID), c)

	v.ClassID = 0
	s.store.free(id, v)
	s.store.count--

	return nil
}

// Class returns the vertex's class.
func (s *VertexStore) Class(v *record.Vertex) (*record.Class, error) {
	return s.g.classes.Get(v.ClassID)
}

// FirstOutEdge returns the head of the vertex's outgoing edge list.
func (s *VertexStore) FirstOutEdge(v *record.Vertex) (*record.Edge, error) {
	return s.g.edges.Get(v.FirstOutID)
}

// FirstInEdge returns the head of the vertex's incoming edge list.
func (s *VertexStore) FirstInEdge(v *record.Vertex) (*record.Edge, error) {
	return s.g.edges.Get(v.FirstInID)
}

// FirstProperty returns the head of the vertex's property chain.
func (s *VertexStore) FirstProperty(v *record.Vertex) (*record.Property, error) {
	return s.g.properties.Get(v.FirstPropertyID)
}
