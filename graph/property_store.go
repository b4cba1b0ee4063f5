package graph

import (
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/format"
	"github.com/fabricdb/fabricdb/record"
)

const propertyStoreHeaderSize = 12

// PropertyStore manages the property region. A property's key is an
// interned label and its value lives in the record's typed payload; text
// values longer than eight bytes are delegated to the text store. New
// properties are prepended to their owner's chain; the owner-specific
// remove helpers splice the chain before the slot is freed.
type PropertyStore struct {
	g     *Graph
	store slotStore[*record.Property]
}

func newPropertyStore(g *Graph, offset, size uint32) *PropertyStore {
	s := &PropertyStore{g: g}
	s.store = slotStore[*record.Property]{
		g:            g,
		offset:       offset,
		size:         size,
		headerSize:   propertyStoreHeaderSize,
		recordSize:   record.PropertySize,
		counterWidth: 4,
		// The next-property field aliases the free-list link in a dead slot.
		linkOffset: 4,
		linkWidth:  4,
		errors: storeErrors{
			invalidID:   errs.ErrPropertyInvalidID,
			notFound:    errs.ErrPropertyNotFound,
			needsResize: errs.ErrPropertyStoreResize,
		},
		decode: func(id uint32, data []byte) (*record.Property, error) {
			p := record.NewProperty(id)
			if err := p.Parse(data); err != nil {
				return nil, err
			}
			return p, nil
		},
		encode:      func(p *record.Property) []byte { return p.Bytes() },
		freeLinkGet: func(p *record.Property) uint32 { return p.NextID },
		freeLinkSet: func(p *record.Property, next uint32) { p.NextID = next },
	}

	return s
}

func (s *PropertyStore) init(fresh bool) error {
	return s.store.init(fresh)
}

// Flush writes all dirty properties and the store counters back to the file.
func (s *PropertyStore) Flush() error {
	return s.store.flush()
}

// Count returns the number of live properties.
func (s *PropertyStore) Count() uint32 {
	return s.store.count
}

// Get returns the property with the given id.
func (s *PropertyStore) Get(id uint32) (*record.Property, error) {
	return s.store.get(id)
}

// CreateOnVertex adds a property with the given key to a vertex, prepended
// to its chain. The value starts as nothing; set it through the typed
// setters.
func (s *PropertyStore) CreateOnVertex(vertexID uint32, key string) (*record.Property, error) {
	v, err := s.g.vertices.Get(vertexID)
	if err != nil {
		return nil, err
	}

	p, err := s.create(key, v.FirstPropertyID)
	if err != nil {
		return nil, err
	}
	v.FirstPropertyID = p.ID
	s.g.vertices.store.markDirty(vertexID, v)

	return p, nil
}

// CreateOnEdge adds a property with the given key to an edge, prepended to
// its chain.
func (s *PropertyStore) CreateOnEdge(edgeID uint32, key string) (*record.Property, error) {
	e, err := s.g.edges.Get(edgeID)
	if err != nil {
		return nil, err
	}

	p, err := s.create(key, e.FirstPropertyID)
	if err != nil {
		return nil, err
	}
	e.FirstPropertyID = p.ID
	s.g.edges.store.markDirty(edgeID, e)

	return p, nil
}

func (s *PropertyStore) create(key string, next uint32) (*record.Property, error) {
	id, err := s.store.allocateID()
	if err != nil {
		return nil, err
	}
	p := record.NewProperty(id)

	labelID, err := s.g.labels.Add(key)
	if err != nil {
		s.store.free(id, p)
		return nil, err
	}

	p.LabelID = labelID
	p.NextID = next
	s.store.markDirty(id, p)
	s.store.count++

	return p, nil
}

// SetInteger stores a signed 64-bit value and marks the property dirty.
func (s *PropertyStore) SetInteger(p *record.Property, v int64) {
	s.clearText(p)
	p.SetInteger(v)
	s.store.markDirty(p.ID, p)
}

// SetReal stores an IEEE-754 double and marks the property dirty.
func (s *PropertyStore) SetReal(p *record.Property, v float64) {
	s.clearText(p)
	p.SetReal(v)
	s.store.markDirty(p.ID, p)
}

// SetBoolean stores a boolean and marks the property dirty.
func (s *PropertyStore) SetBoolean(p *record.Property, v bool) {
	s.clearText(p)
	p.SetBoolean(v)
	s.store.markDirty(p.ID, p)
}

// SetDatetime stores a unix timestamp and marks the property dirty.
func (s *PropertyStore) SetDatetime(p *record.Property, v int64) {
	s.clearText(p)
	p.SetDatetime(v)
	s.store.markDirty(p.ID, p)
}

// SetText stores a text value: up to eight bytes inline, longer values as
// a text-store record referenced by id.
func (s *PropertyStore) SetText(p *record.Property, v string) error {
	s.clearText(p)
	if len(v) <= 8 {
		p.SetShortText(v)
		s.store.markDirty(p.ID, p)

		return nil
	}

	textID, err := s.g.texts.Create(v)
	if err != nil {
		return err
	}
	p.SetTextID(textID)
	s.store.markDirty(p.ID, p)

	return nil
}

// Text materializes the property's text value, inline or from the text
// store.
func (s *PropertyStore) Text(p *record.Property) (string, error) {
	if p.Type.IsShortText() {
		return p.ShortText(), nil
	}
	if p.Type != format.TypeLongText {
		return "", errs.ErrStore
	}
	text, err := s.g.texts.Get(p.TextID())
	if err != nil {
		return "", err
	}

	return s.g.texts.Materialize(text)
}

// clearText releases the backing text record when a long-text value is
// being overwritten.
func (s *PropertyStore) clearText(p *record.Property) {
	if p.Type == format.TypeLongText {
		if textID := p.TextID(); textID != 0 {
			_ = s.g.texts.Delete(textID)
		}
	}
}

// RemoveFromVertex splices the property out of the vertex's chain and
// deletes it.
func (s *PropertyStore) RemoveFromVertex(vertexID, propertyID uint32) error {
	v, err := s.g.vertices.Get(vertexID)
	if err != nil {
		return err
	}
	p, err := s.Get(propertyID)
	if err != nil {
		return err
	}

	if v.FirstPropertyID == propertyID {
		v.FirstPropertyID = p.NextID
	} else {
		pred, err := s.Get(v.FirstPropertyID)
		if err != nil {
			return err
		}
		for pred.NextID != propertyID {
			pred, err = s.Get(pred.NextID)
			if err != nil {
				return err
			}
		}
		pred.NextID = p.NextID
		s.store.markDirty(pred.ID, pred)
	}
	s.g.vertices.store.markDirty(vertexID, v)

	return s.delete(p)
}

// RemoveFromEdge splices the property out of the edge's chain and deletes
// it.
func (s *PropertyStore) RemoveFromEdge(edgeID, propertyID uint32) error {
	e, err := s.g.edges.Get(edgeID)
	if err != nil {
		return err
	}
	p, err := s.Get(propertyID)
	if err != nil {
		return err
	}

	if e.FirstPropertyID == propertyID {
		e.FirstPropertyID = p.NextID
	} else {
		pred, err := s.Get(e.FirstPropertyID)
		if err != nil {
			return err
		}
		for pred.NextID != propertyID {
			pred, err = s.Get(pred.NextID)
			if err != nil {
				return err
			}
		}
		pred.NextID = p.NextID
		s.store.markDirty(pred.ID, pred)
	}
	s.g.edges.store.markDirty(edgeID, e)

	return s.delete(p)
}

// delete releases the property's label reference and backing text, marks
// the slot not-in-use, and pushes it onto the free-list. Callers must have
// unlinked it from its owner's chain first.
func (s *PropertyStore) delete(p *record.Property) error {
	s.clearText(p)
	if err := s.g.labels.Remove(p.LabelID); err != nil {
		return err
	}

	p.LabelID = 0
	p.Type = format.TypeNothing
	s.store.free(p.ID, p)
	s.store.count--

	return nil
}

// Label returns the property's key label.
func (s *PropertyStore) Label(p *record.Property) (*record.Label, error) {
	return s.g.labels.Get(p.LabelID)
}

// Next returns the next property in the owner's chain.
func (s *PropertyStore) Next(p *record.Property) (*record.Property, error) {
	return s.Get(p.NextID)
}
