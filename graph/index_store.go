package graph

import (
	"fmt"
	"sort"

	"github.com/fabricdb/fabricdb/compress"
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/format"
	"github.com/fabricdb/fabricdb/internal/collections"
	"github.com/fabricdb/fabricdb/internal/hash"
	"github.com/fabricdb/fabricdb/record"
	"github.com/fabricdb/fabricdb/section"
)

// Reserved ids of the preset indexes.
const (
	classIndexID     = 1
	labelIndexID     = 2
	edgeIndexID      = 3
	firstFreeIndexID = 4
)

const indexPageVersion = 1

// ClassIndex resolves class names to class ids. Names are bucketed by
// xxHash64; a lookup returning 0 means the name is not indexed.
type ClassIndex struct {
	byName map[uint64]uint16
	byID   map[uint16]uint64
}

// Lookup returns the id of the class with the given name, or 0.
func (ci *ClassIndex) Lookup(name string) uint16 {
	return ci.byName[hash.ID(name)]
}

// LabelIndex resolves label text to label ids.
type LabelIndex struct {
	byText map[uint64]uint32
	byID   map[uint32]uint64
}

// Lookup returns the id of the label with the given text, or 0.
func (li *LabelIndex) Lookup(text string) uint32 {
	return li.byText[hash.ID(text)]
}

// IndexStore owns the redundant lookup structures: the class-name index,
// the label-name index, and one id index per non-abstract class holding
// the ids of its member vertices.
//
// The indexes live in memory. On open they are restored from the persisted
// page image when one exists, else rebuilt by walking the slot stores; on
// flush they are serialized into the index region, optionally compressed.
// Losing the pages is harmless — the next open rebuilds.
type IndexStore struct {
	g           *Graph
	offset      uint32
	pageSize    uint32
	pageCount   uint32
	compression format.CompressionType

	classIndex ClassIndex
	labelIndex LabelIndex

	indexes map[uint16]*record.Index
	idSets  map[uint16]*collections.IDSet

	nextIndexID  uint16
	freeIndexIDs []uint16

	dirty bool
}

func newIndexStore(g *Graph, offset, pageSize, pageCount uint32, compression format.CompressionType) *IndexStore {
	return &IndexStore{
		g:           g,
		offset:      offset,
		pageSize:    pageSize,
		pageCount:   pageCount,
		compression: compression,
	}
}

func (s *IndexStore) init(fresh bool) error {
	s.reset()
	if fresh {
		return nil
	}

	if s.pageCount > 0 {
		if err := s.loadPages(); err == nil {
			return nil
		}
		// A page image that fails to load is stale or damaged; fall back
		// to rebuilding from the stores.
		s.reset()
	}

	return s.rebuild()
}

func (s *IndexStore) reset() {
	s.classIndex = ClassIndex{byName: make(map[uint64]uint16), byID: make(map[uint16]uint64)}
	s.labelIndex = LabelIndex{byText: make(map[uint64]uint32), byID: make(map[uint32]uint64)}
	s.indexes = map[uint16]*record.Index{
		classIndexID: {ID: classIndexID, Type: format.IndexClassName},
		labelIndexID: {ID: labelIndexID, Type: format.IndexLabelText},
		edgeIndexID:  {ID: edgeIndexID, Type: format.IndexEdge},
	}
	s.idSets = make(map[uint16]*collections.IDSet)
	s.nextIndexID = firstFreeIndexID
	s.freeIndexIDs = nil
	s.dirty = false
}

// rebuild repopulates every index by walking the slot stores' regions.
func (s *IndexStore) rebuild() error {
	// Classes: name entries plus the id-index records referenced by their
	// first-index fields.
	for id := uint32(1); id < s.g.classes.store.lastFree; id++ {
		c, err := s.g.classes.Get(uint16(id))
		if err != nil {
			continue
		}
		name, err := s.g.labels.Text(c.LabelID)
		if err != nil {
			return err
		}
		h := hash.ID(name)
		s.classIndex.byName[h] = c.ID
		s.classIndex.byID[c.ID] = h

		if c.FirstIndexID != 0 {
			s.indexes[c.FirstIndexID] = &record.Index{
				ID:      c.FirstIndexID,
				Type:    format.IndexClassIDs,
				ClassID: c.ID,
			}
			s.idSets[c.FirstIndexID] = collections.NewIDSet(0)
			if c.FirstIndexID >= s.nextIndexID {
				s.nextIndexID = c.FirstIndexID + 1
			}
		}
	}

	// Labels by text.
	for id := uint32(1); id < s.g.labels.store.lastFree; id++ {
		l, err := s.g.labels.Get(id)
		if err != nil {
			continue
		}
		text, err := s.g.labels.Text(l.ID)
		if err != nil {
			return err
		}
		h := hash.ID(text)
		s.labelIndex.byText[h] = l.ID
		s.labelIndex.byID[l.ID] = h
	}

	// Vertices into their class's id index.
	for id := uint32(1); id < s.g.vertices.store.lastFree; id++ {
		v, err := s.g.vertices.Get(id)
		if err != nil {
			continue
		}
		c, err := s.g.classes.Get(v.ClassID)
		if err != nil {
			return err
		}
		if set, ok := s.idSets[c.FirstIndexID]; ok {
			_ = set.Add(v.ID)
		}
	}

	return nil
}

// ClassIndex returns the class-name index.
func (s *IndexStore) ClassIndex() *ClassIndex { return &s.classIndex }

// LabelIndex returns the label-name index.
func (s *IndexStore) LabelIndex() *LabelIndex { return &s.labelIndex }

// GetIndex returns the index record with the given id.
func (s *IndexStore) GetIndex(id uint16) (*record.Index, error) {
	idx, ok := s.indexes[id]
	if !ok {
		return nil, errs.ErrIndexNotFound
	}

	return idx, nil
}

// AddClassToIndex adds a class's name entry. An existing entry for the
// same name is an index-store error.
func (s *IndexStore) AddClassToIndex(id uint16, name string) error {
	h := hash.ID(name)
	if _, taken := s.classIndex.byName[h]; taken {
		return fmt.Errorf("%w: class name %q already indexed", errs.ErrIndexStore, name)
	}
	s.classIndex.byName[h] = id
	s.classIndex.byID[id] = h
	s.dirty = true

	return nil
}

// AddClassToIndexIfNotExists adds a class's name entry unless one is
// already present. Used on rollback paths, where the entry may or may not
// have been removed yet.
func (s *IndexStore) AddClassToIndexIfNotExists(id uint16, name string) error {
	if _, ok := s.classIndex.byID[id]; ok {
		return nil
	}

	return s.AddClassToIndex(id, name)
}

// RemoveClassFromIndex drops a class's name entry.
func (s *IndexStore) RemoveClassFromIndex(id uint16) error {
	h, ok := s.classIndex.byID[id]
	if !ok {
		return nil
	}
	delete(s.classIndex.byID, id)
	delete(s.classIndex.byName, h)
	s.dirty = true

	return nil
}

// AddLabelToIndex adds a label's text entry.
func (s *IndexStore) AddLabelToIndex(id uint32, text string) error {
	h := hash.ID(text)
	if _, taken := s.labelIndex.byText[h]; taken {
		return fmt.Errorf("%w: label text %q already indexed", errs.ErrIndexStore, text)
	}
	s.labelIndex.byText[h] = id
	s.labelIndex.byID[id] = h
	s.dirty = true

	return nil
}

// RemoveLabelFromIndex drops a label's text entry.
func (s *IndexStore) RemoveLabelFromIndex(id uint32) error {
	h, ok := s.labelIndex.byID[id]
	if !ok {
		return nil
	}
	delete(s.labelIndex.byID, id)
	delete(s.labelIndex.byText, h)
	s.dirty = true

	return nil
}

// CreateIDIndex allocates a per-class id index and returns its id.
func (s *IndexStore) CreateIDIndex(classID uint16) (uint16, error) {
	var id uint16
	if n := len(s.freeIndexIDs); n > 0 {
		id = s.freeIndexIDs[n-1]
		s.freeIndexIDs = s.freeIndexIDs[:n-1]
	} else {
		id = s.nextIndexID
		s.nextIndexID++
	}

	s.indexes[id] = &record.Index{ID: id, Type: format.IndexClassIDs, ClassID: classID}
	s.idSets[id] = collections.NewIDSet(0)
	s.dirty = true

	return id, nil
}

// DeleteIDIndex releases a per-class id index.
func (s *IndexStore) DeleteIDIndex(id uint16) error {
	if _, ok := s.indexes[id]; !ok || id < firstFreeIndexID {
		return errs.ErrIndexInvalidID
	}
	delete(s.indexes, id)
	delete(s.idSets, id)
	s.freeIndexIDs = append(s.freeIndexIDs, id)
	s.dirty = true

	return nil
}

// IDIndexAdd records a vertex id in a class's id index.
func (s *IndexStore) IDIndexAdd(indexID uint16, vertexID uint32) error {
	set, ok := s.idSets[indexID]
	if !ok {
		return errs.ErrIndexInvalidID
	}
	if err := set.Add(vertexID); err != nil {
		return err
	}
	s.dirty = true

	return nil
}

// IDIndexRemove drops a vertex id from a class's id index.
func (s *IndexStore) IDIndexRemove(indexID uint16, vertexID uint32) error {
	set, ok := s.idSets[indexID]
	if !ok {
		return errs.ErrIndexInvalidID
	}
	set.Remove(vertexID)
	s.dirty = true

	return nil
}

// IDs snapshots the vertex ids held by an id index.
func (s *IndexStore) IDs(indexID uint16) ([]uint32, error) {
	set, ok := s.idSets[indexID]
	if !ok {
		return nil, errs.ErrIndexInvalidID
	}

	return set.ToArray(), nil
}

// Flush serializes the indexes into the page region when anything changed.
// The image is compressed with the configured codec and the header's page
// count updated to cover it. While a new file is being seeded the write is
// deferred — a fresh file carries no pages and the next open rebuilds.
func (s *IndexStore) Flush() error {
	if !s.dirty || s.g.initializing {
		return nil
	}

	raw := s.serialize()
	codec, err := compress.ForType(s.compression)
	if err != nil {
		return err
	}
	compressed, err := codec.Compress(raw)
	if err != nil {
		return err
	}

	image := make([]byte, 10+len(compressed))
	image[0] = indexPageVersion
	image[1] = byte(s.compression)
	engine := endian.Big()
	engine.PutUint32(image[2:6], uint32(len(raw)))
	engine.PutUint32(image[6:10], uint32(len(compressed)))
	copy(image[10:], compressed)

	if err := s.g.writeBytes(image, int64(s.offset)); err != nil {
		return err
	}

	s.pageCount = (uint32(len(image)) + s.pageSize - 1) / s.pageSize
	s.g.header.IndexPageCount = s.pageCount
	if err := s.g.writeUint32(s.pageCount, section.IndexPageCountOffset); err != nil {
		return err
	}

	s.dirty = false

	return s.g.noteFlush()
}

// loadPages restores the indexes from the persisted page image.
func (s *IndexStore) loadPages() error {
	head := make([]byte, 10)
	if err := s.g.readBytes(head, int64(s.offset)); err != nil {
		return err
	}
	if head[0] != indexPageVersion {
		return fmt.Errorf("%w: unknown index page version %d", errs.ErrIndexStore, head[0])
	}
	compression := format.CompressionType(head[1])
	engine := endian.Big()
	rawLen := engine.Uint32(head[2:6])
	compLen := engine.Uint32(head[6:10])

	compressed := make([]byte, compLen)
	if err := s.g.readBytes(compressed, int64(s.offset)+10); err != nil {
		return err
	}
	codec, err := compress.ForType(compression)
	if err != nil {
		return err
	}
	raw, err := codec.Decompress(compressed)
	if err != nil {
		return err
	}
	if uint32(len(raw)) != rawLen {
		return fmt.Errorf("%w: index page length mismatch", errs.ErrIndexStore)
	}
	s.compression = compression

	return s.deserialize(raw)
}

// serialize renders the indexes into a deterministic byte image: index
// records, class-name entries, label-text entries, then id-set payloads,
// each section sorted by id.
func (s *IndexStore) serialize() []byte {
	engine := endian.Big()
	buf := make([]byte, 0, 1024)

	buf = engine.AppendUint16(buf, s.nextIndexID)

	indexIDs := make([]uint16, 0, len(s.indexes))
	for id := range s.indexes {
		indexIDs = append(indexIDs, id)
	}
	sort.Slice(indexIDs, func(i, j int) bool { return indexIDs[i] < indexIDs[j] })

	buf = engine.AppendUint16(buf, uint16(len(indexIDs)))
	for _, id := range indexIDs {
		idx := s.indexes[id]
		buf = engine.AppendUint16(buf, idx.ID)
		buf = append(buf, byte(idx.Type))
		buf = engine.AppendUint16(buf, idx.ClassID)
	}

	classIDs := make([]uint16, 0, len(s.classIndex.byID))
	for id := range s.classIndex.byID {
		classIDs = append(classIDs, id)
	}
	sort.Slice(classIDs, func(i, j int) bool { return classIDs[i] < classIDs[j] })
	buf = engine.AppendUint32(buf, uint32(len(classIDs)))
	for _, id := range classIDs {
		buf = engine.AppendUint64(buf, s.classIndex.byID[id])
		buf = engine.AppendUint16(buf, id)
	}

	labelIDs := make([]uint32, 0, len(s.labelIndex.byID))
	for id := range s.labelIndex.byID {
		labelIDs = append(labelIDs, id)
	}
	sort.Slice(labelIDs, func(i, j int) bool { return labelIDs[i] < labelIDs[j] })
	buf = engine.AppendUint32(buf, uint32(len(labelIDs)))
	for _, id := range labelIDs {
		buf = engine.AppendUint64(buf, s.labelIndex.byID[id])
		buf = engine.AppendUint32(buf, id)
	}

	for _, id := range indexIDs {
		if s.indexes[id].Type != format.IndexClassIDs {
			continue
		}
		members := s.idSets[id].ToArray()
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		buf = engine.AppendUint16(buf, id)
		buf = engine.AppendUint32(buf, uint32(len(members)))
		for _, m := range members {
			buf = engine.AppendUint32(buf, m)
		}
	}

	return buf
}

// deserialize restores the indexes from a serialized image.
func (s *IndexStore) deserialize(raw []byte) error {
	engine := endian.Big()
	pos := 0
	need := func(n int) error {
		if pos+n > len(raw) {
			return fmt.Errorf("%w: truncated index page", errs.ErrIndexStore)
		}
		return nil
	}

	if err := need(4); err != nil {
		return err
	}
	s.nextIndexID = engine.Uint16(raw[pos:])
	numIndexes := int(engine.Uint16(raw[pos+2:]))
	pos += 4

	idIndexIDs := make([]uint16, 0, numIndexes)
	for i := 0; i < numIndexes; i++ {
		if err := need(5); err != nil {
			return err
		}
		idx := &record.Index{
			ID:      engine.Uint16(raw[pos:]),
			Type:    format.IndexType(raw[pos+2]),
			ClassID: engine.Uint16(raw[pos+3:]),
		}
		pos += 5
		s.indexes[idx.ID] = idx
		if idx.Type == format.IndexClassIDs {
			s.idSets[idx.ID] = collections.NewIDSet(0)
			idIndexIDs = append(idIndexIDs, idx.ID)
		}
	}

	if err := need(4); err != nil {
		return err
	}
	numClasses := int(engine.Uint32(raw[pos:]))
	pos += 4
	for i := 0; i < numClasses; i++ {
		if err := need(10); err != nil {
			return err
		}
		h := engine.Uint64(raw[pos:])
		id := engine.Uint16(raw[pos+8:])
		pos += 10
		s.classIndex.byName[h] = id
		s.classIndex.byID[id] = h
	}

	if err := need(4); err != nil {
		return err
	}
	numLabels := int(engine.Uint32(raw[pos:]))
	pos += 4
	for i := 0; i < numLabels; i++ {
		if err := need(12); err != nil {
			return err
		}
		h := engine.Uint64(raw[pos:])
		id := engine.Uint32(raw[pos+8:])
		pos += 12
		s.labelIndex.byText[h] = id
		s.labelIndex.byID[id] = h
	}

	for range idIndexIDs {
		if err := need(6); err != nil {
			return err
		}
		id := engine.Uint16(raw[pos:])
		n := int(engine.Uint32(raw[pos+2:]))
		pos += 6
		set, ok := s.idSets[id]
		if !ok {
			return fmt.Errorf("%w: id-set for unknown index %d", errs.ErrIndexStore, id)
		}
		for i := 0; i < n; i++ {
			if err := need(4); err != nil {
				return err
			}
			_ = set.Add(engine.Uint32(raw[pos:]))
			pos += 4
		}
	}

	return nil
}
