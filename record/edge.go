package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// EdgeSize is the on-disk size of an edge record in bytes.
const EdgeSize = 24

// Edge is a directed, labeled connection between two live vertices. The
// next-out link threads the from-vertex's outgoing list and the next-in
// link threads the to-vertex's incoming list.
//
// An edge is marked not-in-use by zeroing its label id; while the slot is
// free, the from-vertex field aliases the free-list link.
type Edge struct {
	ID              uint32 // slot id, assigned by the edge store
	LabelID         uint32 // byte offset 0-3, zero when the slot is free
	FromID          uint32 // byte offset 4-7, aliases the free-list link
	ToID            uint32 // byte offset 8-11
	NextOutID       uint32 // byte offset 12-15
	NextInID        uint32 // byte offset 16-19
	FirstPropertyID uint32 // byte offset 20-23
}

// NewEdge creates an in-memory edge with its slot id set.
func NewEdge(id uint32) *Edge {
	return &Edge{ID: id}
}

// Parse decodes the 24-byte slot image. The id must be set first.
func (e *Edge) Parse(data []byte) error {
	if e.ID < 1 {
		return errs.ErrRecordIDUnset
	}

	engine := endian.Big()
	e.LabelID = engine.Uint32(data[0:4])
	e.FromID = engine.Uint32(data[4:8])
	e.ToID = engine.Uint32(data[8:12])
	e.NextOutID = engine.Uint32(data[12:16])
	e.NextInID = engine.Uint32(data[16:20])
	e.FirstPropertyID = engine.Uint32(data[20:24])

	return nil
}

// Bytes serializes the edge into its 24-byte slot image.
func (e *Edge) Bytes() []byte {
	b := make([]byte, EdgeSize)
	engine := endian.Big()

	engine.PutUint32(b[0:4], e.LabelID)
	engine.PutUint32(b[4:8], e.FromID)
	engine.PutUint32(b[8:12], e.ToID)
	engine.PutUint32(b[12:16], e.NextOutID)
	engine.PutUint32(b[16:20], e.NextInID)
	engine.PutUint32(b[20:24], e.FirstPropertyID)

	return b
}

// InUse reports whether the slot holds a live edge.
func (e *Edge) InUse() bool {
	return e.LabelID != 0
}

// HasNextOut reports whether another edge follows in the from-vertex's
// outgoing list.
func (e *Edge) HasNextOut() bool {
	return e.NextOutID != 0
}

// HasNextIn reports whether another edge follows in the to-vertex's
// incoming list.
func (e *Edge) HasNextIn() bool {
	return e.NextInID != 0
}

// HasProperties reports whether the edge carries any properties.
func (e *Edge) HasProperties() bool {
	return e.FirstPropertyID != 0
}
