package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// VertexSize is the on-disk size of a vertex record in bytes.
const VertexSize = 14

// Vertex is a data node belonging to exactly one non-abstract class. Its
// edges and properties hang off three intrusive list heads; the edge and
// property records carry the next links.
//
// A vertex is marked not-in-use by zeroing its class id; while the slot is
// free, the first-out field aliases the free-list link.
type Vertex struct {
	ID              uint32 // slot id, assigned by the vertex store
	ClassID         uint16 // byte offset 0-1, zero when the slot is free
	FirstOutID      uint32 // byte offset 2-5, aliases the free-list link
	FirstInID       uint32 // byte offset 6-9
	FirstPropertyID uint32 // byte offset 10-13
}

// NewVertex creates an in-memory vertex with its slot id set.
func NewVertex(id uint32) *Vertex {
	return &Vertex{ID: id}
}

// Parse decodes the 14-byte slot image. The id must be set first.
func (v *Vertex) Parse(data []byte) error {
	if v.ID < 1 {
		return errs.ErrRecordIDUnset
	}

	engine := endian.Big()
	v.ClassID = engine.Uint16(data[0:2])
	v.FirstOutID = engine.Uint32(data[2:6])
	v.FirstInID = engine.Uint32(data[6:10])
	v.FirstPropertyID = engine.Uint32(data[10:14])

	return nil
}

// Bytes serializes the vertex into its 14-byte slot image.
func (v *Vertex) Bytes() []byte {
	b := make([]byte, VertexSize)
	engine := endian.Big()

	engine.PutUint16(b[0:2], v.ClassID)
	engine.PutUint32(b[2:6], v.FirstOutID)
	engine.PutUint32(b[6:10], v.FirstInID)
	engine.PutUint32(b[10:14], v.FirstPropertyID)

	return b
}

// InUse reports whether the slot holds a live vertex.
func (v *Vertex) InUse() bool {
	return v.ClassID != 0
}

// HasOutEdges reports whether any edge starts at this vertex.
func (v *Vertex) HasOutEdges() bool {
	return v.FirstOutID != 0
}

// HasInEdges reports whether any edge ends at this vertex.
func (v *Vertex) HasInEdges() bool {
	return v.FirstInID != 0
}

// HasProperties reports whether the vertex carries any properties.
func (v *Vertex) HasProperties() bool {
	return v.FirstPropertyID != 0
}
