package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// LabelSize is the on-disk size of a label record in bytes.
const LabelSize = 8

// Label is an interned, refcounted string used as a class name, an edge
// type, or a property key. Interning keeps repeated text out of the other
// stores and gives every name an indexed 32-bit handle.
//
// The refcount is the number of live classes, edges, and properties naming
// the label. A label is marked not-in-use by zeroing its text id; while the
// slot is free, the refs field aliases the free-list link.
//
//	+----+----+----+----+----+----+----+----+
//	| text_id           | refs              |
//	+----+----+----+----+----+----+----+----+
type Label struct {
	ID     uint32 // slot id, assigned by the label store
	TextID uint32 // byte offset 0-3, zero when the slot is free
	Refs   uint32 // byte offset 4-7, aliases the free-list link
}

// NewLabel creates an in-memory label with its slot id set.
func NewLabel(id uint32) *Label {
	return &Label{ID: id}
}

// Parse decodes the 8-byte slot image. The id must be set first.
func (l *Label) Parse(data []byte) error {
	if l.ID < 1 {
		return errs.ErrRecordIDUnset
	}

	engine := endian.Big()
	l.TextID = engine.Uint32(data[0:4])
	l.Refs = engine.Uint32(data[4:8])

	return nil
}

// Bytes serializes the label into its 8-byte slot image.
func (l *Label) Bytes() []byte {
	b := make([]byte, LabelSize)
	engine := endian.Big()

	engine.PutUint32(b[0:4], l.TextID)
	engine.PutUint32(b[4:8], l.Refs)

	return b
}

// InUse reports whether the slot holds a live label.
func (l *Label) InUse() bool {
	return l.TextID != 0
}

// HasRefs reports whether any live entity still names this label.
func (l *Label) HasRefs() bool {
	return l.Refs > 0
}

// AddRef increments the reference count.
func (l *Label) AddRef() {
	l.Refs++
}

// RemoveRef decrements the reference count.
func (l *Label) RemoveRef() {
	l.Refs--
}
