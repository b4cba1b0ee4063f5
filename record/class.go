// Package record defines the fixed-layout records the slot stores persist:
// class, label, vertex, edge, property, text, and index. Each record knows
// its own on-disk size and implements the Parse/Bytes codec pair; all
// integers are big-endian.
//
// A record's slot id is not part of its serialized form. It is assigned by
// the owning store before Parse is called; decoding a record whose id is
// still zero fails with the record-id-unset error.
package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// ClassSize is the on-disk size of a class record in bytes.
const ClassSize = 21

// Class is a node type in the graph's single-inheritance hierarchy.
//
// Classes form a rooted tree encoded by three links per record: the parent,
// the first child, and the next sibling under the same parent. The root is
// the reserved "Vertex" class with id 1; the hierarchy must stay acyclic
// and every sibling chain terminates at 0.
//
// A class is marked not-in-use by zeroing its label id. While a slot is on
// the free-list, the parent-id field aliases the link to the next free slot.
//
//	+----+----+----+----+----+----+----+----+----+----+----+----+
//	|label_id           | p_id    | fc_id   | ns_id   | fi_id   |
//	+----+----+----+----+----+----+----+----+----+----+----+----+
//	|count              | ab | incrementer       |
//	+----+----+----+----+----+----+----+----+----+
type Class struct {
	ID           uint16 // slot id, assigned by the class store
	LabelID      uint32 // byte offset 0-3, zero when the slot is free
	ParentID     uint16 // byte offset 4-5, aliases the free-list link
	FirstChildID uint16 // byte offset 6-7
	NextChildID  uint16 // byte offset 8-9, next sibling under the parent
	FirstIndexID uint16 // byte offset 10-11, zero for abstract classes
	Count        uint32 // byte offset 12-15, members of this exact class
	Abstract     bool   // byte offset 16
	Incrementer  uint32 // byte offset 17-20, per-class autoincrement
}

// NewClass creates an in-memory class with its slot id set and all other
// fields zero; the caller populates it before caching.
func NewClass(id uint16) *Class {
	return &Class{ID: id}
}

// Parse decodes the 21-byte slot image. The id must be set first.
func (c *Class) Parse(data []byte) error {
	if c.ID < 1 {
		return errs.ErrRecordIDUnset
	}

	engine := endian.Big()
	c.LabelID = engine.Uint32(data[0:4])
	c.ParentID = engine.Uint16(data[4:6])
	c.FirstChildID = engine.Uint16(data[6:8])
	c.NextChildID = engine.Uint16(data[8:10])
	c.FirstIndexID = engine.Uint16(data[10:12])
	c.Count = engine.Uint32(data[12:16])
	c.Abstract = data[16] != 0
	c.Incrementer = engine.Uint32(data[17:21])

	return nil
}

// Bytes serializes the class into its 21-byte slot image.
func (c *Class) Bytes() []byte {
	b := make([]byte, ClassSize)
	engine := endian.Big()

	engine.PutUint32(b[0:4], c.LabelID)
	engine.PutUint16(b[4:6], c.ParentID)
	engine.PutUint16(b[6:8], c.FirstChildID)
	engine.PutUint16(b[8:10], c.NextChildID)
	engine.PutUint16(b[10:12], c.FirstIndexID)
	engine.PutUint32(b[12:16], c.Count)
	if c.Abstract {
		b[16] = 1
	}
	engine.PutUint32(b[17:21], c.Incrementer)

	return b
}

// InUse reports whether the slot holds a live class.
func (c *Class) InUse() bool {
	return c.LabelID != 0
}

// HasChildren reports whether the class has at least one child class.
func (c *Class) HasChildren() bool {
	return c.FirstChildID != 0
}

// HasNextChild reports whether a later sibling follows this class.
func (c *Class) HasNextChild() bool {
	return c.NextChildID != 0
}

// HasMembers reports whether any vertices belong to this exact class.
func (c *Class) HasMembers() bool {
	return c.Count > 0
}

// Increment returns the current autoincrement value and advances it by one.
func (c *Class) Increment() uint32 {
	v := c.Incrementer
	c.Incrementer++

	return v
}
