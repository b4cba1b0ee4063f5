package graph

import (
	"errors"
	"fmt"

	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/internal/collections"
	"github.com/fabricdb/fabricdb/record"
)

const classStoreHeaderSize = 6

// ClassStore manages the class region: creation, lookup by id or name,
// deletion, and persistence of classes, plus the invariants of the
// hierarchy they form. Label interning and the class-name index are kept
// in step with every mutation; a failed operation rolls its steps back in
// LIFO order so the visible state matches the pre-call state.
type ClassStore struct {
	g     *Graph
	store slotStore[*record.Class]
}

func newClassStore(g *Graph, offset, size uint32) *ClassStore {
	s := &ClassStore{g: g}
	s.store = slotStore[*record.Class]{
		g:            g,
		offset:       offset,
		size:         size,
		headerSize:   classStoreHeaderSize,
		recordSize:   record.ClassSize,
		counterWidth: 2,
		// The parent-id field aliases the free-list link in a dead slot.
		linkOffset: 4,
		linkWidth:  2,
		errors: storeErrors{
			invalidID:   errs.ErrClassInvalidID,
			notFound:    errs.ErrClassNotFound,
			needsResize: errs.ErrClassStoreResize,
		},
		decode: func(id uint32, data []byte) (*record.Class, error) {
			c := record.NewClass(uint16(id))
			if err := c.Parse(data); err != nil {
				return nil, err
			}
			return c, nil
		},
		encode:      func(c *record.Class) []byte { return c.Bytes() },
		freeLinkGet: func(c *record.Class) uint32 { return uint32(c.ParentID) },
		freeLinkSet: func(c *record.Class, next uint32) { c.ParentID = uint16(next) },
	}

	return s
}

func (s *ClassStore) init(fresh bool) error {
	return s.store.init(fresh)
}

// Flush writes all dirty classes and the store counters back to the file.
func (s *ClassStore) Flush() error {
	return s.store.flush()
}

// Count returns the number of live classes.
func (s *ClassStore) Count() uint32 {
	return s.store.count
}

// Get returns the class with the given id.
func (s *ClassStore) Get(id uint16) (*record.Class, error) {
	return s.store.get(uint32(id))
}

// GetByName resolves a class through the class-name index.
func (s *ClassStore) GetByName(name string) (*record.Class, error) {
	id := s.g.indexes.ClassIndex().Lookup(name)
	if id == 0 {
		return nil, fmt.Errorf("%w: %q", errs.ErrClassNotFound, name)
	}

	return s.Get(id)
}

// seedRoot creates the reserved root class during graph initialization.
// The root's parent field stays zero; traversal never follows it.
func (s *ClassStore) seedRoot() error {
	id, err := s.store.allocateID()
	if err != nil {
		return err
	}
	root := record.NewClass(uint16(id))

	labelID, err := s.g.labels.Add(RootClassName)
	if err != nil {
		return err
	}
	indexID, err := s.g.indexes.CreateIDIndex(root.ID)
	if err != nil {
		return err
	}

	root.LabelID = labelID
	root.FirstIndexID = indexID
	root.Incrementer = 1

	s.store.markDirty(id, root)
	if err := s.g.indexes.AddClassToIndex(root.ID, RootClassName); err != nil {
		return err
	}
	s.store.count++

	return nil
}

// Create adds a new class extending parent. The name must be unique across
// live classes; abstract classes get no per-class id index. Any failure
// reverses the completed steps in LIFO order and returns the allocated id
// to the free-list.
func (s *ClassStore) Create(parent *record.Class, name string, abstract bool) (*record.Class, error) {
	_, err := s.GetByName(name)
	if err == nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateClassName, name)
	}
	if !errors.Is(err, errs.ErrClassNotFound) {
		return nil, err
	}

	id, err := s.store.allocateID()
	if err != nil {
		return nil, err
	}
	c := record.NewClass(uint16(id))

	labelID, err := s.g.labels.Add(name)
	if err != nil {
		s.store.free(id, c)
		return nil, err
	}

	var indexID uint16
	if !abstract {
		indexID, err = s.g.indexes.CreateIDIndex(c.ID)
		if err != nil {
			_ = s.g.labels.Remove(labelID)
			s.store.free(id, c)
			return nil, err
		}
	}

	c.LabelID = labelID
	c.ParentID = parent.ID
	c.NextChildID = parent.FirstChildID
	c.FirstIndexID = indexID
	c.Incrementer = 1
	c.Abstract = abstract
	parent.FirstChildID = c.ID

	parentWasDirty := s.store.dirty.Has(uint32(parent.ID))
	s.store.markDirty(id, c)
	s.store.markDirty(uint32(parent.ID), parent)

	if err := s.g.indexes.AddClassToIndex(c.ID, name); err != nil {
		parent.FirstChildID = c.NextChildID
		if !parentWasDirty {
			s.store.dirty.Remove(uint32(parent.ID))
		}
		_ = s.g.labels.Remove(labelID)
		if !abstract {
			_ = s.g.indexes.DeleteIDIndex(indexID)
		}
		c.LabelID = 0
		s.store.free(id, c)

		return nil, err
	}

	s.store.count++

	return c, nil
}

// Delete removes a class from the store. Classes with child classes or
// members are rejected; the parent's child list is spliced around the
// deleted node, the name index entry and label reference are released, and
// the slot goes onto the free-list.
func (s *ClassStore) Delete(c *record.Class) error {
	if !c.InUse() {
		return nil
	}
	if c.HasChildren() {
		return errs.ErrClassHasChildren
	}
	if c.HasMembers() {
		return errs.ErrClassHasMembers
	}

	parent, err := s.Get(c.ParentID)
	if err != nil {
		return err
	}

	// Unlink from the parent's child list: either rewrite the list head or
	// splice the predecessor sibling past the deleted node.
	var pred *record.Class
	if parent.FirstChildID == c.ID {
		parent.FirstChildID = c.NextChildID
		s.store.markDirty(uint32(parent.ID), parent)
	} else {
		pred, err = s.Get(parent.FirstChildID)
		if err != nil {
			return err
		}
		for pred.NextChildID != c.ID {
			pred, err = s.Get(pred.NextChildID)
			if err != nil {
				return err
			}
		}
		pred.NextChildID = c.NextChildID
		s.store.markDirty(uint32(pred.ID), pred)
	}

	relink := func() {
		if pred == nil {
			parent.FirstChildID = c.ID
		} else {
			pred.NextChildID = c.ID
		}
	}

	name, err := s.Name(c)
	if err != nil {
		relink()
		return err
	}
	if err := s.g.indexes.RemoveClassFromIndex(c.ID); err != nil {
		relink()
		return err
	}

	labelID := c.LabelID
	if err := s.g.labels.Remove(labelID); err != nil {
		_ = s.g.indexes.AddClassToIndexIfNotExists(c.ID, name)
		relink()
		return err
	}

	if !c.Abstract && c.FirstIndexID != 0 {
		_ = s.g.indexes.DeleteIDIndex(c.FirstIndexID)
		c.FirstIndexID = 0
	}

	c.LabelID = 0
	s.store.free(uint32(c.ID), c)
	s.store.count--

	return nil
}

// Label returns the label record naming c.
func (s *ClassStore) Label(c *record.Class) (*record.Label, error) {
	return s.g.labels.Get(c.LabelID)
}

// Name returns the class's name, materialized from its label's text.
func (s *ClassStore) Name(c *record.Class) (string, error) {
	return s.g.labels.Text(c.LabelID)
}

// Parent returns c's parent class.
func (s *ClassStore) Parent(c *record.Class) (*record.Class, error) {
	return s.Get(c.ParentID)
}

// Children returns c's immediate child classes.
func (s *ClassStore) Children(c *record.Class) (*collections.List[*record.Class], error) {
	return s.Descendants(c, 1)
}

// Descendants walks the hierarchy below c in pre-order and returns the
// visited classes. A depth of 1 yields only direct children; zero or a
// negative depth removes the limit. The traversal runs on an explicit
// stack, so caller-controlled depths cannot exhaust the goroutine stack.
func (s *ClassStore) Descendants(c *record.Class, depth int) (*collections.List[*record.Class], error) {
	list := collections.NewList[*record.Class](0)
	if !c.HasChildren() {
		return list, nil
	}

	type frame struct {
		id    uint16
		depth int
	}
	stack := []frame{{id: c.FirstChildID, depth: 1}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, err := s.Get(f.id)
		if err != nil {
			return list, err
		}
		list.Append(node)

		// Sibling below child keeps the walk pre-order.
		if node.HasNextChild() {
			stack = append(stack, frame{id: node.NextChildID, depth: f.depth})
		}
		if node.HasChildren() && (depth <= 0 || f.depth < depth) {
			stack = append(stack, frame{id: node.FirstChildID, depth: f.depth + 1})
		}
	}

	return list, nil
}

// TotalCount returns the number of vertices belonging to c or any of its
// descendant classes.
func (s *ClassStore) TotalCount(c *record.Class) (uint32, error) {
	total := c.Count

	list, err := s.Descendants(c, 0)
	if err != nil {
		return 0, err
	}
	for i, n := 0, list.Count(); i < n; i++ {
		total += list.At(i).Count
	}

	return total, nil
}

// Increment returns the class's current autoincrement value and advances
// it, marking the class dirty.
func (s *ClassStore) Increment(id uint16) (uint32, error) {
	c, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	v := c.Increment()
	s.store.markDirty(uint32(id), c)

	return v, nil
}
