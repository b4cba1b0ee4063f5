package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabricdb/fabricdb/errs"
)

func TestClassStore_CreateAndLookup(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)

	person, err := g.Classes().Create(root, "Person", false)
	require.NoError(t, err)
	require.True(t, person.InUse())
	require.Equal(t, root.ID, person.ParentID)
	require.Equal(t, uint32(0), person.Count)
	require.Equal(t, uint32(1), person.Incrementer)
	require.False(t, person.Abstract)
	require.NotZero(t, person.FirstIndexID)

	// The parent's child list now starts at the new class.
	require.Equal(t, person.ID, root.FirstChildID)

	byName, err := g.Classes().GetByName("Person")
	require.NoError(t, err)
	require.Same(t, person, byName)

	name, err := g.Classes().Name(person)
	require.NoError(t, err)
	require.Equal(t, "Person", name)

	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)
	reloaded, err := g2.Classes().GetByName("Person")
	require.NoError(t, err)
	require.Equal(t, person.ID, reloaded.ID)
	require.Equal(t, root.ID, reloaded.ParentID)
}

func TestClassStore_DuplicateName(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	mustCreateClass(t, g, root, "Person")

	_, err := g.Classes().Create(root, "Person", false)
	require.ErrorIs(t, err, errs.ErrDuplicateClassName)

	// The reserved root name is taken too.
	_, err = g.Classes().Create(root, RootClassName, false)
	require.ErrorIs(t, err, errs.ErrDuplicateClassName)
}

func TestClassStore_AbstractClass(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	shape, err := g.Classes().Create(root, "Shape", true)
	require.NoError(t, err)
	require.True(t, shape.Abstract)
	// Abstract classes carry no id index.
	require.Zero(t, shape.FirstIndexID)

	_, err = g.Vertices().Create(shape.ID)
	require.ErrorIs(t, err, errs.ErrClassAbstract)
}

func TestClassStore_SiblingChainWiring(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b := mustCreateClass(t, g, root, "B")
	c := mustCreateClass(t, g, root, "C")

	// Children are prepended: the chain runs newest to oldest and ends at 0.
	require.Equal(t, c.ID, root.FirstChildID)
	require.Equal(t, b.ID, c.NextChildID)
	require.Equal(t, a.ID, b.NextChildID)
	require.Equal(t, uint16(0), a.NextChildID)
}

func TestClassStore_DeleteWithChildrenRejected(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b, err := g.Classes().Create(a, "B", false)
	require.NoError(t, err)
	_, err = g.Classes().Create(a, "C", false)
	require.NoError(t, err)

	err = g.Classes().Delete(a)
	require.ErrorIs(t, err, errs.ErrClassHasChildren)

	// The hierarchy is unchanged.
	require.Equal(t, a.ID, root.FirstChildID)
	require.True(t, a.InUse())
	kids, err := g.Classes().Children(a)
	require.NoError(t, err)
	require.Equal(t, 2, kids.Count())
	_ = b
}

func TestClassStore_DeleteWithMembersRejected(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	person := mustCreateClass(t, g, root, "Person")
	_, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	err = g.Classes().Delete(person)
	require.ErrorIs(t, err, errs.ErrClassHasMembers)
	require.True(t, person.InUse())
}

func TestClassStore_DeleteFirstChild(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b := mustCreateClass(t, g, root, "B")

	// B is the list head; deleting it rewrites the parent's first-child.
	require.NoError(t, g.Classes().Delete(b))
	require.Equal(t, a.ID, root.FirstChildID)
	require.False(t, b.InUse())

	_, err := g.Classes().GetByName("B")
	require.ErrorIs(t, err, errs.ErrClassNotFound)
}

func TestClassStore_DeleteMidChainSplices(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b := mustCreateClass(t, g, root, "B")
	c := mustCreateClass(t, g, root, "C")

	// Chain is C -> B -> A; deleting B must splice C past it, not clobber.
	require.NoError(t, g.Classes().Delete(b))
	require.Equal(t, c.ID, root.FirstChildID)
	require.Equal(t, a.ID, c.NextChildID)
	require.Equal(t, uint16(0), a.NextChildID)

	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)
	root2 := rootClass(t, g2)
	kids, err := g2.Classes().Children(root2)
	require.NoError(t, err)
	require.Equal(t, 2, kids.Count())
}

func TestClassStore_DeleteReleasesNameAndLabel(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	labelID := a.LabelID

	require.NoError(t, g.Classes().Delete(a))

	_, err := g.Classes().GetByName("A")
	require.ErrorIs(t, err, errs.ErrClassNotFound)
	_, err = g.Labels().Get(labelID)
	require.ErrorIs(t, err, errs.ErrLabelNotFound)

	// The name can be taken again by a new class.
	a2 := mustCreateClass(t, g, root, "A")
	require.True(t, a2.InUse())
}

func TestClassStore_Descendants(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	// root -> A -> (B -> D, C)
	a := mustCreateClass(t, g, root, "A")
	b, err := g.Classes().Create(a, "B", false)
	require.NoError(t, err)
	c, err := g.Classes().Create(a, "C", false)
	require.NoError(t, err)
	d, err := g.Classes().Create(b, "D", false)
	require.NoError(t, err)

	names := func(depth int) []string {
		list, err := g.Classes().Descendants(a, depth)
		require.NoError(t, err)
		out := make([]string, 0, list.Count())
		for i := 0; i < list.Count(); i++ {
			n, err := g.Classes().Name(list.At(i))
			require.NoError(t, err)
			out = append(out, n)
		}
		return out
	}

	// Direct children only, newest first.
	require.Equal(t, []string{"C", "B"}, names(1))
	// Unlimited depth, pre-order.
	require.Equal(t, []string{"C", "B", "D"}, names(0))

	kids, err := g.Classes().Children(root)
	require.NoError(t, err)
	require.Equal(t, 1, kids.Count())
	_ = c
	_ = d
}

func TestClassStore_TotalCount(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b, err := g.Classes().Create(a, "B", false)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := g.Vertices().Create(a.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := g.Vertices().Create(b.ID)
		require.NoError(t, err)
	}

	require.Equal(t, uint32(3), a.Count)
	require.Equal(t, uint32(2), b.Count)

	total, err := g.Classes().TotalCount(a)
	require.NoError(t, err)
	require.Equal(t, uint32(5), total)

	total, err = g.Classes().TotalCount(root)
	require.NoError(t, err)
	require.Equal(t, uint32(5), total)
}

func TestClassStore_Autoincrement(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")

	v, err := g.Classes().Increment(a.ID)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)
	v, err = g.Classes().Increment(a.ID)
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)

	// The bumped value persists.
	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)
	a2, err := g2.Classes().GetByName("A")
	require.NoError(t, err)
	v, err = g2.Classes().Increment(a2.ID)
	require.NoError(t, err)
	require.Equal(t, uint32(3), v)
}

func TestClassStore_HierarchyAcyclic(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	a := mustCreateClass(t, g, root, "A")
	b, err := g.Classes().Create(a, "B", false)
	require.NoError(t, err)
	c, err := g.Classes().Create(b, "C", false)
	require.NoError(t, err)

	// Following parent links terminates at the root in at most N steps.
	live := int(g.Classes().Count())
	node := c
	steps := 0
	for node.ID != 1 {
		require.Less(t, steps, live)
		node, err = g.Classes().Parent(node)
		require.NoError(t, err)
		steps++
	}
}
