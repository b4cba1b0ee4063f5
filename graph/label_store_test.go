package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabricdb/fabricdb/errs"
)

// Refcount lifecycle: two adds, two removes, then the slot is reclaimed
// and the backing text deleted.
func TestLabelStore_RefcountLifecycle(t *testing.T) {
	g, _ := newTestGraph(t)

	id, err := g.Labels().Add("Person")
	require.NoError(t, err)
	again, err := g.Labels().Add("Person")
	require.NoError(t, err)
	require.Equal(t, id, again)

	label, err := g.Labels().Get(id)
	require.NoError(t, err)
	require.Equal(t, uint32(2), label.Refs)
	textID := label.TextID

	require.NoError(t, g.Labels().Remove(id))
	require.Equal(t, uint32(1), label.Refs)
	text, err := g.Texts().Get(textID)
	require.NoError(t, err)
	value, err := g.Texts().Materialize(text)
	require.NoError(t, err)
	require.Equal(t, "Person", value)

	require.NoError(t, g.Labels().Remove(id))
	require.False(t, label.InUse())
	require.Equal(t, id, g.Labels().store.nextFree)

	_, err = g.Labels().Get(id)
	require.ErrorIs(t, err, errs.ErrLabelNotFound)
	_, err = g.Labels().GetByName("Person")
	require.ErrorIs(t, err, errs.ErrLabelNotFound)
	_, err = g.Texts().Get(textID)
	require.ErrorIs(t, err, errs.ErrTextNotFound)
}

func TestLabelStore_InternSharedAcrossUses(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)

	person := mustCreateClass(t, g, root, "Person")
	a, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)
	b, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	// An edge type reusing the class name shares the interned label.
	e, err := g.Edges().Create("Person", a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, person.LabelID, e.LabelID)

	label, err := g.Labels().Get(person.LabelID)
	require.NoError(t, err)
	require.Equal(t, uint32(2), label.Refs)
}

func TestLabelStore_GetByName(t *testing.T) {
	g, path := newTestGraph(t)

	id, err := g.Labels().Add("knows")
	require.NoError(t, err)

	label, err := g.Labels().GetByName("knows")
	require.NoError(t, err)
	require.Equal(t, id, label.ID)

	value, err := g.Labels().Text(id)
	require.NoError(t, err)
	require.Equal(t, "knows", value)

	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)
	label2, err := g2.Labels().GetByName("knows")
	require.NoError(t, err)
	require.Equal(t, id, label2.ID)
}

// The refs field doubles as the free-list link, so freed labels chain
// through it and get reused LIFO.
func TestLabelStore_FreeListThroughRefsField(t *testing.T) {
	g, _ := newTestGraph(t)

	a, err := g.Labels().Add("a")
	require.NoError(t, err)
	b, err := g.Labels().Add("b")
	require.NoError(t, err)

	require.NoError(t, g.Labels().Remove(a))
	require.NoError(t, g.Labels().Remove(b))

	// Chain is b -> a -> bump.
	c, err := g.Labels().Add("c")
	require.NoError(t, err)
	require.Equal(t, b, c)
	d, err := g.Labels().Add("d")
	require.NoError(t, err)
	require.Equal(t, a, d)
}
