package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/format"
	"github.com/fabricdb/fabricdb/section"
)

func TestIndexStore_PresetIndexes(t *testing.T) {
	g, _ := newTestGraph(t)

	ci, err := g.Indexes().GetIndex(classIndexID)
	require.NoError(t, err)
	require.Equal(t, format.IndexClassName, ci.Type)

	li, err := g.Indexes().GetIndex(labelIndexID)
	require.NoError(t, err)
	require.Equal(t, format.IndexLabelText, li.Type)

	_, err = g.Indexes().GetIndex(99)
	require.ErrorIs(t, err, errs.ErrIndexNotFound)
}

func TestIndexStore_LookupReturnsZeroWhenAbsent(t *testing.T) {
	g, _ := newTestGraph(t)

	require.Zero(t, g.Indexes().ClassIndex().Lookup("NoSuchClass"))
	require.Zero(t, g.Indexes().LabelIndex().Lookup("no such label"))

	require.Equal(t, uint16(1), g.Indexes().ClassIndex().Lookup(RootClassName))
	require.Equal(t, uint32(1), g.Indexes().LabelIndex().Lookup(RootClassName))
}

func TestIndexStore_PersistedPagesRoundTrip(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			g, path := newTestGraph(t, WithIndexCompression(ct))
			root := rootClass(t, g)
			person := mustCreateClass(t, g, root, "Person")
			v, err := g.Vertices().Create(person.ID)
			require.NoError(t, err)

			require.NoError(t, g.Flush())
			require.NotZero(t, g.Header().IndexPageCount)

			g2 := reopen(t, g, path)
			require.Equal(t, person.ID, g2.Indexes().ClassIndex().Lookup("Person"))
			require.Equal(t, person.LabelID, g2.Indexes().LabelIndex().Lookup("Person"))

			person2, err := g2.Classes().GetByName("Person")
			require.NoError(t, err)
			ids, err := g2.Indexes().IDs(person2.FirstIndexID)
			require.NoError(t, err)
			require.Equal(t, []uint32{v.ID}, ids)
		})
	}
}

func TestIndexStore_RebuildWhenPagesMissing(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	v, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	// Flush the slot stores but force the page image away, as if the index
	// region had been lost: the open-time rebuild must recover everything.
	require.NoError(t, g.Flush())
	g.indexes.pageCount = 0
	g.header.IndexPageCount = 0
	require.NoError(t, g.writeUint32(0, section.IndexPageCountOffset))

	g2 := reopen(t, g, path)
	require.Equal(t, person.ID, g2.Indexes().ClassIndex().Lookup("Person"))

	person2, err := g2.Classes().GetByName("Person")
	require.NoError(t, err)
	ids, err := g2.Indexes().IDs(person2.FirstIndexID)
	require.NoError(t, err)
	require.Equal(t, []uint32{v.ID}, ids)
}

func TestIndexStore_IDIndexLifecycle(t *testing.T) {
	g, _ := newTestGraph(t)

	id, err := g.Indexes().CreateIDIndex(7)
	require.NoError(t, err)
	require.GreaterOrEqual(t, id, uint16(firstFreeIndexID))

	require.NoError(t, g.Indexes().IDIndexAdd(id, 11))
	require.NoError(t, g.Indexes().IDIndexAdd(id, 12))
	ids, err := g.Indexes().IDs(id)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{11, 12}, ids)

	require.NoError(t, g.Indexes().IDIndexRemove(id, 11))
	ids, err = g.Indexes().IDs(id)
	require.NoError(t, err)
	require.Equal(t, []uint32{12}, ids)

	require.NoError(t, g.Indexes().DeleteIDIndex(id))
	_, err = g.Indexes().IDs(id)
	require.ErrorIs(t, err, errs.ErrIndexInvalidID)

	// Freed index ids are reused.
	again, err := g.Indexes().CreateIDIndex(8)
	require.NoError(t, err)
	require.Equal(t, id, again)
}

func TestIndexStore_PresetIndexesNotDeletable(t *testing.T) {
	g, _ := newTestGraph(t)

	require.ErrorIs(t, g.Indexes().DeleteIDIndex(classIndexID), errs.ErrIndexInvalidID)
	require.ErrorIs(t, g.Indexes().DeleteIDIndex(labelIndexID), errs.ErrIndexInvalidID)
}
