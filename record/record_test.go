package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabel_RoundTrip(t *testing.T) {
	l := &Label{ID: 4, TextID: 77, Refs: 3}

	data := l.Bytes()
	require.Len(t, data, LabelSize)

	parsed := NewLabel(4)
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, *l, *parsed)
	require.True(t, parsed.InUse())
	require.True(t, parsed.HasRefs())
}

func TestLabel_RefLifecycle(t *testing.T) {
	l := &Label{ID: 1, TextID: 5}
	require.False(t, l.HasRefs())

	l.AddRef()
	l.AddRef()
	require.Equal(t, uint32(2), l.Refs)

	l.RemoveRef()
	require.Equal(t, uint32(1), l.Refs)
	require.True(t, l.HasRefs())
}

func TestVertex_RoundTrip(t *testing.T) {
	v := &Vertex{ID: 8, ClassID: 2, FirstOutID: 5, FirstInID: 6, FirstPropertyID: 7}

	parsed := NewVertex(8)
	require.NoError(t, parsed.Parse(v.Bytes()))
	require.Equal(t, *v, *parsed)
	require.True(t, parsed.InUse())
	require.True(t, parsed.HasOutEdges())
	require.True(t, parsed.HasInEdges())
	require.True(t, parsed.HasProperties())
}

func TestEdge_RoundTrip(t *testing.T) {
	e := &Edge{ID: 9, LabelID: 3, FromID: 1, ToID: 2, NextOutID: 4, NextInID: 5, FirstPropertyID: 6}

	data := e.Bytes()
	require.Len(t, data, EdgeSize)

	parsed := NewEdge(9)
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, *e, *parsed)
	require.True(t, parsed.HasNextOut())
	require.True(t, parsed.HasNextIn())
}

func TestText_SizeOnlyParse(t *testing.T) {
	original := &Text{ID: 5, Size: 11, Value: []byte("hello world")}

	data := original.Bytes()
	require.Len(t, data, TextHeaderSize+11)

	parsed := NewText(5)
	require.NoError(t, parsed.Parse(data[:TextHeaderSize]))
	require.Equal(t, uint32(11), parsed.Size)
	require.False(t, parsed.Loaded())

	parsed.Value = data[TextHeaderSize:]
	require.True(t, parsed.Loaded())
	require.Equal(t, "hello world", parsed.String())
}

func TestBlocksFor(t *testing.T) {
	// With 32-byte blocks the header leaves 28 payload bytes in the first
	// block.
	require.Equal(t, uint32(1), BlocksFor(0, 32))
	require.Equal(t, uint32(1), BlocksFor(28, 32))
	require.Equal(t, uint32(2), BlocksFor(29, 32))
	require.Equal(t, uint32(2), BlocksFor(60, 32))
	require.Equal(t, uint32(3), BlocksFor(61, 32))
}
