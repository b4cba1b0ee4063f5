package collections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	id uint32
}

func TestEntityMap_SetGetUnset(t *testing.T) {
	m := NewEntityMap[*testRecord](0)

	require.Nil(t, m.Get(1))
	require.False(t, m.Has(1))

	rec := &testRecord{id: 1}
	m.Set(1, rec)
	require.Same(t, rec, m.Get(1))
	require.True(t, m.Has(1))
	require.Equal(t, 1, m.Count())

	other := &testRecord{id: 1}
	m.Set(1, other) // overwrite keeps count stable
	require.Same(t, other, m.Get(1))
	require.Equal(t, 1, m.Count())

	m.Unset(1)
	require.Nil(t, m.Get(1))
	require.Equal(t, 0, m.Count())
	m.Unset(1) // absent key is a no-op
}

func TestEntityMap_RehashDropsTombstones(t *testing.T) {
	m := NewEntityMap[*testRecord](4)

	for id := uint32(1); id <= 8; id++ {
		m.Set(id, &testRecord{id: id})
	}
	for id := uint32(1); id <= 4; id++ {
		m.Unset(id)
	}
	require.Equal(t, 4, m.Count())

	// Grow enough to force at least one rehash past the removals.
	for id := uint32(100); id <= 160; id++ {
		m.Set(id, &testRecord{id: id})
	}

	for id := uint32(1); id <= 4; id++ {
		require.False(t, m.Has(id))
	}
	for id := uint32(5); id <= 8; id++ {
		require.Equal(t, id, m.Get(id).id)
	}
	for id := uint32(100); id <= 160; id++ {
		require.Equal(t, id, m.Get(id).id)
	}
}

func TestEntityMap_ProbeChainSurvivesUnset(t *testing.T) {
	m := NewEntityMap[*testRecord](32)

	for id := uint32(1); id <= 18; id++ {
		m.Set(id, &testRecord{id: id})
	}
	m.Unset(9)
	for id := uint32(1); id <= 18; id++ {
		if id == 9 {
			continue
		}
		require.True(t, m.Has(id), "id %d lost after unset", id)
	}
}
