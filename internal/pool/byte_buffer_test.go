package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Extend(t *testing.T) {
	bb := GetRecordBuffer()
	defer PutRecordBuffer(bb)

	first := bb.Extend(21)
	require.Len(t, first, 21)
	require.Equal(t, 21, bb.Len())

	first[0] = 0xFF
	second := bb.Extend(8)
	require.Len(t, second, 8)
	require.Equal(t, 29, bb.Len())
	require.Equal(t, byte(0xFF), bb.Bytes()[0])

	// Extended region must arrive zeroed even after reuse.
	for _, b := range second {
		require.Zero(t, b)
	}
}

func TestByteBuffer_ResetKeepsCapacity(t *testing.T) {
	bb := &ByteBuffer{B: make([]byte, 0, 64)}
	bb.Extend(32)
	bb.Reset()

	require.Zero(t, bb.Len())
	require.Equal(t, 64, cap(bb.B))
}
