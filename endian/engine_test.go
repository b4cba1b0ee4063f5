package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBig_RoundTrip(t *testing.T) {
	engine := Big()
	buf := make([]byte, 8)

	engine.PutUint16(buf[0:2], 0xBEEF)
	require.Equal(t, uint16(0xBEEF), engine.Uint16(buf[0:2]))
	require.Equal(t, []byte{0xBE, 0xEF}, buf[0:2])

	engine.PutUint32(buf[0:4], 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), engine.Uint32(buf[0:4]))
	require.Equal(t, byte(0xDE), buf[0])

	engine.PutUint64(buf, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))
	require.Equal(t, byte(0x01), buf[0])
	require.Equal(t, byte(0x08), buf[7])
}

func TestInt64_RoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64, -424242} {
		PutInt64(buf, v)
		require.Equal(t, v, Int64(buf))
	}

	// Negative values must use two's complement in the unsigned image.
	PutInt64(buf, -1)
	require.Equal(t, uint64(math.MaxUint64), binary.BigEndian.Uint64(buf))
}

func TestFloat64_RoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	for _, v := range []float64{0, 1.5, -273.15, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		PutFloat64(buf, v)
		require.Equal(t, v, Float64(buf))
	}

	PutFloat64(buf, math.NaN())
	require.True(t, math.IsNaN(Float64(buf)))
}

func TestHost_ConsistentWithIsHostBigEndian(t *testing.T) {
	if IsHostBigEndian() {
		require.Equal(t, binary.ByteOrder(binary.BigEndian), Host())
	} else {
		require.Equal(t, binary.ByteOrder(binary.LittleEndian), Host())
	}
}
