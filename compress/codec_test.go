package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabricdb/fabricdb/format"
)

// pageImage builds a payload shaped like a persisted index page: long runs
// of repeated id/hash pairs.
func pageImage(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		buf.WriteByte(byte(i >> 8))
		buf.WriteByte(byte(i))
		buf.WriteString("classname")
	}

	return buf.Bytes()
}

func TestCodecs_RoundTrip(t *testing.T) {
	data := pageImage(2000)

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := ForType(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)

			if ct != format.CompressionNone {
				require.Less(t, len(compressed), len(data))
			}
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := ForType(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		restored, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}

func TestForType_Unknown(t *testing.T) {
	_, err := ForType(format.CompressionType(0xEE))
	require.Error(t, err)
}
