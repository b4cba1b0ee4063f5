package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; the compressor keeps
// internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor favors decompression speed, which matters on the open path
// where persisted index pages are read back.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// rawMarker flags a block stored uncompressed because CompressBlock found
// the input incompressible.
const rawMarker = 0x80

// Compress compresses the page image as a single LZ4 block, prefixed with
// the uncompressed size so Decompress can allocate exactly. Incompressible
// input is stored raw behind a marker bit in the prefix.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, 4+lz4.CompressBlockBound(len(data)))
	dst[0] = byte(len(data) >> 24)
	dst[1] = byte(len(data) >> 16)
	dst[2] = byte(len(data) >> 8)
	dst[3] = byte(len(data))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[4:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible; CompressBlock wrote nothing.
		dst[0] |= rawMarker
		n = copy(dst[4:], data)
	}

	return dst[:4+n], nil
}

// Decompress restores a block produced by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, errors.New("lz4: truncated size prefix")
	}

	size := int(data[0]&^rawMarker)<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if data[0]&rawMarker != 0 {
		if len(data)-4 != size {
			return nil, errors.New("lz4: raw block length mismatch")
		}
		dst := make([]byte, size)
		copy(dst, data[4:])

		return dst, nil
	}

	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[4:], dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}
