// Package compress provides the codecs used when index pages are persisted
// to the graph file.
//
// Index pages are redundant — they can always be rebuilt from the slot
// stores — so compression here trades a little open-time CPU for smaller
// page regions. Page images are small (tens of kilobytes) and consist
// mostly of repeated id/hash pairs, which all three algorithms handle well;
// the default is no compression.
package compress

import (
	"fmt"

	"github.com/fabricdb/fabricdb/format"
)

// Compressor compresses one index page image.
//
// Memory management:
//   - The returned slice is newly allocated and owned by the caller
//     (except for the no-op codec, which passes data through).
//   - The input slice is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a page image produced by the matching Compressor.
// It validates the input format and fails on corrupted data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions; every implementation in this package is
// a stateless value that is safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// ForType returns the codec registered for the given compression tag.
func ForType(t format.CompressionType) (Codec, error) {
	switch t {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("unknown compression type 0x%02x", uint8(t))
	}
}
