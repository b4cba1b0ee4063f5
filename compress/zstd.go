package compress

// ZstdCompressor offers the best ratio of the supported codecs; its
// Compress/Decompress methods are provided by a cgo and a pure-Go build
// variant.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
