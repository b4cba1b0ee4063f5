// Package section defines the fixed 84-byte header at the start of every
// graph file and the byte offsets of its fields.
//
// The header is the source of truth for the file's region geometry: each
// store's absolute offset is recorded here, and a store's size is the
// distance to the next region's offset. All integer fields are big-endian.
package section

import (
	"bytes"

	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// Field offsets within the header, in bytes from the start of the file.
const (
	SignatureOffset      = 0
	AppSignatureOffset   = 16
	FabricVersionOffset  = 32
	AppVersionOffset     = 36
	ChangeCounterOffset  = 40
	ClassStoreOffset     = 44
	LabelStoreOffset     = 48
	VertexStoreOffset    = 52
	EdgeStoreOffset      = 56
	PropertyStoreOffset  = 60
	TextStoreOffset      = 64
	TextBlockSizeOffset  = 68
	IndexStoreOffset     = 72
	IndexPageSizeOffset  = 76
	IndexPageCountOffset = 80

	// HeaderSize is the total size of the graph header.
	HeaderSize = 84
)

// Geometry defaults used when a new file is created.
const (
	// MinPageSize is the initial size of every store region.
	MinPageSize = 65536
	// DefaultTextBlockSize is the allocation unit of the text store.
	DefaultTextBlockSize = 32
	// DefaultIndexPageSize is the unit in which index pages are persisted.
	DefaultIndexPageSize = 65536
	// FabricVersion is the format version this library writes.
	FabricVersion = 1
)

// Signature identifies a fabricdb file; the first 16 header bytes must
// match it exactly.
var Signature = [16]byte{'f', 'a', 'b', 'r', 'i', 'c', 'd', 'b', ' ', 'v', '0', '.', '1', 0, 0, 0}

// Header is the in-memory image of the graph file header.
type Header struct {
	AppSignature   [16]byte // application-defined, caller-set
	FabricVersion  uint32
	AppVersion     uint32
	ChangeCounter  uint32 // bumped per successful flush, monotonic
	ClassOffset    uint32
	LabelOffset    uint32
	VertexOffset   uint32
	EdgeOffset     uint32
	PropertyOffset uint32
	TextOffset     uint32
	TextBlockSize  uint32
	IndexOffset    uint32
	IndexPageSize  uint32
	IndexPageCount uint32
}

// NewHeader returns a header for a freshly created file: regions are placed
// contiguously, the class store directly after the header and each later
// region one MinPageSize further.
func NewHeader() *Header {
	h := &Header{
		FabricVersion: FabricVersion,
		ChangeCounter: 1,
		ClassOffset:   HeaderSize,
		TextBlockSize: DefaultTextBlockSize,
		IndexPageSize: DefaultIndexPageSize,
	}
	h.LabelOffset = h.ClassOffset + MinPageSize
	h.VertexOffset = h.LabelOffset + MinPageSize
	h.EdgeOffset = h.VertexOffset + MinPageSize
	h.PropertyOffset = h.EdgeOffset + MinPageSize
	h.TextOffset = h.PropertyOffset + MinPageSize
	h.IndexOffset = h.TextOffset + MinPageSize

	return h
}

// Parse reads the header from data and validates the signature.
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 84 bytes,
//     ErrInvalidSignature if the fabric signature does not match
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if !bytes.Equal(data[SignatureOffset:SignatureOffset+16], Signature[:]) {
		return errs.ErrInvalidSignature
	}

	engine := endian.Big()
	copy(h.AppSignature[:], data[AppSignatureOffset:AppSignatureOffset+16])
	h.FabricVersion = engine.Uint32(data[FabricVersionOffset:])
	h.AppVersion = engine.Uint32(data[AppVersionOffset:])
	h.ChangeCounter = engine.Uint32(data[ChangeCounterOffset:])
	h.ClassOffset = engine.Uint32(data[ClassStoreOffset:])
	h.LabelOffset = engine.Uint32(data[LabelStoreOffset:])
	h.VertexOffset = engine.Uint32(data[VertexStoreOffset:])
	h.EdgeOffset = engine.Uint32(data[EdgeStoreOffset:])
	h.PropertyOffset = engine.Uint32(data[PropertyStoreOffset:])
	h.TextOffset = engine.Uint32(data[TextStoreOffset:])
	h.TextBlockSize = engine.Uint32(data[TextBlockSizeOffset:])
	h.IndexOffset = engine.Uint32(data[IndexStoreOffset:])
	h.IndexPageSize = engine.Uint32(data[IndexPageSizeOffset:])
	h.IndexPageCount = engine.Uint32(data[IndexPageCountOffset:])

	return nil
}

// Bytes serializes the header into its 84-byte on-disk form.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.Big()

	copy(b[SignatureOffset:], Signature[:])
	copy(b[AppSignatureOffset:], h.AppSignature[:])
	engine.PutUint32(b[FabricVersionOffset:], h.FabricVersion)
	engine.PutUint32(b[AppVersionOffset:], h.AppVersion)
	engine.PutUint32(b[ChangeCounterOffset:], h.ChangeCounter)
	engine.PutUint32(b[ClassStoreOffset:], h.ClassOffset)
	engine.PutUint32(b[LabelStoreOffset:], h.LabelOffset)
	engine.PutUint32(b[VertexStoreOffset:], h.VertexOffset)
	engine.PutUint32(b[EdgeStoreOffset:], h.EdgeOffset)
	engine.PutUint32(b[PropertyStoreOffset:], h.PropertyOffset)
	engine.PutUint32(b[TextStoreOffset:], h.TextOffset)
	engine.PutUint32(b[TextBlockSizeOffset:], h.TextBlockSize)
	engine.PutUint32(b[IndexStoreOffset:], h.IndexOffset)
	engine.PutUint32(b[IndexPageSizeOffset:], h.IndexPageSize)
	engine.PutUint32(b[IndexPageCountOffset:], h.IndexPageCount)

	return b
}
