package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
)

// TextHeaderSize is the size prefix stored before a text's payload.
const TextHeaderSize = 4

// Text is a variable-length string stored in fixed blocks of the text
// store. A text with payload size s occupies ceil((s+4)/B) contiguous
// blocks of B bytes; its id is the 1-based index of the first block.
//
// The value is loaded lazily: decoding a text from its 4-byte header sets
// only the size, which is enough for block accounting. No terminator is
// stored on disk; callers append one when materializing C-style strings.
type Text struct {
	ID    uint32 // 1-based first-block index, assigned by the text store
	Size  uint32 // payload size in bytes
	Value []byte // nil until materialized
}

// NewText creates an in-memory text with its id set.
func NewText(id uint32) *Text {
	return &Text{ID: id}
}

// Parse decodes the 4-byte size header. The id must be set first; the
// value stays unloaded.
func (t *Text) Parse(data []byte) error {
	if t.ID < 1 {
		return errs.ErrRecordIDUnset
	}
	t.Size = endian.Big().Uint32(data[0:4])
	t.Value = nil

	return nil
}

// Bytes serializes the size header followed by the payload.
func (t *Text) Bytes() []byte {
	b := make([]byte, TextHeaderSize+len(t.Value))
	endian.Big().PutUint32(b[0:4], t.Size)
	copy(b[TextHeaderSize:], t.Value)

	return b
}

// Loaded reports whether the value has been materialized.
func (t *Text) Loaded() bool {
	return t.Value != nil || t.Size == 0
}

// String returns the materialized value, or the empty string when the
// value has not been loaded.
func (t *Text) String() string {
	return string(t.Value)
}

// BlocksFor returns how many blocks of blockSize a text with the given
// payload size occupies, header included.
func BlocksFor(size, blockSize uint32) uint32 {
	return (size + TextHeaderSize + blockSize - 1) / blockSize
}
