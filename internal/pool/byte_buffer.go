package pool

import "sync"

// RecordBufferDefaultSize covers the largest fixed slot plus headroom for
// text block runs; buffers that grow past the threshold are dropped rather
// than pooled.
const (
	RecordBufferDefaultSize  = 256
	RecordBufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a reusable byte slice for reading record slots.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Extend grows the buffer by n zeroed bytes and returns the slice covering
// them.
func (bb *ByteBuffer) Extend(n int) []byte {
	start := len(bb.B)
	need := start + n
	if need > cap(bb.B) {
		grown := make([]byte, need, max(need, 2*cap(bb.B)))
		copy(grown, bb.B)
		bb.B = grown
	} else {
		bb.B = bb.B[:need]
		for i := start; i < need; i++ {
			bb.B[i] = 0
		}
	}

	return bb.B[start:need]
}

var recordBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, RecordBufferDefaultSize)}
	},
}

// GetRecordBuffer retrieves a reset buffer from the pool.
func GetRecordBuffer() *ByteBuffer {
	bb, _ := recordBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutRecordBuffer returns a buffer to the pool for reuse. Oversized buffers
// are discarded to keep the pool from pinning large allocations.
func PutRecordBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > RecordBufferMaxThreshold {
		return
	}
	recordBufferPool.Put(bb)
}
