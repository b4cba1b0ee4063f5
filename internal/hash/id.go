package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. Used for bucketing names in
// the class and label indexes.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// ID32 computes the xxHash64 of a 32-bit id from its big-endian byte image.
// Used by the id set and entity map to spread sequential slot ids.
func ID32(id uint32) uint64 {
	var b [4]byte
	b[0] = byte(id >> 24)
	b[1] = byte(id >> 16)
	b[2] = byte(id >> 8)
	b[3] = byte(id)

	return xxhash.Sum64(b[:])
}
