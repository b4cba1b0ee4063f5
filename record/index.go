package record

import "github.com/fabricdb/fabricdb/format"

// Index describes one redundant lookup structure owned by the index store.
// The payload behind each index lives in the store's persisted pages; the
// record itself only carries identity and type.
type Index struct {
	ID      uint16 // assigned by the index store
	Type    format.IndexType
	ClassID uint16 // owning class for per-class id indexes, else 0
}

// InUse reports whether the index slot is live.
func (i *Index) InUse() bool {
	return i.Type != format.IndexUnused
}
