// Package graph implements the storage engine: a single-file persistent
// store for a typed property graph.
//
// A Graph owns one backing file laid out as an 84-byte header followed by
// seven contiguous regions, one per store: class, label, vertex, edge,
// property, text, and index. Each slot store manages allocation, a
// free-list threaded through dead records, a write-back cache with a dirty
// set, and flush of its region; the graph provides the positional I/O
// surface they share and the change counter clients use for cache
// validation.
//
// A Graph and its stores are exclusively owned by one goroutine at a time;
// sharing requires external mutual exclusion. Every I/O is positional, so
// no store holds a file position across calls.
package graph

import (
	"fmt"
	"io"
	"os"

	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/section"
)

// RootClassName is the name of the reserved root class with id 1. Every
// other class is one of its descendants.
const RootClassName = "Vertex"

// Graph is an open graph file together with its stores.
type Graph struct {
	file   *os.File
	header section.Header

	// initializing suppresses change-counter bumps while a new file is
	// being seeded; the counter starts at 1 and moves only on later
	// flushes.
	initializing bool

	classes    *ClassStore
	labels     *LabelStore
	vertices   *VertexStore
	edges      *EdgeStore
	properties *PropertyStore
	texts      *TextStore
	indexes    *IndexStore
}

// Create creates a new graph file at path, writes its header, seeds the
// root class, and returns the open graph. It fails if the file exists.
func Create(path string, opts ...Option) (*Graph, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}

	h := section.NewHeader()
	h.AppSignature = cfg.appSignature
	h.AppVersion = cfg.appVersion
	h.TextBlockSize = cfg.textBlockSize
	h.IndexPageSize = cfg.indexPageSize

	g := &Graph{file: file, header: *h, initializing: true}

	// Extend the file through the last fixed region so slots that were
	// never written read back as zeros.
	if err := file.Truncate(int64(h.IndexOffset)); err != nil {
		file.Close()
		return nil, err
	}
	if err := g.writeHeader(); err != nil {
		file.Close()
		return nil, err
	}

	if err := g.initStores(true, cfg); err != nil {
		file.Close()
		return nil, err
	}
	if err := g.classes.seedRoot(); err != nil {
		file.Close()
		return nil, err
	}
	if err := g.Flush(); err != nil {
		file.Close()
		return nil, err
	}
	g.initializing = false

	return g, nil
}

// Open loads an existing graph file, validates its signature, and
// initializes every store from the header's region geometry.
func Open(path string, opts ...Option) (*Graph, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	g := &Graph{file: file}

	buf := make([]byte, section.HeaderSize)
	if err := g.readBytes(buf, 0); err != nil {
		file.Close()
		return nil, err
	}
	if err := g.header.Parse(buf); err != nil {
		file.Close()
		return nil, err
	}

	if err := g.initStores(false, cfg); err != nil {
		file.Close()
		return nil, err
	}

	return g, nil
}

// initStores wires up every store from the header geometry. Each store's
// size is the distance to the next region's offset. The index store comes
// last because it materializes itself from the others.
func (g *Graph) initStores(fresh bool, cfg config) error {
	h := &g.header

	g.classes = newClassStore(g, h.ClassOffset, h.LabelOffset-h.ClassOffset)
	g.labels = newLabelStore(g, h.LabelOffset, h.VertexOffset-h.LabelOffset)
	g.vertices = newVertexStore(g, h.VertexOffset, h.EdgeOffset-h.VertexOffset)
	g.edges = newEdgeStore(g, h.EdgeOffset, h.PropertyOffset-h.EdgeOffset)
	g.properties = newPropertyStore(g, h.PropertyOffset, h.TextOffset-h.PropertyOffset)
	g.texts = newTextStore(g, h.TextOffset, h.IndexOffset-h.TextOffset, h.TextBlockSize)
	g.indexes = newIndexStore(g, h.IndexOffset, h.IndexPageSize, h.IndexPageCount, cfg.indexCompression)

	for _, init := range []func(bool) error{
		g.classes.init,
		g.labels.init,
		g.vertices.init,
		g.edges.init,
		g.properties.init,
		g.texts.init,
		g.indexes.init,
	} {
		if err := init(fresh); err != nil {
			return err
		}
	}

	return nil
}

// Flush writes every store's pending changes back to the file. A
// needs-resize error from one store aborts the sequence; already-flushed
// stores stay flushed, and the failing store's dirty set is intact for a
// retry.
func (g *Graph) Flush() error {
	for _, flush := range []func() error{
		g.classes.Flush,
		g.labels.Flush,
		g.vertices.Flush,
		g.edges.Flush,
		g.properties.Flush,
		g.texts.Flush,
		g.indexes.Flush,
	} {
		if err := flush(); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the backing file. Pending changes are not flushed.
func (g *Graph) Close() error {
	return g.file.Close()
}

// Classes returns the class store.
func (g *Graph) Classes() *ClassStore { return g.classes }

// Labels returns the label store.
func (g *Graph) Labels() *LabelStore { return g.labels }

// Vertices returns the vertex store.
func (g *Graph) Vertices() *VertexStore { return g.vertices }

// Edges returns the edge store.
func (g *Graph) Edges() *EdgeStore { return g.edges }

// Properties returns the property store.
func (g *Graph) Properties() *PropertyStore { return g.properties }

// Texts returns the text store.
func (g *Graph) Texts() *TextStore { return g.texts }

// Indexes returns the index store.
func (g *Graph) Indexes() *IndexStore { return g.indexes }

// Header returns a copy of the current header.
func (g *Graph) Header() section.Header { return g.header }

// ChangeCounter returns the header's change counter. It moves on every
// successful flush that wrote data, so clients can use it to invalidate
// external caches.
func (g *Graph) ChangeCounter() uint32 { return g.header.ChangeCounter }

// DumpHeader writes a human-readable rendering of the header to w.
func (g *Graph) DumpHeader(w io.Writer) {
	h := &g.header
	fmt.Fprintf(w, "Fabric Header String: %s\n", trimNul(section.Signature[:]))
	fmt.Fprintf(w, "Application Header String: %s\n", trimNul(h.AppSignature[:]))
	fmt.Fprintf(w, "Fabric Version Number: %d\n", h.FabricVersion)
	fmt.Fprintf(w, "Application Version Number: %d\n", h.AppVersion)
	fmt.Fprintf(w, "File Change Counter: %d\n", h.ChangeCounter)
	fmt.Fprintf(w, "Class Store Offset: %d\n", h.ClassOffset)
	fmt.Fprintf(w, "Label Store Offset: %d\n", h.LabelOffset)
	fmt.Fprintf(w, "Vertex Store Offset: %d\n", h.VertexOffset)
	fmt.Fprintf(w, "Edge Store Offset: %d\n", h.EdgeOffset)
	fmt.Fprintf(w, "Property Store Offset: %d\n", h.PropertyOffset)
	fmt.Fprintf(w, "Text Store Offset: %d\n", h.TextOffset)
	fmt.Fprintf(w, "Text Block Size: %d\n", h.TextBlockSize)
	fmt.Fprintf(w, "Index Store Offset: %d\n", h.IndexOffset)
	fmt.Fprintf(w, "Index Page Size: %d\n", h.IndexPageSize)
	fmt.Fprintf(w, "Index Page Count: %d\n", h.IndexPageCount)
}

func trimNul(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}

	return string(b[:end])
}

// writeHeader writes the full 84-byte header.
func (g *Graph) writeHeader() error {
	return g.writeBytes(g.header.Bytes(), 0)
}

// noteFlush records one successful store flush: the change counter is
// bumped and persisted. Suppressed while a new file is being seeded.
func (g *Graph) noteFlush() error {
	if g.initializing {
		return nil
	}
	g.header.ChangeCounter++

	return g.writeUint32(g.header.ChangeCounter, section.ChangeCounterOffset)
}

// The positional I/O surface. This is the only path between the stores
// and the operating system; everything else is memory work.

func (g *Graph) readBytes(dst []byte, offset int64) error {
	_, err := g.file.ReadAt(dst, offset)
	return err
}

func (g *Graph) writeBytes(data []byte, offset int64) error {
	_, err := g.file.WriteAt(data, offset)
	return err
}

func (g *Graph) readUint16(offset int64) (uint16, error) {
	var buf [2]byte
	if err := g.readBytes(buf[:], offset); err != nil {
		return 0, err
	}

	return endian.Big().Uint16(buf[:]), nil
}

func (g *Graph) readUint32(offset int64) (uint32, error) {
	var buf [4]byte
	if err := g.readBytes(buf[:], offset); err != nil {
		return 0, err
	}

	return endian.Big().Uint32(buf[:]), nil
}

func (g *Graph) writeUint16(v uint16, offset int64) error {
	var buf [2]byte
	endian.Big().PutUint16(buf[:], v)

	return g.writeBytes(buf[:], offset)
}

func (g *Graph) writeUint32(v uint32, offset int64) error {
	var buf [4]byte
	endian.Big().PutUint32(buf[:], v)

	return g.writeBytes(buf[:], offset)
}
