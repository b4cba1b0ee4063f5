// Package fabricdb is an embedded, single-file persistent store for a typed
// property graph: vertices belonging to a class hierarchy, directed labeled
// edges, and typed properties attached to either.
//
// A graph lives in one binary file. The file starts with a fixed 84-byte
// header followed by seven contiguous regions, one per store: classes,
// labels, vertices, edges, properties, text, and indexes. Each store manages
// fixed-size slots addressed by 1-based ids, with freed slots chained on a
// free-list threaded through the dead records themselves, and a write-back
// cache drained by flush.
//
// # Core Features
//
//   - Single-inheritance class hierarchy rooted at the reserved "Vertex" class
//   - Interned, refcounted labels shared by class names, edge types, and
//     property keys
//   - Typed property values: integers, reals, booleans, datetimes, and text
//     (short text inline, long text in the block-based text store)
//   - Hash-based name indexes (64-bit xxHash64) for O(1) class and label lookup
//   - Big-endian on-disk format, portable across hosts
//   - A monotonic change counter for client-side cache invalidation
//
// # Basic Usage
//
// Creating a graph and populating it:
//
//	g, _ := fabricdb.Create("people.fdb")
//	defer g.Close()
//
//	root, _ := g.Classes().GetByName("Vertex")
//	person, _ := g.Classes().Create(root, "Person", false)
//
//	alice, _ := g.Vertices().Create(person.ID)
//	bob, _ := g.Vertices().Create(person.ID)
//	g.Edges().Create("knows", alice.ID, bob.ID)
//
//	name, _ := g.Properties().CreateOnVertex(alice.ID, "name")
//	g.Properties().SetText(name, "Alice")
//
//	g.Flush()
//
// Reopening it later:
//
//	g, _ := fabricdb.Open("people.fdb")
//	person, _ := g.Classes().GetByName("Person")
//
// # Concurrency
//
// A Graph and its stores are exclusively owned by one goroutine at a time;
// sharing across goroutines requires external mutual exclusion. There is no
// journal: flush overwrites slots in place, and callers decide when to
// persist.
//
// # Package Structure
//
// This package provides thin top-level wrappers around the graph package.
// For direct access to the stores and their records, use graph, record,
// section, and format.
package fabricdb

import (
	"github.com/fabricdb/fabricdb/graph"
)

// Graph is an open graph file; see the graph package for the full API.
type Graph = graph.Graph

// Option configures Create and Open.
type Option = graph.Option

// Create creates a new graph file at path, seeds the root "Vertex" class,
// and returns the open graph.
func Create(path string, opts ...Option) (*Graph, error) {
	return graph.Create(path, opts...)
}

// Open loads an existing graph file.
func Open(path string, opts ...Option) (*Graph, error) {
	return graph.Open(path, opts...)
}

// Convenience re-exports of the common options.
var (
	WithAppSignature     = graph.WithAppSignature
	WithAppVersion       = graph.WithAppVersion
	WithTextBlockSize    = graph.WithTextBlockSize
	WithIndexPageSize    = graph.WithIndexPageSize
	WithIndexCompression = graph.WithIndexCompression
)
