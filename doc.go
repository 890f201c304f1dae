// Package bptree is an in-memory, ordered B+ tree map: a drop-in
// alternative to a plain Go map for workloads that need ordered
// iteration, range scans, or predictable lookup cost over large numbers
// of entries.
//
// Keys and values live in raw-memory nodes carved out of a single
// contiguous allocation per node (see internal/blayout, internal/bnode),
// and the tree algorithms themselves (internal/btree) never allocate a
// scratch buffer for a split or a merge. This package is the thin public
// surface over that engine: construction, the Tree[K, V] API, range
// bounds, and the capacity error that New and NewFunc report.
package bptree
