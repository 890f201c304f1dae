//go:build go1.21

// Package bnode provides typed, bounds-unchecked views over the raw memory
// blocks that make up B+ tree nodes.
//
// A node is one contiguous allocation: a fixed header (tag + length),
// followed by one or two packed sub-arrays whose offsets are precomputed by
// [github.com/flier/bptree/internal/blayout]. This package only does
// pointer arithmetic over that shape; it never allocates, frees, or
// decides when to split or merge. Each node is shaped like a
// [github.com/flier/bptree/pkg/xunsafe.VLA]: a header with a
// variable-length array carved out immediately past it.
package bnode

import (
	"unsafe"

	"github.com/flier/bptree/pkg/xunsafe"
)

// Tag discriminates a node's two variants.
type Tag uint16

const (
	// TagLeaf marks a node as a leaf: it stores key/value pairs and sibling
	// links.
	TagLeaf Tag = 1

	// TagBranch marks a node as a branch: it stores separator keys and
	// child pointers.
	TagBranch Tag = 2
)

// tagOff and lenOff are the byte offsets of the two header fields, shared
// by both node variants.
const (
	tagOff = 0
	lenOff = 2
)

// TagOf reads the discriminant tag out of a raw node block.
func TagOf(block unsafe.Pointer) Tag {
	return *xunsafe.ByteAdd[Tag](block, tagOff)
}

// setTag writes the discriminant tag into a raw node block.
func setTag(block unsafe.Pointer, tag Tag) {
	*xunsafe.ByteAdd[Tag](block, tagOff) = tag
}

// LenOf reads a node's length (number of keys currently stored) directly
// out of a raw block, without needing to know whether it is a leaf or a
// branch: both variants keep the length at the same offset.
func LenOf(block unsafe.Pointer) int {
	return int(*xunsafe.ByteAdd[uint16](block, lenOff))
}

// setLen writes a node's length, shared by both variants.
func setLen(block unsafe.Pointer, n int) {
	*xunsafe.ByteAdd[uint16](block, lenOff) = uint16(n)
}
